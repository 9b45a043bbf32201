// Package listowner реализует HTTP-обработчик списка бронирований
// по всем объектам текущего владельца.
package listowner

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tarasovdg/rental-marketplace/internal/http/middlewarectx"
	"github.com/tarasovdg/rental-marketplace/internal/http/response"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/models"
)

// Handler обрабатывает запросы на получение бронирований владельца.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис движка бронирований
}

// Service описывает интерфейс бизнес-логики списка бронирований владельца.
type Service interface {
	ListForOwner(ctx context.Context, ownerID string) ([]models.Booking, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить бронирования своих объектов
// @Description Возвращает входящие бронирования по всем объектам текущего владельца.
// @Tags Bookings
// @Produce  json
// @Success 200 {object} map[string]any "Список бронирований"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /bookings/owner [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.listowner"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ownerID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || ownerID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	bookings, err := h.service.ListForOwner(r.Context(), ownerID)
	if err != nil {
		log.Error("failed to list owner bookings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bookings"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"bookings": bookings,
		"count":    len(bookings),
	}))
}
