// Package listmine реализует HTTP-обработчик списка объявлений текущего владельца.
package listmine

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

// Handler обрабатывает запросы на получение объявлений владельца.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики объявлений
}

// Service описывает интерфейс бизнес-логики списка объявлений владельца.
type Service interface {
	ListMine(ctx context.Context, ownerID string) ([]models.Property, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить свои объявления
// @Description Возвращает все объявления текущего владельца.
// @Tags Listings
// @Produce  json
// @Success 200 {object} map[string]any "Список объявлений"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /properties/my [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.listmine"

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

	properties, err := h.service.ListMine(r.Context(), ownerID)
	if err != nil {
		log.Error("failed to list owner properties", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list properties"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"properties": properties,
		"count":      len(properties),
	}))
}
