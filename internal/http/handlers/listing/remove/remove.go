// Package remove реализует HTTP-обработчик удаления объявления.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tarasovdg/rental-marketplace/internal/http/middlewarectx"
	"github.com/tarasovdg/rental-marketplace/internal/http/response"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	listingservice "github.com/tarasovdg/rental-marketplace/internal/services/listing"
)

// Handler управляет HTTP-запросами на удаление объявлений.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики объявлений
}

// Service описывает интерфейс бизнес-логики удаления объявления.
type Service interface {
	Remove(ctx context.Context, id, ownerID string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить объявление
// @Description Удаляет объявление. Доступно только владельцу.
// @Tags Listings
// @Produce  json
// @Param id path string true "Идентификатор объявления"
// @Success 200 {object} map[string]any "Подтверждение удаления"
// @Failure 403 {object} response.ErrorResponse "Объявление принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Объявление не найдено"
// @Router /properties/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	ownerID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || ownerID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Remove(r.Context(), id, ownerID); err != nil {
		switch {
		case errors.Is(err, listingservice.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("property not found"))
		case errors.Is(err, listingservice.ErrForbidden):
			log.Error("property owned by another user", slog.String("property_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("property owned by another user"))
		default:
			log.Error("failed to remove property", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not remove property"))
		}
		return
	}

	log.Info("property removed", slog.String("property_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed_id": id,
	}))
}
