// Package update реализует HTTP-обработчик частичного обновления объявления.
//
// Handler принимает JSON-патч, извлекает ID из URL-параметров и идентификатор
// владельца из контекста. Поля id и ownerId патчем не изменяются.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/tarasovdg/rental-marketplace/internal/http/middlewarectx"
	"github.com/tarasovdg/rental-marketplace/internal/http/response"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/models"
	listingservice "github.com/tarasovdg/rental-marketplace/internal/services/listing"
)

// Handler управляет HTTP-запросами на обновление объявлений.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики объявлений
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обновления объявления.
type Service interface {
	Update(ctx context.Context, id, ownerID string, patch models.PropertyPatch) (*models.Property, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить объявление
// @Description Частично обновляет объявление. Доступно только владельцу.
// @Tags Listings
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор объявления"
// @Param request body models.PropertyPatch true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновленное объявление"
// @Failure 403 {object} response.ErrorResponse "Объявление принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Объявление не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /properties/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var patch models.PropertyPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(patch); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	ownerID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || ownerID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	property, err := h.service.Update(r.Context(), id, ownerID, patch)
	if err != nil {
		switch {
		case errors.Is(err, listingservice.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("property not found"))
		case errors.Is(err, listingservice.ErrForbidden):
			log.Error("property owned by another user", slog.String("property_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("property owned by another user"))
		default:
			log.Error("failed to update property", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update property"))
		}
		return
	}

	log.Info("property updated", slog.String("property_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"property": property,
	}))
}
