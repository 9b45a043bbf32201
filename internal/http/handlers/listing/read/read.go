// Package read реализует HTTP-обработчик для получения объявления по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику чтения
// и возвращает данные объявления в JSON-формате.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tarasovdg/rental-marketplace/internal/http/response"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/models"
	listingservice "github.com/tarasovdg/rental-marketplace/internal/services/listing"
)

// Handler обрабатывает запросы на получение объявления по идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики объявлений
}

// Service описывает интерфейс бизнес-логики чтения объявления.
type Service interface {
	Get(ctx context.Context, id string) (*models.Property, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить объявление
// @Description Возвращает объявление по идентификатору. Доступно без авторизации.
// @Tags Listings
// @Produce  json
// @Param id path string true "Идентификатор объявления"
// @Success 200 {object} map[string]any "Объявление"
// @Failure 404 {object} response.ErrorResponse "Объявление не найдено"
// @Router /properties/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	property, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, listingservice.ErrNotFound) {
			log.Info("property not found", slog.String("property_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("property not found"))
			return
		}
		log.Error("failed to read property", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read property"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"property": property,
	}))
}
