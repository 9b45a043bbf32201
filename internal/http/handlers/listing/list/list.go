// Package list реализует HTTP-обработчик публичного каталога объявлений.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tarasovdg/rental-marketplace/internal/http/response"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/models"
)

// Handler обрабатывает запросы на получение каталога объявлений.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики объявлений
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context) ([]models.Property, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить каталог объявлений
// @Description Возвращает все объявления. Доступно без авторизации.
// @Tags Listings
// @Produce  json
// @Success 200 {object} map[string]any "Список объявлений"
// @Router /properties [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	properties, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list properties", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list properties"))
		return
	}

	log.Info("properties listed", slog.Int("count", len(properties)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"properties": properties,
		"count":      len(properties),
	}))
}
