// Package plans реализует HTTP-обработчик для получения каталога тарифов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tarasovdg/rental-marketplace/internal/http/response"
	"github.com/tarasovdg/rental-marketplace/internal/models"
)

// Handler обрабатывает запросы на получение списка тарифов.
// Каталог фиксирован, сервис бизнес-логики не нужен.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Получить каталог тарифов
// @Description Возвращает список доступных тарифов подписки с ценами и возможностями.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Список тарифов"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.plans"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	log.Info("plans requested")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": models.Plans(),
	}))
}
