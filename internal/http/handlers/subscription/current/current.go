// Package current реализует HTTP-обработчик получения подписки текущего пользователя.
//
// Проверка активности происходит в бизнес-логике: если срок истек,
// запись переводится в expired прямо при этом запросе.
package current

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tarasovdg/rental-marketplace/internal/http/middlewarectx"
	"github.com/tarasovdg/rental-marketplace/internal/http/response"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/models"
	subscriptionservice "github.com/tarasovdg/rental-marketplace/internal/services/subscription"
)

// Handler обрабатывает запросы на получение активной подписки пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики подписок
}

// Service описывает интерфейс бизнес-логики проверки подписки.
type Service interface {
	GetActive(ctx context.Context, userID string) (*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить активную подписку
// @Description Возвращает активную подписку текущего пользователя.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Активная подписка"
// @Failure 402 {object} response.ErrorResponse "Подписка не оформлена"
// @Failure 403 {object} response.ErrorResponse "Подписка истекла"
// @Router /subscriptions/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.current"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	subscription, err := h.service.GetActive(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, subscriptionservice.ErrSubscriptionRequired):
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("active subscription required"))
		case errors.Is(err, subscriptionservice.ErrSubscriptionExpired):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("subscription expired"))
		default:
			log.Error("failed to get subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not get subscription"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": subscription,
	}))
}
