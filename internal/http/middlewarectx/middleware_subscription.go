package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tarasovdg/rental-marketplace/internal/http/response"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/models"
	subscriptionservice "github.com/tarasovdg/rental-marketplace/internal/services/subscription"
)

// SubscriptionChecker описывает интерфейс проверки активной подписки пользователя.
type SubscriptionChecker interface {
	GetActive(ctx context.Context, userID string) (*models.Subscription, error)
}

// SubscriptionMiddleware возвращает HTTP middleware, который требует активную подписку.
//
// Ставится после JWTMiddleware. Отсутствие подписки — 402 Payment Required,
// истёкшая подписка — 403 Forbidden. Найденная подписка кладётся в контекст,
// чтобы обработчики не ходили за ней повторно.
func SubscriptionMiddleware(checker SubscriptionChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SubscriptionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userID, ok := r.Context().Value(UserID).(string)
			if !ok || userID == "" {
				log.Error("user id not found in context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			subscription, err := checker.GetActive(r.Context(), userID)
			if err != nil {
				switch {
				case errors.Is(err, subscriptionservice.ErrSubscriptionRequired):
					log.Info("active subscription required", slog.String("user_id", userID))
					w.WriteHeader(http.StatusPaymentRequired)
					render.JSON(w, r, response.Error("active subscription required"))
				case errors.Is(err, subscriptionservice.ErrSubscriptionExpired):
					log.Info("subscription expired", slog.String("user_id", userID))
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("subscription expired"))
				default:
					log.Error("failed to check subscription", sl.Err(err))
					w.WriteHeader(http.StatusInternalServerError)
					render.JSON(w, r, response.Error("could not check subscription"))
				}
				return
			}

			ctx := context.WithValue(r.Context(), ActiveSubscription, subscription)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
