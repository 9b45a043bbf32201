package rentalmarketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/auth/login"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/auth/register"
	bookingcreate "github.com/tarasovdg/rental-marketplace/internal/http/handlers/booking/create"
	bookinglistmine "github.com/tarasovdg/rental-marketplace/internal/http/handlers/booking/listmine"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/booking/listowner"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/booking/updatestatus"
	listingcreate "github.com/tarasovdg/rental-marketplace/internal/http/handlers/listing/create"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/listing/list"
	listinglistmine "github.com/tarasovdg/rental-marketplace/internal/http/handlers/listing/listmine"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/listing/read"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/listing/remove"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/listing/update"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/subscription/current"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/subscription/plans"
	"github.com/tarasovdg/rental-marketplace/internal/http/handlers/subscription/subscribe"
	"github.com/tarasovdg/rental-marketplace/internal/http/middlewarectx"
	authservice "github.com/tarasovdg/rental-marketplace/internal/services/auth"
	bookingservice "github.com/tarasovdg/rental-marketplace/internal/services/booking"
	listingservice "github.com/tarasovdg/rental-marketplace/internal/services/listing"
	subscriptionservice "github.com/tarasovdg/rental-marketplace/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Каталог объявлений и чтение объявления открыты без авторизации.
// Бронирования и подписки требуют JWT; управление объявлениями —
// дополнительно активную подписку владельца.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	subscriptionService *subscriptionservice.SubscriptionService,
	listingService *listingservice.ListingService,
	bookingService *bookingservice.BookingService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/plans", plans.New(logger).ServeHTTP)
		r.Get("/properties", list.New(logger, listingService).ServeHTTP)
		r.Get("/properties/{id}", read.New(logger, listingService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/subscriptions", subscribe.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/me", current.New(logger, subscriptionService).ServeHTTP)

			r.Post("/bookings", bookingcreate.New(logger, bookingService).ServeHTTP)
			r.Put("/bookings/{id}/status", updatestatus.New(logger, bookingService).ServeHTTP)
			r.Get("/bookings/my", bookinglistmine.New(logger, bookingService).ServeHTTP)
			r.Get("/bookings/owner", listowner.New(logger, bookingService).ServeHTTP)

			// Управление объявлениями доступно только с активной подпиской
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SubscriptionMiddleware(subscriptionService, logger))
				r.Post("/properties", listingcreate.New(logger, listingService).ServeHTTP)
				r.Put("/properties/{id}", update.New(logger, listingService).ServeHTTP)
				r.Delete("/properties/{id}", remove.New(logger, listingService).ServeHTTP)
				r.Get("/properties/my", listinglistmine.New(logger, listingService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
