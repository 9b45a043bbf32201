// Package rentalmarketplace собирает приложение маркетплейса аренды:
// хранилище, кеш, брокер событий, сервисы и HTTP-сервер.
package rentalmarketplace

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/tarasovdg/rental-marketplace/internal/cache"
	"github.com/tarasovdg/rental-marketplace/internal/config"
	"github.com/tarasovdg/rental-marketplace/internal/lib/jwt"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/migrations"
	"github.com/tarasovdg/rental-marketplace/internal/rabbitmq"
	authservice "github.com/tarasovdg/rental-marketplace/internal/services/auth"
	bookingservice "github.com/tarasovdg/rental-marketplace/internal/services/booking"
	listingservice "github.com/tarasovdg/rental-marketplace/internal/services/listing"
	subscriptionservice "github.com/tarasovdg/rental-marketplace/internal/services/subscription"
	"github.com/tarasovdg/rental-marketplace/internal/storage/jsonstore"
	"github.com/tarasovdg/rental-marketplace/internal/storage/postgres"
)

// Repository объединяет контракты хранилища, которые нужны сервисам.
// Обе реализации — файловая и PostgreSQL — удовлетворяют ему целиком.
type Repository interface {
	authservice.UserRepository
	listingservice.PropertyRepository
	bookingservice.BookingRepository
	subscriptionservice.SubscriptionRepository
}

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *sql.DB // nil при файловом хранилище
	amqpConn *amqp.Connection
	amqpCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		repo Repository
		db   *sql.DB
	)
	switch cfg.Storage.Driver {
	case "postgres":
		store, err := postgres.New(cfg.Storage.ConnectionString)
		if err != nil {
			return nil, err
		}
		if err := migrations.Run(store.DB, cfg.Storage.MigrationsPath); err != nil {
			return nil, err
		}
		if err := postgres.CheckDatabaseReady(store); err != nil {
			return nil, err
		}
		repo = store
		db = store.DB
	default:
		store, err := jsonstore.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		repo = store
	}

	// Кеш необязателен: без Redis проверка подписки ходит в хранилище
	var subscriptionCache subscriptionservice.Cache
	if cfg.RedisConnection.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		subscriptionCache = cacheRedis
	} else {
		logger.Info("redis address is empty, subscription cache disabled")
	}

	var (
		publisher bookingservice.EventPublisher
		amqpConn  *amqp.Connection
		amqpCh    *amqp.Channel
	)
	if cfg.RabbitConnection.AddressRabbit != "" {
		conn, ch, err := rabbitmq.Connect(cfg.RabbitConnection.AddressRabbit, cfg.RabbitConnection.Exchange)
		if err != nil {
			return nil, err
		}
		amqpConn, amqpCh = conn, ch
		publisher = rabbitmq.NewPublisher(ch, cfg.RabbitConnection.Exchange)
	} else {
		logger.Info("rabbitmq address is empty, booking events disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authService := authservice.NewAuthService(repo, jwtMaker)
	subscriptionService := subscriptionservice.NewSubscriptionService(repo, subscriptionCache, logger)
	listingService := listingservice.NewListingService(repo, logger)
	bookingService := bookingservice.NewBookingService(repo, repo, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, subscriptionService, listingService, bookingService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
		amqpCh:   amqpCh,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.amqpCh != nil {
		if err := a.amqpCh.Close(); err != nil {
			a.logger.Warn("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", sl.Err(err))
		}
	}
}
