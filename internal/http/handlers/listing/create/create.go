// Package create реализует HTTP-обработчик для создания объявлений.
//
// Handler принимает JSON-запрос с данными объявления, валидирует их,
// извлекает идентификатор владельца и его подписку из контекста
// и вызывает бизнес-логику создания объявления.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/tarasovdg/rental-marketplace/internal/http/middlewarectx"
	"github.com/tarasovdg/rental-marketplace/internal/http/response"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/models"
	listingservice "github.com/tarasovdg/rental-marketplace/internal/services/listing"
)

// Handler управляет HTTP-запросами на создание объявлений.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики объявлений
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания объявления.
type Service interface {
	Create(ctx context.Context, ownerID string, subscription *models.Subscription, req models.DummyProperty) (*models.Property, error)
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
// @Summary Создать объявление
// @Description Создает объявление текущего владельца. На тарифе basic действует лимит в три объявления.
// @Tags Listings
// @Accept  json
// @Produce  json
// @Param request body models.DummyProperty true "Данные объявления"
// @Success 200 {object} map[string]any "Созданное объявление"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Достигнут лимит тарифа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /properties [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyProperty
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("title", req.Title))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	ownerID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || ownerID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	subscription, ok := r.Context().Value(middlewarectx.ActiveSubscription).(*models.Subscription)
	if !ok || subscription == nil {
		log.Error("subscription not found in context")
		w.WriteHeader(http.StatusPaymentRequired)
		render.JSON(w, r, response.Error("active subscription required"))
		return
	}

	property, err := h.service.Create(r.Context(), ownerID, subscription, req)
	if err != nil {
		if errors.Is(err, listingservice.ErrPlanLimitExceeded) {
			log.Error("plan listing limit exceeded", slog.String("owner_id", ownerID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("plan listing limit exceeded"))
			return
		}
		log.Error("failed to create property", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create property"))
		return
	}

	log.Info("property created", slog.String("property_id", property.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"property": property,
	}))
}
