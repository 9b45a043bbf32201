// Package create реализует HTTP-обработчик создания бронирования.
//
// Handler принимает JSON-запрос с датами и идентификатором объекта, валидирует их,
// извлекает идентификатор гостя из контекста и вызывает бизнес-логику
// движка бронирований.
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
	bookingservice "github.com/tarasovdg/rental-marketplace/internal/services/booking"
)

// Handler управляет HTTP-запросами на создание бронирований.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис движка бронирований
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания бронирования.
type Service interface {
	Create(ctx context.Context, userID string, req models.DummyBooking) (*models.Booking, error)
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
// @Summary Создать бронирование
// @Description Бронирует объект на полуинтервал дат [заезд, выезд). Для объявлений с автоподтверждением статус сразу confirmed, иначе pending.
// @Tags Bookings
// @Accept  json
// @Produce  json
// @Param request body models.DummyBooking true "Данные бронирования"
// @Success 200 {object} map[string]any "Созданное бронирование"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или даты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Объект не найден"
// @Failure 409 {object} response.ErrorResponse "Даты заняты подтвержденным бронированием"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /bookings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBooking
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	booking, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, bookingservice.ErrInvalidDates):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("check-out must be after check-in"))
		case errors.Is(err, bookingservice.ErrPropertyNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("property not found"))
		case errors.Is(err, bookingservice.ErrDatesUnavailable):
			log.Info("dates unavailable", slog.String("property_id", req.PropertyID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("dates unavailable"))
		default:
			log.Error("failed to create booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create booking"))
		}
		return
	}

	log.Info("booking created",
		slog.String("booking_id", booking.ID), slog.String("status", booking.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"booking": booking,
	}))
}
