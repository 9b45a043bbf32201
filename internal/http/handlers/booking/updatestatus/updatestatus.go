// Package updatestatus реализует HTTP-обработчик смены статуса бронирования.
//
// Статус меняет только владелец объекта. При подтверждении пересечение дат
// с другими подтвержденными бронированиями проверяется заново.
package updatestatus

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
	bookingservice "github.com/tarasovdg/rental-marketplace/internal/services/booking"
)

// Handler управляет HTTP-запросами на смену статуса бронирования.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис движка бронирований
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики смены статуса.
type Service interface {
	UpdateStatus(ctx context.Context, bookingID, callerID, status string) (*models.Booking, error)
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
// @Summary Сменить статус бронирования
// @Description Меняет статус бронирования. Доступно только владельцу объекта.
// @Tags Bookings
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор бронирования"
// @Param request body models.DummyBookingStatus true "Новый статус"
// @Success 200 {object} map[string]any "Обновленное бронирование"
// @Failure 400 {object} response.ErrorResponse "Неизвестный статус"
// @Failure 403 {object} response.ErrorResponse "Запрос не от владельца объекта"
// @Failure 404 {object} response.ErrorResponse "Бронирование не найдено"
// @Failure 409 {object} response.ErrorResponse "Даты заняты другим подтвержденным бронированием"
// @Router /bookings/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.updatestatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyBookingStatus
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	callerID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || callerID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), id, callerID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, bookingservice.ErrInvalidStatus):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown booking status"))
		case errors.Is(err, bookingservice.ErrBookingNotFound), errors.Is(err, bookingservice.ErrPropertyNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("booking not found"))
		case errors.Is(err, bookingservice.ErrForbidden):
			log.Error("status change not from owner", slog.String("booking_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("operation allowed for property owner only"))
		case errors.Is(err, bookingservice.ErrDatesUnavailable):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("dates unavailable"))
		default:
			log.Error("failed to update booking status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update booking status"))
		}
		return
	}

	log.Info("booking status updated",
		slog.String("booking_id", id), slog.String("status", booking.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"booking": booking,
	}))
}
