// Package services содержит бизнес-логику движка бронирований:
// создание с проверкой пересечения дат, смена статуса владельцем
// и выборки гостя и владельца.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tarasovdg/rental-marketplace/internal/lib/interval"
	"github.com/tarasovdg/rental-marketplace/internal/lib/keylock"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/models"
	"github.com/tarasovdg/rental-marketplace/internal/storage"
)

var (
	// ErrPropertyNotFound объект с указанным идентификатором не существует.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrBookingNotFound бронирование с указанным идентификатором не существует.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrInvalidDates дата выезда не позже даты заезда.
	ErrInvalidDates = errors.New("check-out must be after check-in")
	// ErrDatesUnavailable даты пересекаются с подтверждённым бронированием.
	ErrDatesUnavailable = errors.New("dates unavailable")
	// ErrForbidden операция доступна только владельцу объекта.
	ErrForbidden = errors.New("operation allowed for property owner only")
	// ErrInvalidStatus неизвестный статус бронирования.
	ErrInvalidStatus = errors.New("unknown booking status")
)

const dateLayout = "2006-01-02"

// BookingRepository определяет методы для работы с бронированиями в хранилище.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, booking models.Booking) error
	ListBookingsByProperty(ctx context.Context, propertyID string) ([]models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListBookingsByProperties(ctx context.Context, propertyIDs []string) ([]models.Booking, error)
}

// PropertyReader определяет методы чтения объявлений, нужные движку бронирований.
type PropertyReader interface {
	GetProperty(ctx context.Context, id string) (*models.Property, error)
	ListPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error)
}

// EventPublisher публикует доменные события бронирований.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// BookingService реализует движок бронирований.
// Publisher необязателен: при nil события не публикуются.
type BookingService struct {
	bookings   BookingRepository
	properties PropertyReader
	publisher  EventPublisher
	locks      *keylock.KeyLock
	log        *slog.Logger
}

// NewBookingService создает новый экземпляр BookingService.
func NewBookingService(bookings BookingRepository, properties PropertyReader, publisher EventPublisher, log *slog.Logger) *BookingService {
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		publisher:  publisher,
		locks:      keylock.New(),
		log:        log,
	}
}

// bookingEvent тело события бронирования для брокера.
type bookingEvent struct {
	BookingID  string  `json:"booking_id"`
	PropertyID string  `json:"property_id"`
	UserID     string  `json:"user_id"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
}

// Create создает бронирование объекта для пользователя userID.
//
// Даты трактуются как полуинтервал [checkIn, checkOut): выезд в день чужого
// заезда пересечением не считается. Пересечение проверяется только
// с confirmed-бронированиями; pending и cancelled даты не блокируют.
// Стоимость = цена за ночь × количество ночей и далее не пересчитывается.
// Для объявлений с instant бронирование сразу confirmed, иначе pending.
func (s *BookingService) Create(ctx context.Context, userID string, req models.DummyBooking) (*models.Booking, error) {
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return nil, ErrInvalidDates
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return nil, ErrInvalidDates
	}
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDates
	}

	// Проверка пересечения и запись под одним замком,
	// иначе два конкурентных запроса прошли бы проверку одновременно
	unlock := s.locks.Lock("property:" + req.PropertyID)
	defer unlock()

	property, err := s.properties.GetProperty(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	existing, err := s.bookings.ListBookingsByProperty(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Status != models.BookingConfirmed {
			continue
		}
		if interval.Overlaps(checkIn, checkOut, existing[i].CheckIn, existing[i].CheckOut) {
			return nil, ErrDatesUnavailable
		}
	}

	guests := req.Guests
	if guests == 0 {
		guests = property.Guests
	}
	status := models.BookingPending
	if property.Instant {
		status = models.BookingConfirmed
	}

	booking := models.Booking{
		ID:         uuid.NewString(),
		PropertyID: property.ID,
		UserID:     userID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		TotalPrice: property.Price * float64(interval.Nights(checkIn, checkOut)),
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	s.log.Info("booking created",
		slog.String("booking_id", booking.ID),
		slog.String("property_id", booking.PropertyID),
		slog.String("status", booking.Status))

	s.publish(ctx, "booking.created", booking)
	return &booking, nil
}

// UpdateStatus меняет статус бронирования. Разрешено только владельцу объекта.
//
// При переводе в confirmed пересечение с другими confirmed-бронированиями
// проверяется заново: за время ожидания могли подтвердить конкурирующее.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, callerID, status string) (*models.Booking, error) {
	if _, ok := models.BookingStatuses[status]; !ok {
		return nil, ErrInvalidStatus
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	unlock := s.locks.Lock("property:" + booking.PropertyID)
	defer unlock()

	property, err := s.properties.GetProperty(ctx, booking.PropertyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if property.OwnerID != callerID {
		return nil, ErrForbidden
	}

	if status == models.BookingConfirmed && booking.Status != models.BookingConfirmed {
		existing, err := s.bookings.ListBookingsByProperty(ctx, booking.PropertyID)
		if err != nil {
			return nil, err
		}
		for i := range existing {
			if existing[i].ID == booking.ID || existing[i].Status != models.BookingConfirmed {
				continue
			}
			if interval.Overlaps(booking.CheckIn, booking.CheckOut, existing[i].CheckIn, existing[i].CheckOut) {
				return nil, ErrDatesUnavailable
			}
		}
	}

	booking.Status = status
	if err := s.bookings.UpdateBooking(ctx, *booking); err != nil {
		return nil, err
	}
	s.log.Info("booking status updated",
		slog.String("booking_id", booking.ID), slog.String("status", status))

	s.publish(ctx, "booking.status_changed", *booking)
	return booking, nil
}

// ListMine возвращает бронирования, сделанные пользователем.
func (s *BookingService) ListMine(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookings.ListBookingsByUser(ctx, userID)
}

// ListForOwner возвращает бронирования по всем объектам владельца.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	properties, err := s.properties.ListPropertiesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(properties))
	for i := range properties {
		ids = append(ids, properties[i].ID)
	}
	return s.bookings.ListBookingsByProperties(ctx, ids)
}

func (s *BookingService) publish(ctx context.Context, routingKey string, booking models.Booking) {
	if s.publisher == nil {
		return
	}
	event := bookingEvent{
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		UserID:     booking.UserID,
		Status:     booking.Status,
		TotalPrice: booking.TotalPrice,
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn("failed to publish booking event", sl.Err(err))
	}
}
