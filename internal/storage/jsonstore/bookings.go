package jsonstore

import (
	"context"
	"fmt"

	"github.com/tarasovdg/rental-marketplace/internal/models"
	"github.com/tarasovdg/rental-marketplace/internal/storage"
)

// CreateBooking добавляет бронирование в коллекцию.
func (s *Storage) CreateBooking(ctx context.Context, booking models.Booking) error {
	const op = "jsonstore.CreateBooking"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionBookings)
	defer unlock()

	var bookings []models.Booking
	if err := s.readCollection(storage.CollectionBookings, &bookings); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	bookings = append(bookings, booking)
	if err := s.writeCollection(storage.CollectionBookings, bookings); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetBooking возвращает бронирование по идентификатору.
func (s *Storage) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "jsonstore.GetBooking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionBookings)
	defer unlock()

	var bookings []models.Booking
	if err := s.readCollection(storage.CollectionBookings, &bookings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range bookings {
		if bookings[i].ID == id {
			return &bookings[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// UpdateBooking заменяет запись бронирования с тем же идентификатором.
func (s *Storage) UpdateBooking(ctx context.Context, booking models.Booking) error {
	const op = "jsonstore.UpdateBooking"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionBookings)
	defer unlock()

	var bookings []models.Booking
	if err := s.readCollection(storage.CollectionBookings, &bookings); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i := range bookings {
		if bookings[i].ID == booking.ID {
			bookings[i] = booking
			if err := s.writeCollection(storage.CollectionBookings, bookings); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// ListBookingsByProperty возвращает бронирования объекта.
func (s *Storage) ListBookingsByProperty(ctx context.Context, propertyID string) ([]models.Booking, error) {
	const op = "jsonstore.ListBookingsByProperty"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionBookings)
	defer unlock()

	var bookings []models.Booking
	if err := s.readCollection(storage.CollectionBookings, &bookings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []models.Booking
	for _, b := range bookings {
		if b.PropertyID == propertyID {
			result = append(result, b)
		}
	}
	return result, nil
}

// ListBookingsByUser возвращает бронирования гостя.
func (s *Storage) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	const op = "jsonstore.ListBookingsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionBookings)
	defer unlock()

	var bookings []models.Booking
	if err := s.readCollection(storage.CollectionBookings, &bookings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []models.Booking
	for _, b := range bookings {
		if b.UserID == userID {
			result = append(result, b)
		}
	}
	return result, nil
}

// ListBookingsByProperties возвращает бронирования для набора объектов.
// Используется для выборки бронирований по всем объявлениям владельца.
func (s *Storage) ListBookingsByProperties(ctx context.Context, propertyIDs []string) ([]models.Booking, error) {
	const op = "jsonstore.ListBookingsByProperties"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionBookings)
	defer unlock()

	ids := make(map[string]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		ids[id] = struct{}{}
	}

	var bookings []models.Booking
	if err := s.readCollection(storage.CollectionBookings, &bookings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []models.Booking
	for _, b := range bookings {
		if _, ok := ids[b.PropertyID]; ok {
			result = append(result, b)
		}
	}
	return result, nil
}
