package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tarasovdg/rental-marketplace/internal/models"
	"github.com/tarasovdg/rental-marketplace/internal/storage"
)

// CreateBooking добавляет бронирование в коллекцию.
func (s *Storage) CreateBooking(ctx context.Context, booking models.Booking) error {
	const op = "postgres.CreateBooking"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	doc, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO bookings (id, doc) VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, booking.ID, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetBooking возвращает бронирование по идентификатору.
func (s *Storage) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "postgres.GetBooking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var doc []byte
	err := s.DB.QueryRowContext(ctx, `SELECT doc FROM bookings WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var booking models.Booking
	if err := json.Unmarshal(doc, &booking); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &booking, nil
}

// UpdateBooking заменяет запись бронирования с тем же идентификатором.
func (s *Storage) UpdateBooking(ctx context.Context, booking models.Booking) error {
	const op = "postgres.UpdateBooking"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	doc, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	result, err := s.DB.ExecContext(ctx, `UPDATE bookings SET doc = $1 WHERE id = $2`, doc, booking.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// ListBookingsByProperty возвращает бронирования объекта.
func (s *Storage) ListBookingsByProperty(ctx context.Context, propertyID string) ([]models.Booking, error) {
	const op = "postgres.ListBookingsByProperty"
	query := `SELECT doc FROM bookings WHERE doc->>'propertyId' = $1 ORDER BY doc->>'createdAt'`
	return s.listBookings(ctx, op, query, propertyID)
}

// ListBookingsByUser возвращает бронирования гостя.
func (s *Storage) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	const op = "postgres.ListBookingsByUser"
	query := `SELECT doc FROM bookings WHERE doc->>'userId' = $1 ORDER BY doc->>'createdAt'`
	return s.listBookings(ctx, op, query, userID)
}

// ListBookingsByProperties возвращает бронирования для набора объектов.
func (s *Storage) ListBookingsByProperties(ctx context.Context, propertyIDs []string) ([]models.Booking, error) {
	const op = "postgres.ListBookingsByProperties"
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	query := `SELECT doc FROM bookings WHERE doc->>'propertyId' = ANY($1) ORDER BY doc->>'createdAt'`
	return s.listBookings(ctx, op, query, propertyIDs)
}

func (s *Storage) listBookings(ctx context.Context, op, query string, args ...any) ([]models.Booking, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Booking
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		var booking models.Booking
		if err := json.Unmarshal(doc, &booking); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
