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

// CreateProperty добавляет объявление в коллекцию.
func (s *Storage) CreateProperty(ctx context.Context, property models.Property) error {
	const op = "postgres.CreateProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	doc, err := json.Marshal(property)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO properties (id, doc) VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, property.ID, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProperty возвращает объявление по идентификатору.
func (s *Storage) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	const op = "postgres.GetProperty"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var doc []byte
	err := s.DB.QueryRowContext(ctx, `SELECT doc FROM properties WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var property models.Property
	if err := json.Unmarshal(doc, &property); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &property, nil
}

// UpdateProperty заменяет запись объявления с тем же идентификатором.
func (s *Storage) UpdateProperty(ctx context.Context, property models.Property) error {
	const op = "postgres.UpdateProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	doc, err := json.Marshal(property)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	result, err := s.DB.ExecContext(ctx, `UPDATE properties SET doc = $1 WHERE id = $2`, doc, property.ID)
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

// RemoveProperty удаляет объявление из коллекции.
func (s *Storage) RemoveProperty(ctx context.Context, id string) error {
	const op = "postgres.RemoveProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
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

// ListProperties возвращает все объявления без пагинации.
func (s *Storage) ListProperties(ctx context.Context) ([]models.Property, error) {
	const op = "postgres.ListProperties"
	query := `SELECT doc FROM properties ORDER BY doc->>'createdAt'`
	return s.listProperties(ctx, op, query)
}

// ListPropertiesByOwner возвращает объявления владельца.
func (s *Storage) ListPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	const op = "postgres.ListPropertiesByOwner"
	query := `SELECT doc FROM properties WHERE doc->>'ownerId' = $1 ORDER BY doc->>'createdAt'`
	return s.listProperties(ctx, op, query, ownerID)
}

// CountPropertiesByOwner подсчитывает объявления владельца для проверки лимита тарифа.
func (s *Storage) CountPropertiesByOwner(ctx context.Context, ownerID string) (int, error) {
	const op = "postgres.CountPropertiesByOwner"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM properties WHERE doc->>'ownerId' = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (s *Storage) listProperties(ctx context.Context, op, query string, args ...any) ([]models.Property, error) {
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

	var result []models.Property
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		var property models.Property
		if err := json.Unmarshal(doc, &property); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
