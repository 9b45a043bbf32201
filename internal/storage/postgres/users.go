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

// CreateUser сохраняет нового пользователя и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "postgres.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var taken bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(doc->>'email') = lower($1))`,
		user.Email).Scan(&taken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return "", fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
	}

	doc, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO users (id, doc) VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, user.ID, doc); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return user.ID, nil
}

// GetUserByEmail возвращает пользователя по электронной почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "postgres.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT doc FROM users WHERE lower(doc->>'email') = lower($1)`
	return s.scanUser(ctx, op, query, email)
}

// GetUserByID возвращает пользователя по идентификатору.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "postgres.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT doc FROM users WHERE id = $1`
	return s.scanUser(ctx, op, query, id)
}

func (s *Storage) scanUser(ctx context.Context, op, query string, arg any) (*models.User, error) {
	var doc []byte
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var user models.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}
