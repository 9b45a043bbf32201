package jsonstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/tarasovdg/rental-marketplace/internal/models"
	"github.com/tarasovdg/rental-marketplace/internal/storage"
)

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Электронная почта уникальна в пределах коллекции.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "jsonstore.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionUsers)
	defer unlock()

	var users []models.User
	if err := s.readCollection(storage.CollectionUsers, &users); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
		}
	}

	users = append(users, user)
	if err := s.writeCollection(storage.CollectionUsers, users); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return user.ID, nil
}

// GetUserByEmail возвращает пользователя по электронной почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "jsonstore.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionUsers)
	defer unlock()

	var users []models.User
	if err := s.readCollection(storage.CollectionUsers, &users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// GetUserByID возвращает пользователя по идентификатору.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "jsonstore.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionUsers)
	defer unlock()

	var users []models.User
	if err := s.readCollection(storage.CollectionUsers, &users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}
