package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tarasovdg/rental-marketplace/internal/models"
)

// GetActiveSubscriptionByUser возвращает активную подписку пользователя
// или (nil, nil), если активной подписки нет.
func (s *Storage) GetActiveSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "postgres.GetActiveSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT doc FROM subscriptions
			  WHERE doc->>'userId' = $1 AND doc->>'status' = 'active'`
	var doc []byte
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var subscription models.Subscription
	if err := json.Unmarshal(doc, &subscription); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &subscription, nil
}

// GetSubscriptionByUser возвращает подписку пользователя независимо от статуса:
// активную, если она есть, иначе последнюю по времени обновления.
// Возвращает (nil, nil), если у пользователя нет ни одной записи.
func (s *Storage) GetSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "postgres.GetSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT doc FROM subscriptions
			  WHERE doc->>'userId' = $1
			  ORDER BY (doc->>'status' = 'active') DESC, doc->>'updatedAt' DESC
			  LIMIT 1`
	var doc []byte
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var subscription models.Subscription
	if err := json.Unmarshal(doc, &subscription); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &subscription, nil
}

// SaveSubscription сохраняет подписку: заменяет запись с тем же ID
// или добавляет новую.
func (s *Storage) SaveSubscription(ctx context.Context, subscription models.Subscription) error {
	const op = "postgres.SaveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	doc, err := json.Marshal(subscription)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO subscriptions (id, doc) VALUES ($1, $2)
			  ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`
	if _, err := s.DB.ExecContext(ctx, query, subscription.ID, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
