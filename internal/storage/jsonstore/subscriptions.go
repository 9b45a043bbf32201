package jsonstore

import (
	"context"
	"fmt"

	"github.com/tarasovdg/rental-marketplace/internal/models"
	"github.com/tarasovdg/rental-marketplace/internal/storage"
)

// GetActiveSubscriptionByUser возвращает активную подписку пользователя
// или (nil, nil), если активной подписки нет.
func (s *Storage) GetActiveSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "jsonstore.GetActiveSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionSubscriptions)
	defer unlock()

	var subscriptions []models.Subscription
	if err := s.readCollection(storage.CollectionSubscriptions, &subscriptions); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range subscriptions {
		if subscriptions[i].UserID == userID && subscriptions[i].Status == models.SubscriptionActive {
			return &subscriptions[i], nil
		}
	}
	return nil, nil
}

// GetSubscriptionByUser возвращает подписку пользователя независимо от статуса:
// активную, если она есть, иначе последнюю по времени обновления.
// Возвращает (nil, nil), если у пользователя нет ни одной записи.
func (s *Storage) GetSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "jsonstore.GetSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionSubscriptions)
	defer unlock()

	var subscriptions []models.Subscription
	if err := s.readCollection(storage.CollectionSubscriptions, &subscriptions); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var latest *models.Subscription
	for i := range subscriptions {
		if subscriptions[i].UserID != userID {
			continue
		}
		if subscriptions[i].Status == models.SubscriptionActive {
			return &subscriptions[i], nil
		}
		if latest == nil || subscriptions[i].UpdatedAt.After(latest.UpdatedAt) {
			latest = &subscriptions[i]
		}
	}
	return latest, nil
}

// SaveSubscription сохраняет подписку: заменяет запись с тем же ID
// или добавляет новую. Повторная подписка обновляет существующую запись,
// поэтому отдельного метода создания нет.
func (s *Storage) SaveSubscription(ctx context.Context, subscription models.Subscription) error {
	const op = "jsonstore.SaveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionSubscriptions)
	defer unlock()

	var subscriptions []models.Subscription
	if err := s.readCollection(storage.CollectionSubscriptions, &subscriptions); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	replaced := false
	for i := range subscriptions {
		if subscriptions[i].ID == subscription.ID {
			subscriptions[i] = subscription
			replaced = true
			break
		}
	}
	if !replaced {
		subscriptions = append(subscriptions, subscription)
	}
	if err := s.writeCollection(storage.CollectionSubscriptions, subscriptions); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
