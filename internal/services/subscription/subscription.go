// Package services содержит бизнес-логику жизненного цикла подписок:
// каталог тарифов, оформление и продление, ленивое истечение при проверке доступа.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tarasovdg/rental-marketplace/internal/lib/keylock"
	"github.com/tarasovdg/rental-marketplace/internal/lib/sl"
	"github.com/tarasovdg/rental-marketplace/internal/models"
)

var (
	// ErrInvalidPlan неизвестный идентификатор тарифа.
	ErrInvalidPlan = errors.New("unknown plan")
	// ErrSubscriptionRequired у пользователя нет активной подписки.
	ErrSubscriptionRequired = errors.New("active subscription required")
	// ErrSubscriptionExpired подписка пользователя истекла.
	ErrSubscriptionExpired = errors.New("subscription expired")
)

// cacheTTL время жизни записи активной подписки в кеше.
// Истечение всё равно проверяется по expiresAt при каждом обращении.
const cacheTTL = 5 * time.Minute

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// GetActiveSubscriptionByUser возвращает активную подписку пользователя или (nil, nil).
	GetActiveSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error)
	// GetSubscriptionByUser возвращает подписку независимо от статуса или (nil, nil).
	GetSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error)
	// SaveSubscription сохраняет подписку, заменяя запись с тем же ID.
	SaveSubscription(ctx context.Context, subscription models.Subscription) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SubscriptionService реализует жизненный цикл подписок.
// Кеш необязателен: при nil все обращения идут в хранилище.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	locks *keylock.KeyLock
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		locks: keylock.New(),
		log:   log,
	}
}

func cacheKey(userID string) string {
	return fmt.Sprintf("subscription:active:%s", userID)
}

// Subscribe оформляет или продлевает подписку пользователя на тариф planID.
//
// Если активная подписка уже есть, обновляется та же запись: новый тариф,
// новая цена и expiresAt = now + длительность тарифа. Продление не аддитивно —
// окно всегда отсчитывается от момента вызова, а не от прежнего expiresAt.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	plan, ok := models.PlanCatalog[planID]
	if !ok {
		return nil, ErrInvalidPlan
	}

	unlock := s.locks.Lock("subscription:" + userID)
	defer unlock()

	existing, err := s.repo.GetActiveSubscriptionByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var subscription models.Subscription
	if existing != nil {
		subscription = *existing
		subscription.PlanID = plan.ID
		subscription.Price = plan.Price
		subscription.ExpiresAt = now.Add(plan.Duration)
		subscription.UpdatedAt = now
	} else {
		subscription = models.Subscription{
			ID:        uuid.NewString(),
			UserID:    userID,
			PlanID:    plan.ID,
			Price:     plan.Price,
			Status:    models.SubscriptionActive,
			CreatedAt: now,
			ExpiresAt: now.Add(plan.Duration),
			UpdatedAt: now,
		}
	}

	if err := s.repo.SaveSubscription(ctx, subscription); err != nil {
		return nil, err
	}
	s.log.Info("subscription saved",
		slog.String("user_id", userID), slog.String("plan_id", plan.ID))

	if s.cache != nil {
		if err := s.cache.Invalidate(cacheKey(userID)); err != nil {
			s.log.Warn("failed to invalidate subscription cache", sl.Err(err))
		}
	}
	return &subscription, nil
}

// GetActive возвращает активную подписку пользователя для проверки доступа.
//
// Если пользователь никогда не подписывался — ErrSubscriptionRequired.
// Если подписка есть, но expiresAt в прошлом, статус записи переводится
// в expired, изменение сохраняется (побочный эффект проверки), кеш
// инвалидируется и возвращается ErrSubscriptionExpired. Повторные вызовы
// после этого тоже возвращают ErrSubscriptionExpired до новой подписки.
func (s *SubscriptionService) GetActive(ctx context.Context, userID string) (*models.Subscription, error) {
	key := cacheKey(userID)

	if s.cache != nil {
		var cached models.Subscription
		found, err := s.cache.Get(key, &cached)
		if err != nil {
			s.log.Warn("failed to read subscription cache", sl.Err(err))
		} else if found && cached.ExpiresAt.After(time.Now().UTC()) {
			return &cached, nil
		}
	}

	// Фиксация истечения меняет запись, поэтому держим тот же замок,
	// что и Subscribe, и читаем хранилище уже после его захвата: иначе
	// устаревшее чтение затёрло бы параллельное продление статусом expired.
	unlock := s.locks.Lock("subscription:" + userID)
	defer unlock()

	subscription, err := s.repo.GetActiveSubscriptionByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		// Активной записи нет: различаем "никогда не подписывался"
		// и "подписка уже переведена в expired"
		latest, err := s.repo.GetSubscriptionByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if latest != nil && latest.Status == models.SubscriptionExpired {
			return nil, ErrSubscriptionExpired
		}
		return nil, ErrSubscriptionRequired
	}

	if subscription.ExpiresAt.Before(time.Now().UTC()) {
		subscription.Status = models.SubscriptionExpired
		subscription.UpdatedAt = time.Now().UTC()
		if err := s.repo.SaveSubscription(ctx, *subscription); err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Invalidate(key); err != nil {
				s.log.Warn("failed to invalidate subscription cache", sl.Err(err))
			}
		}
		s.log.Info("subscription lazily expired", slog.String("user_id", userID))
		return nil, ErrSubscriptionExpired
	}

	if s.cache != nil {
		if err := s.cache.Set(key, subscription, cacheTTL); err != nil {
			s.log.Warn("failed to cache subscription", sl.Err(err))
		}
	}
	return subscription, nil
}
