package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tarasovdg/rental-marketplace/internal/models"
	services "github.com/tarasovdg/rental-marketplace/internal/services/subscription"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetActiveSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) GetSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) SaveSubscription(ctx context.Context, subscription models.Subscription) error {
	return m.Called(ctx, subscription).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	now := time.Now().UTC()
	active := &models.Subscription{
		ID:        "sub-1",
		UserID:    "user1",
		PlanID:    models.PlanBasic,
		Price:     9.99,
		Status:    models.SubscriptionActive,
		CreatedAt: now.Add(-24 * time.Hour),
		ExpiresAt: now.Add(10 * 24 * time.Hour),
		UpdatedAt: now.Add(-24 * time.Hour),
	}

	tests := []struct {
		name       string
		planID     string
		setupMocks func(r *RepoMock, c *CacheMock)
		check      func(t *testing.T, got *models.Subscription)
		wantErr    error
	}{
		{
			name:   "success new subscription",
			planID: models.PlanPremium,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetActiveSubscriptionByUser", mock.Anything, "user1").Return(nil, nil).Once()
				r.On("SaveSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.UserID == "user1" &&
						s.PlanID == models.PlanPremium &&
						s.Status == models.SubscriptionActive &&
						s.ID != ""
				})).Return(nil).Once()
				c.On("Invalidate", "subscription:active:user1").Return(nil).Once()
			},
			check: func(t *testing.T, got *models.Subscription) {
				assert.Equal(t, 19.99, got.Price)
				assert.True(t, got.ExpiresAt.After(time.Now().UTC()))
			},
		},
		{
			// Продление обновляет ту же запись, окно отсчитывается заново
			name:   "renewal keeps record id and resets window",
			planID: models.PlanPremium,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetActiveSubscriptionByUser", mock.Anything, "user1").Return(active, nil).Once()
				r.On("SaveSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.ID == "sub-1" &&
						s.PlanID == models.PlanPremium &&
						s.Price == 19.99 &&
						// не аддитивно: новый expiresAt раньше, чем старый + 30 дней
						s.ExpiresAt.Before(active.ExpiresAt.Add(30*24*time.Hour))
				})).Return(nil).Once()
				c.On("Invalidate", "subscription:active:user1").Return(nil).Once()
			},
			check: func(t *testing.T, got *models.Subscription) {
				assert.Equal(t, "sub-1", got.ID)
				assert.Equal(t, active.CreatedAt, got.CreatedAt)
			},
		},
		{
			name:       "unknown plan",
			planID:     "gold",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    services.ErrInvalidPlan,
		},
		{
			name:   "cache invalidate error logs warning but returns subscription",
			planID: models.PlanBasic,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetActiveSubscriptionByUser", mock.Anything, "user1").Return(nil, nil).Once()
				r.On("SaveSubscription", mock.Anything, mock.Anything).Return(nil).Once()
				c.On("Invalidate", "subscription:active:user1").Return(errors.New("redis down")).Once()
			},
			check: func(t *testing.T, got *models.Subscription) {
				assert.Equal(t, models.PlanBasic, got.PlanID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := services.NewSubscriptionService(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.Subscribe(context.Background(), "user1", tt.planID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, got)
				}
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_GetActive(t *testing.T) {
	now := time.Now().UTC()
	valid := &models.Subscription{
		ID:        "sub-1",
		UserID:    "user1",
		PlanID:    models.PlanPremium,
		Status:    models.SubscriptionActive,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	stale := &models.Subscription{
		ID:        "sub-2",
		UserID:    "user1",
		PlanID:    models.PlanBasic,
		Status:    models.SubscriptionActive,
		ExpiresAt: now.Add(-time.Hour),
	}
	expired := &models.Subscription{
		ID:        "sub-2",
		UserID:    "user1",
		PlanID:    models.PlanBasic,
		Status:    models.SubscriptionExpired,
		ExpiresAt: now.Add(-time.Hour),
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		want       *models.Subscription
		wantErr    error
	}{
		{
			name: "active subscription returned and cached",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "subscription:active:user1", mock.Anything).Return(false, nil).Once()
				r.On("GetActiveSubscriptionByUser", mock.Anything, "user1").Return(valid, nil).Once()
				c.On("Set", "subscription:active:user1", valid, mock.Anything).Return(nil).Once()
			},
			want: valid,
		},
		{
			// Истечение фиксируется побочным эффектом ровно один раз
			name: "stale record flipped to expired and persisted",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "subscription:active:user1", mock.Anything).Return(false, nil).Once()
				r.On("GetActiveSubscriptionByUser", mock.Anything, "user1").Return(stale, nil).Once()
				r.On("SaveSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.ID == "sub-2" && s.Status == models.SubscriptionExpired
				})).Return(nil).Once()
				c.On("Invalidate", "subscription:active:user1").Return(nil).Once()
			},
			wantErr: services.ErrSubscriptionExpired,
		},
		{
			name: "never subscribed",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "subscription:active:user1", mock.Anything).Return(false, nil).Once()
				r.On("GetActiveSubscriptionByUser", mock.Anything, "user1").Return(nil, nil).Once()
				r.On("GetSubscriptionByUser", mock.Anything, "user1").Return(nil, nil).Once()
			},
			wantErr: services.ErrSubscriptionRequired,
		},
		{
			// Повторный вызов после фиксации истечения: записи active уже нет,
			// но остаётся expired-запись
			name: "already expired record",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "subscription:active:user1", mock.Anything).Return(false, nil).Once()
				r.On("GetActiveSubscriptionByUser", mock.Anything, "user1").Return(nil, nil).Once()
				r.On("GetSubscriptionByUser", mock.Anything, "user1").Return(expired, nil).Once()
			},
			wantErr: services.ErrSubscriptionExpired,
		},
		{
			name: "cache read error falls back to repo",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "subscription:active:user1", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("GetActiveSubscriptionByUser", mock.Anything, "user1").Return(valid, nil).Once()
				c.On("Set", "subscription:active:user1", valid, mock.Anything).Return(nil).Once()
			},
			want: valid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := services.NewSubscriptionService(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.GetActive(context.Background(), "user1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

// renewalRepo хранит единственную запись подписки. Первый вызов
// GetActiveSubscriptionByUser берет снимок записи и зависает до закрытия
// release, моделируя проверку доступа, растянутую во времени.
type renewalRepo struct {
	mu      sync.Mutex
	record  *models.Subscription
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *renewalRepo) GetActiveSubscriptionByUser(_ context.Context, _ string) (*models.Subscription, error) {
	r.mu.Lock()
	var snapshot *models.Subscription
	if r.record != nil && r.record.Status == models.SubscriptionActive {
		copied := *r.record
		snapshot = &copied
	}
	r.mu.Unlock()
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return snapshot, nil
}

func (r *renewalRepo) GetSubscriptionByUser(_ context.Context, _ string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record == nil {
		return nil, nil
	}
	copied := *r.record
	return &copied, nil
}

func (r *renewalRepo) SaveSubscription(_ context.Context, subscription models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record = &subscription
	return nil
}

// Проверка доступа, начавшаяся с устаревшей записи, не должна затирать
// параллельное продление статусом expired: фиксация истечения идет под тем
// же замком пользователя, что и Subscribe.
func TestSubscriptionService_GetActive_ConcurrentRenewal(t *testing.T) {
	now := time.Now().UTC()
	repo := &renewalRepo{
		record: &models.Subscription{
			ID:        "sub-1",
			UserID:    "user1",
			PlanID:    models.PlanBasic,
			Price:     9.99,
			Status:    models.SubscriptionActive,
			CreatedAt: now.Add(-40 * 24 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
			UpdatedAt: now.Add(-40 * 24 * time.Hour),
		},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := services.NewSubscriptionService(repo, nil, newNoopLogger())

	checkDone := make(chan error, 1)
	go func() {
		_, err := svc.GetActive(context.Background(), "user1")
		checkDone <- err
	}()
	<-repo.entered

	renewDone := make(chan error, 1)
	go func() {
		_, err := svc.Subscribe(context.Background(), "user1", models.PlanPremium)
		renewDone <- err
	}()

	// Даем продлению шанс завершиться, пока проверка висит на чтении.
	// Если оно ждет замок, удерживаемый проверкой, идем дальше по таймауту.
	renewFinished := false
	var renewErr error
	select {
	case renewErr = <-renewDone:
		renewFinished = true
	case <-time.After(200 * time.Millisecond):
	}
	close(repo.release)

	checkErr := <-checkDone
	assert.ErrorIs(t, checkErr, services.ErrSubscriptionExpired)
	if !renewFinished {
		renewErr = <-renewDone
	}
	require.NoError(t, renewErr)

	final, err := repo.GetSubscriptionByUser(context.Background(), "user1")
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, models.SubscriptionActive, final.Status)
	assert.Equal(t, models.PlanPremium, final.PlanID)
	assert.True(t, final.ExpiresAt.After(time.Now().UTC()))
}
