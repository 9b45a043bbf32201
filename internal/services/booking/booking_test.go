package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tarasovdg/rental-marketplace/internal/models"
	services "github.com/tarasovdg/rental-marketplace/internal/services/booking"
	"github.com/tarasovdg/rental-marketplace/internal/storage"
)

type BookingRepoMock struct{ mock.Mock }

func (m *BookingRepoMock) CreateBooking(ctx context.Context, booking models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}
func (m *BookingRepoMock) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *BookingRepoMock) UpdateBooking(ctx context.Context, booking models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}
func (m *BookingRepoMock) ListBookingsByProperty(ctx context.Context, propertyID string) ([]models.Booking, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *BookingRepoMock) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *BookingRepoMock) ListBookingsByProperties(ctx context.Context, propertyIDs []string) ([]models.Booking, error) {
	args := m.Called(ctx, propertyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

type PropertyReaderMock struct{ mock.Mock }

func (m *PropertyReaderMock) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}
func (m *PropertyReaderMock) ListPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestBookingService_Create(t *testing.T) {
	property := &models.Property{
		ID:      "prop-1",
		OwnerID: "owner1",
		Price:   100,
		Guests:  2,
	}
	instantProperty := &models.Property{
		ID:      "prop-2",
		OwnerID: "owner1",
		Price:   100,
		Guests:  4,
		Instant: true,
	}
	confirmed := models.Booking{
		ID:         "book-0",
		PropertyID: "prop-1",
		CheckIn:    date("2026-01-10"),
		CheckOut:   date("2026-01-15"),
		Status:     models.BookingConfirmed,
	}

	tests := []struct {
		name       string
		req        models.DummyBooking
		setupMocks func(b *BookingRepoMock, p *PropertyReaderMock, pub *PublisherMock)
		check      func(t *testing.T, got *models.Booking)
		wantErr    error
	}{
		{
			name: "success pending booking",
			req:  models.DummyBooking{PropertyID: "prop-1", CheckIn: "2026-02-01", CheckOut: "2026-02-04"},
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock, pub *PublisherMock) {
				p.On("GetProperty", mock.Anything, "prop-1").Return(property, nil).Once()
				b.On("ListBookingsByProperty", mock.Anything, "prop-1").Return([]models.Booking{}, nil).Once()
				b.On("CreateBooking", mock.Anything, mock.MatchedBy(func(bk models.Booking) bool {
					return bk.Status == models.BookingPending &&
						bk.TotalPrice == 300 && // 3 ночи × 100
						bk.Guests == 2 // дефолт из объявления
				})).Return(nil).Once()
				pub.On("Publish", mock.Anything, "booking.created", mock.Anything).Return(nil).Once()
			},
			check: func(t *testing.T, got *models.Booking) {
				assert.Equal(t, models.BookingPending, got.Status)
			},
		},
		{
			name: "instant property confirms immediately",
			req:  models.DummyBooking{PropertyID: "prop-2", CheckIn: "2026-02-01", CheckOut: "2026-02-03", Guests: 3},
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock, pub *PublisherMock) {
				p.On("GetProperty", mock.Anything, "prop-2").Return(instantProperty, nil).Once()
				b.On("ListBookingsByProperty", mock.Anything, "prop-2").Return([]models.Booking{}, nil).Once()
				b.On("CreateBooking", mock.Anything, mock.MatchedBy(func(bk models.Booking) bool {
					return bk.Status == models.BookingConfirmed && bk.Guests == 3
				})).Return(nil).Once()
				pub.On("Publish", mock.Anything, "booking.created", mock.Anything).Return(nil).Once()
			},
			check: func(t *testing.T, got *models.Booking) {
				assert.Equal(t, models.BookingConfirmed, got.Status)
			},
		},
		{
			name: "overlap with confirmed booking",
			req:  models.DummyBooking{PropertyID: "prop-1", CheckIn: "2026-01-14", CheckOut: "2026-01-20"},
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock, _ *PublisherMock) {
				p.On("GetProperty", mock.Anything, "prop-1").Return(property, nil).Once()
				b.On("ListBookingsByProperty", mock.Anything, "prop-1").Return([]models.Booking{confirmed}, nil).Once()
			},
			wantErr: services.ErrDatesUnavailable,
		},
		{
			// Полуинтервал: заезд в день чужого выезда допустим
			name: "check-in on existing check-out day",
			req:  models.DummyBooking{PropertyID: "prop-1", CheckIn: "2026-01-15", CheckOut: "2026-01-20"},
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock, pub *PublisherMock) {
				p.On("GetProperty", mock.Anything, "prop-1").Return(property, nil).Once()
				b.On("ListBookingsByProperty", mock.Anything, "prop-1").Return([]models.Booking{confirmed}, nil).Once()
				b.On("CreateBooking", mock.Anything, mock.Anything).Return(nil).Once()
				pub.On("Publish", mock.Anything, "booking.created", mock.Anything).Return(nil).Once()
			},
			check: func(t *testing.T, got *models.Booking) {
				assert.Equal(t, float64(500), got.TotalPrice)
			},
		},
		{
			// Pending-бронирования даты не блокируют
			name: "overlap with pending booking is allowed",
			req:  models.DummyBooking{PropertyID: "prop-1", CheckIn: "2026-03-01", CheckOut: "2026-03-05"},
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock, pub *PublisherMock) {
				pending := models.Booking{
					PropertyID: "prop-1",
					CheckIn:    date("2026-03-01"),
					CheckOut:   date("2026-03-05"),
					Status:     models.BookingPending,
				}
				p.On("GetProperty", mock.Anything, "prop-1").Return(property, nil).Once()
				b.On("ListBookingsByProperty", mock.Anything, "prop-1").Return([]models.Booking{pending}, nil).Once()
				b.On("CreateBooking", mock.Anything, mock.Anything).Return(nil).Once()
				pub.On("Publish", mock.Anything, "booking.created", mock.Anything).Return(nil).Once()
			},
			check: func(t *testing.T, got *models.Booking) {
				assert.Equal(t, models.BookingPending, got.Status)
			},
		},
		{
			name:       "check-out before check-in",
			req:        models.DummyBooking{PropertyID: "prop-1", CheckIn: "2026-02-04", CheckOut: "2026-02-01"},
			setupMocks: func(_ *BookingRepoMock, _ *PropertyReaderMock, _ *PublisherMock) {},
			wantErr:    services.ErrInvalidDates,
		},
		{
			name:       "equal dates",
			req:        models.DummyBooking{PropertyID: "prop-1", CheckIn: "2026-02-01", CheckOut: "2026-02-01"},
			setupMocks: func(_ *BookingRepoMock, _ *PropertyReaderMock, _ *PublisherMock) {},
			wantErr:    services.ErrInvalidDates,
		},
		{
			name: "property not found",
			req:  models.DummyBooking{PropertyID: "ghost", CheckIn: "2026-02-01", CheckOut: "2026-02-04"},
			setupMocks: func(_ *BookingRepoMock, p *PropertyReaderMock, _ *PublisherMock) {
				p.On("GetProperty", mock.Anything, "ghost").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: services.ErrPropertyNotFound,
		},
		{
			name: "publish error does not fail booking",
			req:  models.DummyBooking{PropertyID: "prop-1", CheckIn: "2026-02-01", CheckOut: "2026-02-04"},
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock, pub *PublisherMock) {
				p.On("GetProperty", mock.Anything, "prop-1").Return(property, nil).Once()
				b.On("ListBookingsByProperty", mock.Anything, "prop-1").Return([]models.Booking{}, nil).Once()
				b.On("CreateBooking", mock.Anything, mock.Anything).Return(nil).Once()
				pub.On("Publish", mock.Anything, "booking.created", mock.Anything).Return(errors.New("amqp down")).Once()
			},
			check: func(t *testing.T, got *models.Booking) {
				assert.NotEmpty(t, got.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := new(BookingRepoMock)
			properties := new(PropertyReaderMock)
			publisher := new(PublisherMock)
			svc := services.NewBookingService(bookings, properties, publisher, newNoopLogger())

			tt.setupMocks(bookings, properties, publisher)

			got, err := svc.Create(context.Background(), "guest1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, got)
				}
			}

			bookings.AssertExpectations(t)
			properties.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	property := &models.Property{ID: "prop-1", OwnerID: "owner1", Price: 100}
	pending := models.Booking{
		ID:         "book-1",
		PropertyID: "prop-1",
		UserID:     "guest1",
		CheckIn:    date("2026-01-10"),
		CheckOut:   date("2026-01-15"),
		Status:     models.BookingPending,
	}

	tests := []struct {
		name       string
		callerID   string
		status     string
		setupMocks func(b *BookingRepoMock, p *PropertyReaderMock, pub *PublisherMock)
		wantStatus string
		wantErr    error
	}{
		{
			name:     "owner confirms pending booking",
			callerID: "owner1",
			status:   models.BookingConfirmed,
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock, pub *PublisherMock) {
				bk := pending
				b.On("GetBooking", mock.Anything, "book-1").Return(&bk, nil).Once()
				p.On("GetProperty", mock.Anything, "prop-1").Return(property, nil).Once()
				b.On("ListBookingsByProperty", mock.Anything, "prop-1").Return([]models.Booking{bk}, nil).Once()
				b.On("UpdateBooking", mock.Anything, mock.MatchedBy(func(u models.Booking) bool {
					return u.ID == "book-1" && u.Status == models.BookingConfirmed
				})).Return(nil).Once()
				pub.On("Publish", mock.Anything, "booking.status_changed", mock.Anything).Return(nil).Once()
			},
			wantStatus: models.BookingConfirmed,
		},
		{
			// За время ожидания владелец подтвердил конкурирующее бронирование
			name:     "confirm rechecks overlap",
			callerID: "owner1",
			status:   models.BookingConfirmed,
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock, _ *PublisherMock) {
				bk := pending
				rival := models.Booking{
					ID:         "book-2",
					PropertyID: "prop-1",
					CheckIn:    date("2026-01-12"),
					CheckOut:   date("2026-01-18"),
					Status:     models.BookingConfirmed,
				}
				b.On("GetBooking", mock.Anything, "book-1").Return(&bk, nil).Once()
				p.On("GetProperty", mock.Anything, "prop-1").Return(property, nil).Once()
				b.On("ListBookingsByProperty", mock.Anything, "prop-1").Return([]models.Booking{bk, rival}, nil).Once()
			},
			wantErr: services.ErrDatesUnavailable,
		},
		{
			name:     "not owner",
			callerID: "guest1",
			status:   models.BookingCancelled,
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock, _ *PublisherMock) {
				bk := pending
				b.On("GetBooking", mock.Anything, "book-1").Return(&bk, nil).Once()
				p.On("GetProperty", mock.Anything, "prop-1").Return(property, nil).Once()
			},
			wantErr: services.ErrForbidden,
		},
		{
			name:       "unknown status",
			callerID:   "owner1",
			status:     "approved",
			setupMocks: func(_ *BookingRepoMock, _ *PropertyReaderMock, _ *PublisherMock) {},
			wantErr:    services.ErrInvalidStatus,
		},
		{
			name:     "booking not found",
			callerID: "owner1",
			status:   models.BookingRejected,
			setupMocks: func(b *BookingRepoMock, _ *PropertyReaderMock, _ *PublisherMock) {
				b.On("GetBooking", mock.Anything, "book-1").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: services.ErrBookingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := new(BookingRepoMock)
			properties := new(PropertyReaderMock)
			publisher := new(PublisherMock)
			svc := services.NewBookingService(bookings, properties, publisher, newNoopLogger())

			tt.setupMocks(bookings, properties, publisher)

			got, err := svc.UpdateStatus(context.Background(), "book-1", tt.callerID, tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, got.Status)
			}

			bookings.AssertExpectations(t)
			properties.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestBookingService_ListForOwner(t *testing.T) {
	properties := []models.Property{
		{ID: "prop-1", OwnerID: "owner1"},
		{ID: "prop-2", OwnerID: "owner1"},
	}
	bookings := []models.Booking{
		{ID: "book-1", PropertyID: "prop-1"},
		{ID: "book-2", PropertyID: "prop-2"},
	}

	tests := []struct {
		name       string
		setupMocks func(b *BookingRepoMock, p *PropertyReaderMock)
		want       []models.Booking
		wantErr    bool
	}{
		{
			name: "bookings across all owner properties",
			setupMocks: func(b *BookingRepoMock, p *PropertyReaderMock) {
				p.On("ListPropertiesByOwner", mock.Anything, "owner1").Return(properties, nil).Once()
				b.On("ListBookingsByProperties", mock.Anything, []string{"prop-1", "prop-2"}).Return(bookings, nil).Once()
			},
			want: bookings,
		},
		{
			name: "owner has no properties",
			setupMocks: func(_ *BookingRepoMock, p *PropertyReaderMock) {
				p.On("ListPropertiesByOwner", mock.Anything, "owner1").Return([]models.Property{}, nil).Once()
			},
			want: nil,
		},
		{
			name: "repo error",
			setupMocks: func(_ *BookingRepoMock, p *PropertyReaderMock) {
				p.On("ListPropertiesByOwner", mock.Anything, "owner1").Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingsRepo := new(BookingRepoMock)
			propertiesRepo := new(PropertyReaderMock)
			svc := services.NewBookingService(bookingsRepo, propertiesRepo, nil, newNoopLogger())

			tt.setupMocks(bookingsRepo, propertiesRepo)

			got, err := svc.ListForOwner(context.Background(), "owner1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			bookingsRepo.AssertExpectations(t)
			propertiesRepo.AssertExpectations(t)
		})
	}
}
