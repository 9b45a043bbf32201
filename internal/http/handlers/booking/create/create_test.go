package create

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tarasovdg/rental-marketplace/internal/http/middlewarectx"
	"github.com/tarasovdg/rental-marketplace/internal/models"
	bookingservice "github.com/tarasovdg/rental-marketplace/internal/services/booking"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userID string, req models.DummyBooking) (*models.Booking, error) {
	args := m.Called(ctx, userID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	propertyID := "3f1d2c54-9f1a-4a6e-8c1d-2b7a9e0f5c33"

	tests := []struct {
		name           string
		body           string
		userID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешное создание бронирования",
			body:   `{"property_id":"` + propertyID + `","check_in":"2026-02-01","check_out":"2026-02-04"}`,
			userID: "guest-1",
			setupMock: func(m *MockService) {
				booking := &models.Booking{ID: "book-1", PropertyID: propertyID, Status: models.BookingPending, TotalPrice: 300}
				m.On("Create", mock.Anything, "guest-1", mock.Anything).Return(booking, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"pending"`,
		},
		{
			name:           "некорректный формат даты",
			body:           `{"property_id":"` + propertyID + `","check_in":"01.02.2026","check_out":"2026-02-04"}`,
			userID:         "guest-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field CheckIn can contain only date in format 2006-01-02`,
		},
		{
			name:   "выезд раньше заезда",
			body:   `{"property_id":"` + propertyID + `","check_in":"2026-02-04","check_out":"2026-02-01"}`,
			userID: "guest-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "guest-1", mock.Anything).
					Return(nil, bookingservice.ErrInvalidDates)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `check-out must be after check-in`,
		},
		{
			name:   "даты заняты",
			body:   `{"property_id":"` + propertyID + `","check_in":"2026-01-14","check_out":"2026-01-20"}`,
			userID: "guest-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "guest-1", mock.Anything).
					Return(nil, bookingservice.ErrDatesUnavailable)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `dates unavailable`,
		},
		{
			name:   "объект не найден",
			body:   `{"property_id":"` + propertyID + `","check_in":"2026-02-01","check_out":"2026-02-04"}`,
			userID: "guest-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "guest-1", mock.Anything).
					Return(nil, bookingservice.ErrPropertyNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `property not found`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           `{"property_id":"` + propertyID + `","check_in":"2026-02-01","check_out":"2026-02-04"}`,
			userID:         "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(tt.body))
			if tt.userID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserID, tt.userID)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
