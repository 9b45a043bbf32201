package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tarasovdg/rental-marketplace/internal/models"
	listingservice "github.com/tarasovdg/rental-marketplace/internal/services/listing"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение объявления",
			id:   "prop-1",
			setupMock: func(m *MockService) {
				property := &models.Property{
					ID:       "prop-1",
					Title:    "Вилла с бассейном",
					Location: "Анапа",
					Price:    250,
				}
				m.On("Get", mock.Anything, "prop-1").Return(property, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Вилла с бассейном"`,
		},
		{
			name: "объявление не найдено",
			id:   "ghost",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "ghost").Return(nil, listingservice.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"property not found"}`,
		},
		{
			name: "ошибка сервиса чтения",
			id:   "prop-2",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "prop-2").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not read property"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/properties/"+tt.id, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
