package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/booklike/booklike/internal/http/middlewarectx"
	"github.com/booklike/booklike/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, userUID string, req models.ReservationRequest) (*models.Reservation, error) {
	args := m.Called(ctx, userUID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	validRequest := models.ReservationRequest{
		PropertyID:         7,
		FullName:           "Max Mustermann",
		Email:              "max@example.com",
		Phone:              "+4915112345678",
		MediationPaymentID: "PAY-123",
	}

	tests := []struct {
		name           string
		withUser       bool
		requestBody    interface{}
		mockRes        *models.Reservation
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "entitled user creates reservation",
			withUser:    true,
			requestBody: validRequest,
			mockRes: &models.Reservation{
				ID:     42,
				Status: models.ReservationStatusPending,
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "not entitled user gets payment required",
			withUser:       true,
			requestBody:    validRequest,
			mockErr:        models.ErrNotEntitled,
			wantStatusCode: http.StatusPaymentRequired,
			wantError:      "payment required",
		},
		{
			name:           "missing user context is unauthorized",
			withUser:       false,
			requestBody:    validRequest,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "invalid json body",
			withUser:       true,
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "service error",
			withUser:       true,
			requestBody:    validRequest,
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not create reservation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockRes != nil || tt.mockErr != nil {
				serviceMock.On("Create", mock.Anything, "uid-1", mock.Anything).
					Return(tt.mockRes, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withUser {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, float64(42), data["id"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
