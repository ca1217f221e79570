package update

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

func (m *ServiceMock) UpdateProfile(ctx context.Context, userUID string, req models.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userUID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	updatedUser := &models.User{
		UID:                "uid-1",
		FullName:           "Max Neumann",
		Email:              "max@example.com",
		Role:               models.RoleClient,
		SubscriptionStatus: models.SubscriptionStatusInactive,
	}

	tests := []struct {
		name           string
		body           string
		withUser       bool
		mockResp       *models.User
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "full name updated",
			body:           `{"full_name": "Max Neumann"}`,
			withUser:       true,
			mockResp:       updatedUser,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json",
			body:           `{"full_name": `,
			withUser:       true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "malformed email fails validation",
			body:           `{"email": "not-an-email"}`,
			withUser:       true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email must be a valid email",
		},
		{
			name:           "short password fails validation",
			body:           `{"password": "123"}`,
			withUser:       true,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "email already taken",
			body:           `{"email": "taken@example.com"}`,
			withUser:       true,
			mockErr:        models.ErrEmailTaken,
			mockCalled:     true,
			wantStatusCode: http.StatusConflict,
			wantError:      "email already taken",
		},
		{
			name:           "unknown user",
			body:           `{"full_name": "Max Neumann"}`,
			withUser:       true,
			mockErr:        models.ErrUserNotFound,
			mockCalled:     true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
		},
		{
			name:           "storage failure",
			body:           `{"full_name": "Max Neumann"}`,
			withUser:       true,
			mockErr:        errors.New("db down"),
			mockCalled:     true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not update profile",
		},
		{
			name:           "missing user context",
			body:           `{"full_name": "Max Neumann"}`,
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockCalled {
				serviceMock.On("UpdateProfile", mock.Anything, "uid-1", mock.Anything).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPut, "/me", bytes.NewBufferString(tt.body))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withUser {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantStatusCode == http.StatusOK {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				assert.Equal(t, "Max Neumann", data["full_name"])
			} else {
				assert.Equal(t, "Error", got["status"])
				if tt.wantError != "" {
					assert.Equal(t, tt.wantError, got["error"])
				}
			}

			serviceMock.AssertExpectations(t)
			if !tt.mockCalled {
				serviceMock.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
