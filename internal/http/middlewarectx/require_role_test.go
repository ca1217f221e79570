package middlewarectx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/booklike/booklike/internal/models"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		ctxRole        any
		requiredRole   string
		wantStatusCode int
		wantNextCalled bool
	}{
		{
			name:           "admin passes admin gate",
			ctxRole:        models.RoleAdmin,
			requiredRole:   models.RoleAdmin,
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "client is forbidden on admin gate",
			ctxRole:        models.RoleClient,
			requiredRole:   models.RoleAdmin,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "missing role is unauthorized",
			ctxRole:        nil,
			requiredRole:   models.RoleAdmin,
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := RequireRole(newNoopLogger(), tt.requiredRole)(next)

			req := httptest.NewRequest(http.MethodPost, "/admin/properties", nil)
			if tt.ctxRole != nil {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.ctxRole))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
		})
	}
}
