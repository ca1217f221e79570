package order

import (
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

	"github.com/booklike/booklike/internal/paypal"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) CreateOrder(ctx context.Context, reqParams paypal.CreateOrderRequest) (*paypal.CreateOrderResponse, error) {
	args := m.Called(ctx, reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.CreateOrderResponse), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestOrderHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		mockResp       *paypal.CreateOrderResponse
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "order created with fixed fee amount",
			mockResp:       &paypal.CreateOrderResponse{ID: "ORDER-1", Status: "CREATED"},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "provider failure maps to bad gateway",
			mockErr:        errors.New("paypal unavailable"),
			wantStatusCode: http.StatusBadGateway,
			wantError:      "could not create order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providerMock := new(ProviderMock)
			handler := New(newNoopLogger(), providerMock)

			providerMock.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req paypal.CreateOrderRequest) bool {
				return req.Intent == "CAPTURE" &&
					len(req.PurchaseUnits) == 1 &&
					req.PurchaseUnits[0].Amount.Value == "0.99" &&
					req.PurchaseUnits[0].Amount.CurrencyCode == "EUR"
			})).Return(tt.mockResp, tt.mockErr).Once()

			req := httptest.NewRequest(http.MethodPost, "/payments/order", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				assert.Equal(t, "ORDER-1", data["order_id"])
				assert.Equal(t, "CREATED", data["status"])
			}

			providerMock.AssertExpectations(t)
		})
	}
}
