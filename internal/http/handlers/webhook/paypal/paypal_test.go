package paypal

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

	"github.com/booklike/booklike/internal/models"
	paypalclient "github.com/booklike/booklike/internal/paypal"
)

type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) VerifyWebhookSignature(ctx context.Context, headers paypalclient.WebhookHeaders, rawEvent []byte) (string, error) {
	args := m.Called(ctx, headers, rawEvent)
	return args.String(0), args.Error(1)
}

type TrackerMock struct {
	mock.Mock
}

func (m *TrackerMock) Reconcile(ctx context.Context, event models.WebhookEvent) error {
	return m.Called(ctx, event).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func signatureHeaders() map[string]string {
	return map[string]string{
		"paypal-transmission-id":   "tx-1",
		"paypal-transmission-time": "2026-03-01T12:00:00Z",
		"paypal-cert-url":          "https://api.paypal.com/cert",
		"paypal-auth-algo":         "SHA256withRSA",
		"paypal-transmission-sig":  "sig-1",
	}
}

func TestWebhookHandler_ServeHTTP(t *testing.T) {
	eventBody := `{"event_type":"BILLING.SUBSCRIPTION.ACTIVATED","resource":{"id":"I-SUB1"}}`

	tests := []struct {
		name           string
		headers        map[string]string
		body           string
		setupMocks     func(v *VerifierMock, tr *TrackerMock)
		wantStatusCode int
		wantStatus     string
	}{
		{
			name:    "verified event is reconciled",
			headers: signatureHeaders(),
			body:    eventBody,
			setupMocks: func(v *VerifierMock, tr *TrackerMock) {
				v.On("VerifyWebhookSignature", mock.Anything, mock.Anything, []byte(eventBody)).
					Return(paypalclient.VerificationStatusSuccess, nil).Once()
				tr.On("Reconcile", mock.Anything, mock.MatchedBy(func(e models.WebhookEvent) bool {
					return e.EventType == "BILLING.SUBSCRIPTION.ACTIVATED" && e.Resource.ID == "I-SUB1"
				})).Return(nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name: "missing signature header is rejected",
			headers: func() map[string]string {
				h := signatureHeaders()
				delete(h, "paypal-transmission-sig")
				return h
			}(),
			body:           eventBody,
			setupMocks:     func(_ *VerifierMock, _ *TrackerMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
		{
			name:    "failed verification is rejected",
			headers: signatureHeaders(),
			body:    eventBody,
			setupMocks: func(v *VerifierMock, _ *TrackerMock) {
				v.On("VerifyWebhookSignature", mock.Anything, mock.Anything, mock.Anything).
					Return("FAILURE", nil).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
		},
		{
			name:    "verifier error is rejected",
			headers: signatureHeaders(),
			body:    eventBody,
			setupMocks: func(v *VerifierMock, _ *TrackerMock) {
				v.On("VerifyWebhookSignature", mock.Anything, mock.Anything, mock.Anything).
					Return("", errors.New("paypal unavailable")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
		},
		{
			name:    "irrelevant event type is acknowledged without reconcile",
			headers: signatureHeaders(),
			body:    `{"event_type":"CUSTOMER.DISPUTE.CREATED","resource":{"id":"X"}}`,
			setupMocks: func(v *VerifierMock, _ *TrackerMock) {
				v.On("VerifyWebhookSignature", mock.Anything, mock.Anything, mock.Anything).
					Return(paypalclient.VerificationStatusSuccess, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:    "reconcile failure returns server error",
			headers: signatureHeaders(),
			body:    eventBody,
			setupMocks: func(v *VerifierMock, tr *TrackerMock) {
				v.On("VerifyWebhookSignature", mock.Anything, mock.Anything, mock.Anything).
					Return(paypalclient.VerificationStatusSuccess, nil).Once()
				tr.On("Reconcile", mock.Anything, mock.Anything).
					Return(errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := new(VerifierMock)
			tracker := new(TrackerMock)
			handler := New(newNoopLogger(), verifier, tracker)

			tt.setupMocks(verifier, tracker)

			req := httptest.NewRequest(http.MethodPost, "/webhooks/paypal", bytes.NewReader([]byte(tt.body)))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			verifier.AssertExpectations(t)
			tracker.AssertExpectations(t)
			if tt.wantStatusCode == http.StatusBadRequest || tt.wantStatusCode == http.StatusUnauthorized {
				tracker.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
			}
		})
	}
}
