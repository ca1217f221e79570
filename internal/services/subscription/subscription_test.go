package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/booklike/booklike/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) UpdateSubscriptionStatusBySubscriptionID(ctx context.Context, subscriptionID, status string) (int64, error) {
	args := m.Called(ctx, subscriptionID, status)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) MarkFeePaidBySubscriptionID(ctx context.Context, subscriptionID string) (int64, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ClearSubscription(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	return m.Called(ctx, subscriptionID, reason).Error(0)
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

func event(eventType, subID, billingAgreementID string) models.WebhookEvent {
	return models.WebhookEvent{
		EventType:  eventType,
		CreateTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Resource: models.WebhookResource{
			ID:                 subID,
			BillingAgreementID: billingAgreementID,
		},
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		event      models.WebhookEvent
		wantErr    bool
	}{
		{
			name: "activated marks fee paid",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("MarkFeePaidBySubscriptionID", mock.Anything, "I-SUB1").Return(int64(1), nil).Once()
				c.On("Get", "subscription:I-SUB1", mock.Anything).Return(false, nil).Once()
				c.On("Set", "subscription:I-SUB1", mock.MatchedBy(func(rec models.SubscriptionRecord) bool {
					return rec.Status == models.SubscriptionRecordActive
				}), mock.Anything).Return(nil).Once()
			},
			event: event(EventSubscriptionActivated, "I-SUB1", ""),
		},
		{
			name: "replayed activated is harmless",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("MarkFeePaidBySubscriptionID", mock.Anything, "I-SUB1").Return(int64(1), nil).Twice()
				c.On("Get", "subscription:I-SUB1", mock.Anything).Return(false, nil).Twice()
				c.On("Set", "subscription:I-SUB1", mock.Anything, mock.Anything).Return(nil).Twice()
			},
			event: event(EventSubscriptionActivated, "I-SUB1", ""),
		},
		{
			name: "cancelled sets inactive and keeps fee flag untouched",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpdateSubscriptionStatusBySubscriptionID", mock.Anything, "I-SUB1",
					models.SubscriptionStatusInactive).Return(int64(1), nil).Once()
				c.On("Get", "subscription:I-SUB1", mock.Anything).Return(false, nil).Once()
				c.On("Set", "subscription:I-SUB1", mock.MatchedBy(func(rec models.SubscriptionRecord) bool {
					return rec.Status == models.SubscriptionRecordCancelled
				}), mock.Anything).Return(nil).Once()
			},
			event: event(EventSubscriptionCancelled, "I-SUB1", ""),
		},
		{
			name: "expired sets inactive",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpdateSubscriptionStatusBySubscriptionID", mock.Anything, "I-SUB1",
					models.SubscriptionStatusInactive).Return(int64(1), nil).Once()
				c.On("Get", "subscription:I-SUB1", mock.Anything).Return(false, nil).Once()
				c.On("Set", "subscription:I-SUB1", mock.MatchedBy(func(rec models.SubscriptionRecord) bool {
					return rec.Status == models.SubscriptionRecordExpired
				}), mock.Anything).Return(nil).Once()
			},
			event: event(EventSubscriptionExpired, "I-SUB1", ""),
		},
		{
			name: "sale completed with billing agreement reactivates",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpdateSubscriptionStatusBySubscriptionID", mock.Anything, "I-SUB1",
					models.SubscriptionStatusActive).Return(int64(1), nil).Once()
				c.On("Get", "subscription:I-SUB1", mock.Anything).Return(false, nil).Once()
				c.On("Set", "subscription:I-SUB1", mock.MatchedBy(func(rec models.SubscriptionRecord) bool {
					return rec.Status == models.SubscriptionRecordPaid
				}), mock.Anything).Return(nil).Once()
			},
			event: event(EventPaymentSaleCompleted, "WH-1", "I-SUB1"),
		},
		{
			name:       "sale completed without billing agreement is skipped",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			event:      event(EventPaymentSaleCompleted, "WH-1", ""),
		},
		{
			name: "unmatched subscription id is a no-op",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpdateSubscriptionStatusBySubscriptionID", mock.Anything, "I-GHOST",
					models.SubscriptionStatusInactive).Return(int64(0), nil).Once()
				c.On("Get", "subscription:I-GHOST", mock.Anything).Return(false, nil).Once()
				c.On("Set", "subscription:I-GHOST", mock.Anything, mock.Anything).Return(nil).Once()
			},
			event: event(EventSubscriptionCancelled, "I-GHOST", ""),
		},
		{
			name:       "unknown event type is ignored",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			event:      event("BILLING.SUBSCRIPTION.UPDATED", "I-SUB1", ""),
		},
		{
			name: "storage error is returned",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("MarkFeePaidBySubscriptionID", mock.Anything, "I-SUB1").
					Return(int64(0), errors.New("db down")).Once()
			},
			event:   event(EventSubscriptionActivated, "I-SUB1", ""),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			provider := new(ProviderMock)
			cache := new(CacheMock)
			svc := New(repo, provider, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			runs := 1
			if tt.name == "replayed activated is harmless" {
				runs = 2
			}
			for i := 0; i < runs; i++ {
				err := svc.Reconcile(context.Background(), tt.event)
				if tt.wantErr {
					assert.Error(t, err)
				} else {
					assert.NoError(t, err)
				}
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCancel(t *testing.T) {
	subID := "I-SUB1"
	userWithSub := func() *models.User {
		return &models.User{
			UID:                "uid-1",
			SubscriptionID:     &subID,
			SubscriptionStatus: models.SubscriptionStatusActive,
			HasPaidOneTimeFee:  true,
		}
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, p *ProviderMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "success clears local state and drops cached record",
			setupMocks: func(r *RepoMock, p *ProviderMock, c *CacheMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(userWithSub(), nil).Once()
				p.On("CancelSubscription", mock.Anything, subID, "User cancelled").Return(nil).Once()
				r.On("ClearSubscription", mock.Anything, "uid-1").Return(nil).Once()
				c.On("Invalidate", "subscription:I-SUB1").Return(nil).Once()
			},
		},
		{
			name: "cache invalidation failure does not fail the cancel",
			setupMocks: func(r *RepoMock, p *ProviderMock, c *CacheMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(userWithSub(), nil).Once()
				p.On("CancelSubscription", mock.Anything, subID, "User cancelled").Return(nil).Once()
				r.On("ClearSubscription", mock.Anything, "uid-1").Return(nil).Once()
				c.On("Invalidate", "subscription:I-SUB1").Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "no subscription on record",
			setupMocks: func(r *RepoMock, _ *ProviderMock, _ *CacheMock) {
				r.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1"}, nil).Once()
			},
			wantErr: models.ErrNoActiveSubscription,
		},
		{
			name: "provider failure leaves local state untouched",
			setupMocks: func(r *RepoMock, p *ProviderMock, _ *CacheMock) {
				r.On("GetUser", mock.Anything, "uid-1").Return(userWithSub(), nil).Once()
				p.On("CancelSubscription", mock.Anything, subID, "User cancelled").
					Return(errors.New("paypal unavailable")).Once()
			},
			wantErr: errors.New("paypal unavailable"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			provider := new(ProviderMock)
			cache := new(CacheMock)
			svc := New(repo, provider, cache, newNoopLogger())

			tt.setupMocks(repo, provider, cache)

			err := svc.Cancel(context.Background(), "uid-1")
			if tt.wantErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.wantErr, models.ErrNoActiveSubscription) {
					assert.ErrorIs(t, err, models.ErrNoActiveSubscription)
				}
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			provider.AssertExpectations(t)
			cache.AssertExpectations(t)
			if tt.wantErr != nil {
				repo.AssertNotCalled(t, "ClearSubscription", mock.Anything, mock.Anything)
				cache.AssertNotCalled(t, "Invalidate", mock.Anything)
			}
		})
	}
}
