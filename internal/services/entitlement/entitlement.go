// Package entitlement решает, может ли пользователь бронировать, и выполняет
// минимальный переход состояния, чтобы это стало возможным: фиксирует разовый
// сбор или оптимистично активирует подписку. Двойное списание исключается
// идемпотичным быстрым путём: уже оплатившему пользователю любые повторные
// доказательства оплаты не создают новых записей.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/booklike/booklike/internal/models"
)

// UserRepository определяет операции хранилища, нужные шлюзу.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	MarkOneTimeFeePaid(ctx context.Context, userUID string) error
	ActivateSubscription(ctx context.Context, userUID, subscriptionID string) error
	SettleOneTimeFeePayment(ctx context.Context, payment models.Payment) (int, error)
	CountPaymentsByPayPalID(ctx context.Context, paypalID string) (int, error)
	ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Set(key string, value any, expiration time.Duration) error
}

// Evidence — доказательство оплаты, приложенное к запросу.
// Поля взаимоисключающие; пустая структура означает заявку без доказательств.
type Evidence struct {
	PaymentID      string // Идентификатор захваченного разового платежа
	SubscriptionID string // Идентификатор свежесозданной подписки
}

// Service реализует шлюз допуска к бронированию.
type Service struct {
	repo  UserRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// EvaluateAndSettle загружает состояние пользователя и применяет доказательство
// оплаты. Возвращает флаг допуска и снимок пользователя после изменения.
//
// Порядок проверок:
//  1. сбор уже оплачен — допуск без побочных эффектов;
//  2. есть идентификатор подписки — оптимистичная активация до вебхука;
//  3. есть идентификатор платежа — запись в журнал и фиксация оплаты;
//  4. доказательств нет — отказ (fail-closed).
//
// Любая ошибка хранилища возвращается без выдачи допуска: запись атомарна,
// частичных состояний не остаётся, вызывающая сторона может повторить запрос.
func (s *Service) EvaluateAndSettle(ctx context.Context, userUID string, evidence Evidence) (bool, *models.User, error) {
	const op = "entitlement.EvaluateAndSettle"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return false, nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.HasPaidOneTimeFee {
		return true, user, nil
	}

	switch {
	case evidence.SubscriptionID != "":
		if err := s.repo.ActivateSubscription(ctx, userUID, evidence.SubscriptionID); err != nil {
			return false, nil, fmt.Errorf("%s: %w", op, err)
		}
		user.SubscriptionID = &evidence.SubscriptionID
		user.SubscriptionStatus = models.SubscriptionStatusActive
		user.HasPaidOneTimeFee = true
		s.cacheRecord(evidence.SubscriptionID, models.SubscriptionRecordActive)
		s.log.Info("subscription activated optimistically",
			slog.String("user_uid", userUID),
			slog.String("subscription_id", evidence.SubscriptionID))
		return true, user, nil

	case evidence.PaymentID != "":
		count, err := s.repo.CountPaymentsByPayPalID(ctx, evidence.PaymentID)
		if err != nil {
			return false, nil, fmt.Errorf("%s: %w", op, err)
		}
		if count == 0 {
			// Запись в журнал и флаг оплаты фиксируются одной транзакцией.
			_, err = s.repo.SettleOneTimeFeePayment(ctx, models.Payment{
				UserUID:  userUID,
				Type:     models.PaymentTypeMediationFee,
				Amount:   models.MediationFeeAmount,
				Currency: "EUR",
				PayPalID: evidence.PaymentID,
				Status:   "completed",
			})
			if err != nil {
				return false, nil, fmt.Errorf("%s: %w", op, err)
			}
		} else if err := s.repo.MarkOneTimeFeePaid(ctx, userUID); err != nil {
			return false, nil, fmt.Errorf("%s: %w", op, err)
		}
		user.HasPaidOneTimeFee = true
		s.log.Info("one-time fee settled",
			slog.String("user_uid", userUID),
			slog.String("payment_id", evidence.PaymentID))
		return true, user, nil

	default:
		return false, user, nil
	}
}

// ListPayments возвращает журнал платежей пользователя, новые первыми.
func (s *Service) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "entitlement.ListPayments"
	payments, err := s.repo.ListPaymentsByUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}

// cacheRecord обновляет кеш состояния подписки, ошибка кеша не фатальна.
func (s *Service) cacheRecord(subscriptionID, status string) {
	if s.cache == nil {
		return
	}
	now := time.Now().UTC()
	record := models.SubscriptionRecord{
		SubscriptionID: subscriptionID,
		Status:         status,
		CreatedAt:      now,
		LastEventAt:    now,
	}
	cacheKey := "subscription:" + subscriptionID
	if err := s.cache.Set(cacheKey, record, 30*24*time.Hour); err != nil {
		s.log.Warn("failed to cache subscription record",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
}
