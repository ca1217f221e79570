// Package subscription сверяет авторитетное состояние внешней подписки
// с локальным состоянием пользователя. Источник истины — PayPal; локальные
// поля и кеш — его отражение, которое лечится повторной сверкой.
//
// Провайдер не гарантирует порядок доставки событий, поэтому каждая сверка —
// идемпотичная перезапись «последний пишущий выигрывает» по типу события,
// а не зависящий от последовательности инкремент. Повторная доставка
// устаревшего ACTIVATED после CANCELLED оставит пользователя активным до
// следующего события: у событий нет порядкового номера, различить «раньше»
// достоверно нельзя. Известное ограничение.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/booklike/booklike/internal/models"
)

// Типы событий провайдера, участвующие в сверке.
const (
	EventSubscriptionActivated = "BILLING.SUBSCRIPTION.ACTIVATED"
	EventSubscriptionCancelled = "BILLING.SUBSCRIPTION.CANCELLED"
	EventSubscriptionExpired   = "BILLING.SUBSCRIPTION.EXPIRED"
	EventPaymentSaleCompleted  = "PAYMENT.SALE.COMPLETED"
)

// recordTTL — время жизни кешированной записи о подписке.
const recordTTL = 30 * 24 * time.Hour

// UserRepository определяет операции хранилища, нужные трекеру.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateSubscriptionStatusBySubscriptionID(ctx context.Context, subscriptionID, status string) (int64, error)
	MarkFeePaidBySubscriptionID(ctx context.Context, subscriptionID string) (int64, error)
	ClearSubscription(ctx context.Context, userUID string) error
}

// Provider описывает внешний платёжный провайдер.
type Provider interface {
	CancelSubscription(ctx context.Context, subscriptionID, reason string) error
}

// Cache описывает методы для кэширования записей о подписках.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует трекер жизненного цикла подписки.
type Service struct {
	repo     UserRepository
	provider Provider
	cache    Cache
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, provider Provider, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		cache:    cache,
		log:      log,
	}
}

// RecordCreated сохраняет в кеш запись об инициированной подписке
// в статусе CREATED, до подтверждения провайдером.
func (s *Service) RecordCreated(subscriptionID string) {
	s.updateRecord(subscriptionID, models.SubscriptionRecordCreated, time.Now().UTC())
}

// Reconcile применяет проверенное событие провайдера к локальному состоянию.
// Подпись события обязана быть проверена до вызова.
//
// Ненайденный идентификатор подписки — не ошибка: событие могло прийти
// раньше оптимистичной записи или ссылаться на осиротевшую подписку.
func (s *Service) Reconcile(ctx context.Context, event models.WebhookEvent) error {
	const op = "subscription.Reconcile"

	switch event.EventType {
	case EventSubscriptionActivated:
		affected, err := s.repo.MarkFeePaidBySubscriptionID(ctx, event.Resource.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.logOutcome(event, event.Resource.ID, affected)
		s.updateRecord(event.Resource.ID, models.SubscriptionRecordActive, event.CreateTime)

	case EventPaymentSaleCompleted:
		// Продление по подписке несёт ссылку на неё в billing_agreement_id.
		// Разовые платежи без ссылки игнорируются: их фиксирует шлюз допуска.
		if event.Resource.BillingAgreementID == "" {
			return nil
		}
		affected, err := s.repo.UpdateSubscriptionStatusBySubscriptionID(ctx,
			event.Resource.BillingAgreementID, models.SubscriptionStatusActive)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.logOutcome(event, event.Resource.BillingAgreementID, affected)
		s.updateRecord(event.Resource.BillingAgreementID, models.SubscriptionRecordPaid, event.CreateTime)

	case EventSubscriptionCancelled, EventSubscriptionExpired:
		// Флаг оплаты разового сбора не сбрасывается: оплаченный сбор
		// остаётся оплаченным независимо от судьбы подписки.
		affected, err := s.repo.UpdateSubscriptionStatusBySubscriptionID(ctx,
			event.Resource.ID, models.SubscriptionStatusInactive)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.logOutcome(event, event.Resource.ID, affected)
		status := models.SubscriptionRecordCancelled
		if event.EventType == EventSubscriptionExpired {
			status = models.SubscriptionRecordExpired
		}
		s.updateRecord(event.Resource.ID, status, event.CreateTime)

	default:
		s.log.Info("ignored webhook event", slog.String("event_type", event.EventType))
	}
	return nil
}

// Cancel отменяет подписку пользователя. Отмена у провайдера обязана
// успешно завершиться до изменения локального состояния: при сбое запись
// остаётся нетронутой, чтобы не потерять платящего подписчика.
// Кешированная запись инвалидируется, финальный статус в кеш запишет
// подтверждающее событие CANCELLED от провайдера.
func (s *Service) Cancel(ctx context.Context, userUID string) error {
	const op = "subscription.Cancel"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.SubscriptionID == nil || *user.SubscriptionID == "" {
		return fmt.Errorf("%s: %w", op, models.ErrNoActiveSubscription)
	}
	subscriptionID := *user.SubscriptionID

	if err := s.provider.CancelSubscription(ctx, subscriptionID, "User cancelled"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.ClearSubscription(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateRecord(subscriptionID)
	s.log.Info("subscription cancelled",
		slog.String("user_uid", userUID),
		slog.String("subscription_id", subscriptionID))
	return nil
}

func (s *Service) logOutcome(event models.WebhookEvent, subscriptionID string, affected int64) {
	if affected == 0 {
		s.log.Info("webhook event matched no user",
			slog.String("event_type", event.EventType),
			slog.String("subscription_id", subscriptionID))
		return
	}
	s.log.Info("webhook event reconciled",
		slog.String("event_type", event.EventType),
		slog.String("subscription_id", subscriptionID))
}

// invalidateRecord удаляет кешированную запись о подписке. Ошибки кеша
// не фатальны.
func (s *Service) invalidateRecord(subscriptionID string) {
	if s.cache == nil {
		return
	}
	cacheKey := "subscription:" + subscriptionID
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate subscription record",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
}

// updateRecord перезаписывает кешированную запись о подписке,
// сохраняя исходную дату создания. Ошибки кеша не фатальны.
func (s *Service) updateRecord(subscriptionID, status string, eventAt time.Time) {
	if s.cache == nil {
		return
	}
	cacheKey := "subscription:" + subscriptionID

	var existing models.SubscriptionRecord
	found, err := s.cache.Get(cacheKey, &existing)
	if err != nil {
		s.log.Warn("failed to read subscription record from cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}

	createdAt := time.Now().UTC()
	if found {
		createdAt = existing.CreatedAt
	}
	if eventAt.IsZero() {
		eventAt = time.Now().UTC()
	}

	record := models.SubscriptionRecord{
		SubscriptionID: subscriptionID,
		Status:         status,
		CreatedAt:      createdAt,
		LastEventAt:    eventAt,
	}
	if err := s.cache.Set(cacheKey, record, recordTTL); err != nil {
		s.log.Warn("failed to cache subscription record",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
}
