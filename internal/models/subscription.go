// Package models содержит доменные структуры сервиса бронирования,
// а также вспомогательные типы для работы с данными из внешних источников.
package models

import "time"

// Статусы внешней подписки, отслеживаемые локально.
// Последовательность: CREATED -> ACTIVE -> {PAID, CANCELLED, EXPIRED}.
const (
	SubscriptionRecordCreated   = "CREATED"
	SubscriptionRecordActive    = "ACTIVE"
	SubscriptionRecordPaid      = "PAID"
	SubscriptionRecordCancelled = "CANCELLED"
	SubscriptionRecordExpired   = "EXPIRED"
)

// SubscriptionRecord — локальный кеш последнего известного состояния
// внешней подписки. Источником истины остаётся PayPal и поля пользователя
// в таблице users; кеш можно потерять и восстановить без последствий.
type SubscriptionRecord struct {
	SubscriptionID string    `json:"subscription_id"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	LastEventAt    time.Time `json:"last_event_at"`
}

// WebhookEvent — проверенное событие от платёжного провайдера.
type WebhookEvent struct {
	EventType  string          `json:"event_type"`
	CreateTime time.Time       `json:"create_time"`
	Resource   WebhookResource `json:"resource"`
}

// WebhookResource — ресурс события. Для событий подписки ID содержит
// идентификатор подписки; для PAYMENT.SALE.COMPLETED ссылка на подписку
// приходит в BillingAgreementID.
type WebhookResource struct {
	ID                 string `json:"id"`
	BillingAgreementID string `json:"billing_agreement_id,omitempty"`
	Status             string `json:"status,omitempty"`
}
