package models

import "time"

// Статусы бронирования. Переходы выполняет только администратор.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

// WaivedPaymentPlaceholder подставляется вместо идентификатора платежа,
// когда пользователь уже оплачивал сбор ранее и нового платежа не было.
const WaivedPaymentPlaceholder = "waived-one-time-fee"

// Reservation представляет заявку на бронирование объекта недвижимости.
// Создаётся только после подтверждения оплаты, поэтому MediationFeePaid
// всегда true у сохранённых записей.
type Reservation struct {
	ID                 int       `json:"id"`
	PropertyID         int       `json:"property_id"`
	UserUID            string    `json:"user_uid"`
	FullName           string    `json:"full_name"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email"`
	Message            string    `json:"message,omitempty"`
	MediationFeePaid   bool      `json:"mediation_fee_paid"`
	MediationPaymentID string    `json:"mediation_payment_id"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// ReservationRequest используется для приёма данных бронирования из JSON-запроса.
//
// MediationPaymentID и SubscriptionID — взаимоисключающие доказательства оплаты;
// оба могут отсутствовать, если сбор был оплачен ранее.
type ReservationRequest struct {
	PropertyID         int    `json:"property_id" validate:"required,gt=0"`
	FullName           string `json:"full_name" validate:"required,min=2"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone" validate:"required,min=5"`
	Message            string `json:"message" validate:"omitempty,max=2000"`
	MediationPaymentID string `json:"mediation_payment_id" validate:"omitempty"`
	SubscriptionID     string `json:"subscription_id" validate:"omitempty"`
}
