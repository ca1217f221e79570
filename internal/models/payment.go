package models

import "time"

// Типы платежей в журнале.
const (
	PaymentTypeMediationFee = "mediation_fee"
	PaymentTypeSubscription = "subscription"
)

// MediationFeeAmount — фиксированная сумма разового сбора за посредничество.
const MediationFeeAmount = 0.99

// Payment представляет запись журнала о завершённом платеже.
// Записи создаются один раз и никогда не изменяются и не удаляются.
type Payment struct {
	ID        int       `json:"id"`
	UserUID   string    `json:"user_uid"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	PayPalID  string    `json:"paypal_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
