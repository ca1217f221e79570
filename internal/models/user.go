// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и платёжный статус.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Статусы подписки пользователя, хранимые в БД.
const (
	SubscriptionStatusInactive = "inactive"
	SubscriptionStatusActive   = "active"
)

// User представляет зарегистрированного пользователя системы.
//
// SubscriptionStatus == active подразумевает, что SubscriptionID задан
// и HasPaidOneTimeFee == true: разовый сбор считается оплаченным при
// активации подписки.
type User struct {
	UID                string     // Уникальный идентификатор пользователя
	FullName           string     // Полное имя
	Email              string     // Электронная почта (уникальная)
	PasswordHash       string     // Хэш пароля пользователя
	Phone              string     // Телефон (опционально)
	Role               string     // Роль пользователя, admin или client
	SubscriptionStatus string     // Статус подписки: inactive или active
	SubscriptionID     *string    // Идентификатор подписки PayPal, nil пока подписка не создана
	HasPaidOneTimeFee  bool       // Оплачен ли разовый сбор за посредничество
	CreatedAt          time.Time  // Дата регистрации
	UpdatedAt          *time.Time // Дата последнего изменения
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,min=5"`
}

// UpdateProfileRequest — частичное обновление профиля: заполняются
// только изменяемые поля, пустые поля не изменяются.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Phone    string `json:"phone" validate:"omitempty,min=5"`
}
