package models

import "errors"

// Сентинельные ошибки доменного слоя. Обработчики сопоставляют их
// с HTTP-статусами через errors.Is.
var (
	// ErrUserNotFound — пользователь по идентификатору не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrPropertyNotFound — объект недвижимости не найден.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrEmailTaken — email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials — неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotEntitled — оплата сбора не подтверждена, бронирование запрещено.
	ErrNotEntitled = errors.New("mediation fee payment required")
	// ErrNoActiveSubscription — у пользователя нет подписки для отмены.
	ErrNoActiveSubscription = errors.New("no active subscription found")
)
