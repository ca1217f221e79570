package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, userUID, fullName, email, passwordHash, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, full_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		userUID, fullName, email, passwordHash, role)
	require.NoError(t, err)
}

// CreateUserWithSubscription создает пользователя с привязанной подпиской
func (f *TestDataFactory) CreateUserWithSubscription(t *testing.T, userUID, fullName, email, passwordHash string,
	subscriptionID, subscriptionStatus string, hasPaidOneTimeFee bool) {
	_, err := f.storage.DB.Exec(`INSERT INTO users
		(uid, full_name, email, password_hash, subscription_id, subscription_status, has_paid_one_time_fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userUID, fullName, email, passwordHash, subscriptionID, subscriptionStatus, hasPaidOneTimeFee)
	require.NoError(t, err)
}

// CreateProperty создает тестовый объект недвижимости
func (f *TestDataFactory) CreateProperty(t *testing.T, title, slug, city string, price float64) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO properties
		(title, slug, description, city, address, price, bedrooms, area_sqm)
		VALUES ($1, $2, 'test description', $3, 'Teststrasse 1', $4, 2, 75.5) RETURNING id`,
		title, slug, city, price).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestUserData содержит стандартные тестовые данные пользователя
type TestUserData struct {
	UID                string
	FullName           string
	Email              string
	PasswordHash       string
	Role               string
	SubscriptionStatus string
	HasPaidOneTimeFee  bool
	CreatedAt          time.Time
}

// GetTestUserData возвращает стандартные тестовые данные пользователя
func GetTestUserData() TestUserData {
	return TestUserData{
		UID:                uuid.New().String(),
		FullName:           "Max Mustermann",
		Email:              "test@example.com",
		PasswordHash:       "hashedpassword",
		Role:               "client",
		SubscriptionStatus: "inactive",
		HasPaidOneTimeFee:  false,
		CreatedAt:          time.Now(),
	}
}
