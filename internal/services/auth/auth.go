// Package auth содержит бизнес-логику регистрации и аутентификации
// пользователей: хеширование паролей и выпуск JWT токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/booklike/booklike/internal/lib/jwt"
	"github.com/booklike/booklike/internal/lib/password"
	"github.com/booklike/booklike/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userUID string, fullName, email, passwordHash, phone *string) (*models.User, error)
}

// Service реализует бизнес-логику аутентификации.
type Service struct {
	repo     UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// LoginResult — результат успешного входа.
type LoginResult struct {
	Token string
	User  *models.User
}

// New создает новый экземпляр Service.
func New(repo UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создаёт пользователя с ролью client и настройками по умолчанию:
// подписка неактивна, разовый сбор не оплачен.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	const op = "auth.Register"

	passwordHash, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	userUID, err := s.repo.RegisterUser(ctx, models.User{
		FullName:           req.FullName,
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:       passwordHash,
		Phone:              req.Phone,
		Role:               models.RoleClient,
		SubscriptionStatus: models.SubscriptionStatusInactive,
		HasPaidOneTimeFee:  false,
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return "", fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.String("user_uid", userUID))
	return userUID, nil
}

// Login проверяет пару email/пароль и возвращает подписанный JWT.
func (s *Service) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	const op = "auth.Login"

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, pass); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.Email, user.Role, user.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// GetProfile возвращает пользователя по UID.
func (s *Service) GetProfile(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userUID)
}

// UpdateProfile применяет частичное обновление профиля. Пустые поля
// запроса не изменяются; новый пароль хешируется, email нормализуется.
func (s *Service) UpdateProfile(ctx context.Context, userUID string, req models.UpdateProfileRequest) (*models.User, error) {
	const op = "auth.UpdateProfile"

	var fullName, email, passwordHash, phone *string
	if req.FullName != "" {
		fullName = &req.FullName
	}
	if req.Email != "" {
		normalized := strings.ToLower(strings.TrimSpace(req.Email))
		email = &normalized
	}
	if req.Password != "" {
		hash, err := password.GetHash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		passwordHash = &hash
	}
	if req.Phone != "" {
		phone = &req.Phone
	}

	user, err := s.repo.UpdateUserProfile(ctx, userUID, fullName, email, passwordHash, phone)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("profile updated", slog.String("user_uid", userUID))
	return user, nil
}
