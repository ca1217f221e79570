package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/booklike/booklike/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (full_name, email, password_hash, phone, role,
			      subscription_status, has_paid_one_time_fee)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.FullName, user.Email, user.PasswordHash, user.Phone, user.Role,
		user.SubscriptionStatus, user.HasPaidOneTimeFee).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, full_name, email, password_hash, phone, role,
			      subscription_status, subscription_id, has_paid_one_time_fee, created_at
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, full_name, email, password_hash, phone, role,
			      subscription_status, subscription_id, has_paid_one_time_fee, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var phone, subscriptionID sql.NullString
	if err := row.Scan(&u.UID, &u.FullName, &u.Email, &u.PasswordHash, &phone,
		&u.Role, &u.SubscriptionStatus, &subscriptionID, &u.HasPaidOneTimeFee,
		&u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if phone.Valid {
		u.Phone = phone.String
	}
	if subscriptionID.Valid {
		u.SubscriptionID = &subscriptionID.String
	}
	return u, nil
}

// UpdateUserProfile точечно обновляет переданные поля профиля;
// nil-аргументы оставляют текущее значение. Возвращает пользователя
// после обновления.
func (s *Storage) UpdateUserProfile(ctx context.Context, userUID string, fullName, email, passwordHash, phone *string) (*models.User, error) {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET full_name = COALESCE($2, full_name),
		          email = COALESCE($3, email),
		          password_hash = COALESCE($4, password_hash),
		          phone = COALESCE($5, phone),
		          updated_at = NOW()
		      WHERE uid = $1
		      RETURNING uid, full_name, email, password_hash, phone, role,
		          subscription_status, subscription_id, has_paid_one_time_fee, created_at`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID, fullName, email, passwordHash, phone), op)
}

// MarkOneTimeFeePaid точечно выставляет флаг оплаты разового сбора.
// Остальные поля пользователя не затрагиваются, поэтому параллельные
// запросы не перетирают чужие изменения.
func (s *Storage) MarkOneTimeFeePaid(ctx context.Context, userUID string) error {
	const op = "storage.MarkOneTimeFeePaid"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET has_paid_one_time_fee = TRUE,
		          updated_at = NOW()
		      WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}

// ActivateSubscription сохраняет идентификатор подписки на пользователе
// и переводит его в активный статус. Разовый сбор считается оплаченным:
// он входит в стоимость подписки.
func (s *Storage) ActivateSubscription(ctx context.Context, userUID, subscriptionID string) error {
	const op = "storage.ActivateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET subscription_id = $2,
		          subscription_status = $3,
		          has_paid_one_time_fee = TRUE,
		          updated_at = NOW()
		      WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, subscriptionID, models.SubscriptionStatusActive)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}

// UpdateSubscriptionStatusBySubscriptionID обновляет статус подписки у
// пользователя, на котором записан данный идентификатор подписки.
// Возвращает число затронутых строк: ноль строк — не ошибка, событие
// могло прийти раньше оптимистичной записи или ссылаться на осиротевшую
// подписку.
func (s *Storage) UpdateSubscriptionStatusBySubscriptionID(ctx context.Context, subscriptionID, status string) (int64, error) {
	const op = "storage.UpdateSubscriptionStatusBySubscriptionID"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET subscription_status = $2,
		          updated_at = NOW()
		      WHERE subscription_id = $1`
	res, err := s.DB.ExecContext(ctx, query, subscriptionID, status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// MarkFeePaidBySubscriptionID выставляет флаг оплаты сбора у пользователя
// с данной подпиской. Используется при подтверждении активации вебхуком.
func (s *Storage) MarkFeePaidBySubscriptionID(ctx context.Context, subscriptionID string) (int64, error) {
	const op = "storage.MarkFeePaidBySubscriptionID"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET subscription_status = $2,
		          has_paid_one_time_fee = TRUE,
		          updated_at = NOW()
		      WHERE subscription_id = $1`
	res, err := s.DB.ExecContext(ctx, query, subscriptionID, models.SubscriptionStatusActive)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// ClearSubscription снимает подписку с пользователя после подтверждённой
// провайдером отмены. Флаг оплаты разового сбора не сбрасывается.
func (s *Storage) ClearSubscription(ctx context.Context, userUID string) error {
	const op = "storage.ClearSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET subscription_status = $2,
		          subscription_id = NULL,
		          updated_at = NOW()
		      WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, models.SubscriptionStatusInactive)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}
