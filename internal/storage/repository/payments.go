package repository

import (
	"context"
	"fmt"

	"github.com/booklike/booklike/internal/models"
)

// SettleOneTimeFeePayment атомарно записывает платёж в журнал и выставляет
// флаг оплаты разового сбора. Обе записи выполняются в одной транзакции:
// при сбое любой из них ни записи в журнале, ни флага не остаётся.
// Журнал платежей append-only: методов обновления и удаления нет.
func (s *Storage) SettleOneTimeFeePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.SettleOneTimeFeePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int
	insertQuery := `INSERT INTO payments (user_uid, type, amount, currency, paypal_id, status)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRowContext(ctx, insertQuery,
		payment.UserUID, payment.Type, payment.Amount, payment.Currency,
		payment.PayPalID, payment.Status).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	updateQuery := `UPDATE users
		      SET has_paid_one_time_fee = TRUE,
		          updated_at = NOW()
		      WHERE uid = $1`
	res, err := tx.ExecContext(ctx, updateQuery, payment.UserUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPaymentsByUser возвращает платежи пользователя, новые первыми.
func (s *Storage) ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, type, amount, currency, paypal_id, status, created_at
			  FROM payments
		      WHERE user_uid = $1
		      ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err = rows.Scan(&p.ID, &p.UserUID, &p.Type, &p.Amount, &p.Currency,
			&p.PayPalID, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountPaymentsByPayPalID возвращает количество записей с данным внешним
// идентификатором платежа. Используется для защиты от повторной фиксации.
func (s *Storage) CountPaymentsByPayPalID(ctx context.Context, paypalID string) (int, error) {
	const op = "storage.CountPaymentsByPayPalID"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM payments WHERE paypal_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, paypalID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
