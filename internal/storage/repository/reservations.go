package repository

import (
	"context"
	"fmt"

	"github.com/booklike/booklike/internal/models"
)

// CreateReservation сохраняет заявку на бронирование и возвращает её ID.
func (s *Storage) CreateReservation(ctx context.Context, r models.Reservation) (int, error) {
	const op = "storage.CreateReservation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reservations (property_id, user_uid, full_name, phone, email,
			      message, mediation_fee_paid, mediation_payment_id, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		r.PropertyID, r.UserUID, r.FullName, r.Phone, r.Email,
		r.Message, r.MediationFeePaid, r.MediationPaymentID, r.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListReservationsByUser возвращает бронирования пользователя, новые первыми.
func (s *Storage) ListReservationsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Reservation, error) {
	const op = "storage.ListReservationsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, property_id, user_uid, full_name, phone, email, message,
			      mediation_fee_paid, mediation_payment_id, status, created_at
			  FROM reservations
		      WHERE user_uid = $1
		      ORDER BY created_at DESC
		      LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Reservation
	for rows.Next() {
		var r models.Reservation
		if err = rows.Scan(&r.ID, &r.PropertyID, &r.UserUID, &r.FullName, &r.Phone,
			&r.Email, &r.Message, &r.MediationFeePaid, &r.MediationPaymentID,
			&r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateReservationStatus переводит бронирование в новый статус.
// Используется только административными операциями.
func (s *Storage) UpdateReservationStatus(ctx context.Context, id int, status string) (int64, error) {
	const op = "storage.UpdateReservationStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reservations SET status = $2 WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
