package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/booklike/booklike/internal/models"
)

// CreateProperty добавляет объект недвижимости в каталог и возвращает его ID.
func (s *Storage) CreateProperty(ctx context.Context, p models.Property) (int, error) {
	const op = "storage.CreateProperty"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO properties (title, slug, description, city, address, price, bedrooms, area_sqm)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		p.Title, p.Slug, p.Description, p.City, p.Address, p.Price, p.Bedrooms, p.AreaSqm).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPropertyBySlug возвращает объект по его слагу.
func (s *Storage) GetPropertyBySlug(ctx context.Context, slug string) (*models.Property, error) {
	const op = "storage.GetPropertyBySlug"
	query := `SELECT id, title, slug, description, city, address, price, bedrooms, area_sqm, created_at
			  FROM properties
			  WHERE slug = $1`
	return s.scanProperty(s.DB.QueryRowContext(ctx, query, slug), op)
}

// GetProperty возвращает объект по его ID.
func (s *Storage) GetProperty(ctx context.Context, id int) (*models.Property, error) {
	const op = "storage.GetProperty"
	query := `SELECT id, title, slug, description, city, address, price, bedrooms, area_sqm, created_at
			  FROM properties
			  WHERE id = $1`
	return s.scanProperty(s.DB.QueryRowContext(ctx, query, id), op)
}

func (s *Storage) scanProperty(row *sql.Row, op string) (*models.Property, error) {
	p := &models.Property{}
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.City, &p.Address,
		&p.Price, &p.Bedrooms, &p.AreaSqm, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrPropertyNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProperties возвращает объекты каталога под необязательные фильтры.
// Условия собираются только для заданных полей фильтра.
func (s *Storage) ListProperties(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	const op = "storage.ListProperties"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conditions []string
	var args []any
	argn := 1

	appendCondition := func(expr string, value any) {
		conditions = append(conditions, fmt.Sprintf(expr, argn))
		args = append(args, value)
		argn++
	}

	if filter.City != "" {
		appendCondition("city ILIKE $%d", filter.City)
	}
	if filter.MinPrice > 0 {
		appendCondition("price >= $%d", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		appendCondition("price <= $%d", filter.MaxPrice)
	}
	if filter.Bedrooms > 0 {
		appendCondition("bedrooms >= $%d", filter.Bedrooms)
	}

	query := `SELECT id, title, slug, description, city, address, price, bedrooms, area_sqm, created_at
			  FROM properties`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argn, argn+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Property
	for rows.Next() {
		var p models.Property
		if err = rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.City, &p.Address,
			&p.Price, &p.Bedrooms, &p.AreaSqm, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProperty обновляет данные объекта по ID, возвращает число строк.
func (s *Storage) UpdateProperty(ctx context.Context, p models.Property, id int) (int64, error) {
	const op = "storage.UpdateProperty"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE properties
		      SET title = $1, slug = $2, description = $3, city = $4, address = $5,
		          price = $6, bedrooms = $7, area_sqm = $8, updated_at = NOW()
		      WHERE id = $9`
	res, err := s.DB.ExecContext(ctx, query,
		p.Title, p.Slug, p.Description, p.City, p.Address, p.Price, p.Bedrooms, p.AreaSqm, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// RemoveProperty удаляет объект по ID, возвращает число удалённых строк.
func (s *Storage) RemoveProperty(ctx context.Context, id int) (int64, error) {
	const op = "storage.RemoveProperty"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM properties WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
