// Package property содержит бизнес-логику каталога объектов недвижимости.
package property

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/booklike/booklike/internal/models"
)

// Repository определяет операции хранилища для каталога.
type Repository interface {
	CreateProperty(ctx context.Context, p models.Property) (int, error)
	GetProperty(ctx context.Context, id int) (*models.Property, error)
	GetPropertyBySlug(ctx context.Context, slug string) (*models.Property, error)
	ListProperties(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error)
	UpdateProperty(ctx context.Context, p models.Property, id int) (int64, error)
	RemoveProperty(ctx context.Context, id int) (int64, error)
}

// Service реализует бизнес-логику каталога.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify приводит заголовок к слагу для URL.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Create добавляет объект в каталог, формируя слаг из заголовка.
func (s *Service) Create(ctx context.Context, req models.PropertyRequest) (int, error) {
	const op = "property.Create"

	id, err := s.repo.CreateProperty(ctx, models.Property{
		Title:       req.Title,
		Slug:        Slugify(req.Title),
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		AreaSqm:     req.AreaSqm,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("property created", slog.Int("id", id))
	return id, nil
}

// List возвращает объекты каталога под фильтры с пагинацией.
func (s *Service) List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListProperties(ctx, filter)
}

// ReadBySlug возвращает объект по слагу.
func (s *Service) ReadBySlug(ctx context.Context, slug string) (*models.Property, error) {
	return s.repo.GetPropertyBySlug(ctx, slug)
}

// Update обновляет объект по ID.
func (s *Service) Update(ctx context.Context, id int, req models.PropertyRequest) error {
	const op = "property.Update"

	affected, err := s.repo.UpdateProperty(ctx, models.Property{
		Title:       req.Title,
		Slug:        Slugify(req.Title),
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		AreaSqm:     req.AreaSqm,
	}, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrPropertyNotFound)
	}
	return nil
}

// Remove удаляет объект по ID.
func (s *Service) Remove(ctx context.Context, id int) error {
	const op = "property.Remove"

	affected, err := s.repo.RemoveProperty(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrPropertyNotFound)
	}
	return nil
}
