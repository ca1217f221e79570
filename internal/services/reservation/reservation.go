// Package reservation содержит бизнес-логику создания бронирований,
// защищённых шлюзом допуска, и постановки уведомлений в очередь.
package reservation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
	"github.com/booklike/booklike/internal/services/entitlement"
)

// Repository определяет операции хранилища для бронирований.
type Repository interface {
	CreateReservation(ctx context.Context, r models.Reservation) (int, error)
	ListReservationsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Reservation, error)
	GetProperty(ctx context.Context, id int) (*models.Property, error)
}

// Gate описывает шлюз допуска к бронированию.
type Gate interface {
	EvaluateAndSettle(ctx context.Context, userUID string, evidence entitlement.Evidence) (bool, *models.User, error)
}

// Publisher публикует события о созданных бронированиях.
type Publisher interface {
	PublishReservationCreated(notification Notification) error
}

// Notification — сообщение для очереди уведомлений о бронировании.
type Notification struct {
	ReservationID int    `json:"reservation_id"`
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	PropertyTitle string `json:"property_title"`
}

// Service реализует бизнес-логику бронирований.
type Service struct {
	repo      Repository
	gate      Gate
	publisher Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, gate Gate, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		gate:      gate,
		publisher: publisher,
		log:       log,
	}
}

// Create проводит заявку через шлюз допуска и сохраняет бронирование.
// Без подтверждённой оплаты заявка отклоняется и запись не создаётся.
// Сбой публикации уведомления не откатывает бронирование: уведомление
// доставляется по возможности.
func (s *Service) Create(ctx context.Context, userUID string, req models.ReservationRequest) (*models.Reservation, error) {
	const op = "reservation.Create"

	entitled, _, err := s.gate.EvaluateAndSettle(ctx, userUID, entitlement.Evidence{
		PaymentID:      req.MediationPaymentID,
		SubscriptionID: req.SubscriptionID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !entitled {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotEntitled)
	}

	paymentID := req.MediationPaymentID
	if paymentID == "" {
		paymentID = models.WaivedPaymentPlaceholder
	}

	reservation := models.Reservation{
		PropertyID:         req.PropertyID,
		UserUID:            userUID,
		FullName:           req.FullName,
		Phone:              req.Phone,
		Email:              req.Email,
		Message:            req.Message,
		MediationFeePaid:   true,
		MediationPaymentID: paymentID,
		Status:             models.ReservationStatusPending,
	}

	id, err := s.repo.CreateReservation(ctx, reservation)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reservation.ID = id
	s.log.Info("reservation created", slog.Int("id", id), slog.String("user_uid", userUID))

	s.notify(ctx, &reservation)
	return &reservation, nil
}

// ListMine возвращает бронирования пользователя.
func (s *Service) ListMine(ctx context.Context, userUID string, limit, offset int) ([]*models.Reservation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListReservationsByUser(ctx, userUID, limit, offset)
}

func (s *Service) notify(ctx context.Context, r *models.Reservation) {
	if s.publisher == nil {
		return
	}

	propertyTitle := "Unknown Property"
	if property, err := s.repo.GetProperty(ctx, r.PropertyID); err == nil {
		propertyTitle = property.Title
	}

	err := s.publisher.PublishReservationCreated(Notification{
		ReservationID: r.ID,
		ClientName:    r.FullName,
		ClientEmail:   r.Email,
		ClientPhone:   r.Phone,
		PropertyTitle: propertyTitle,
	})
	if err != nil {
		s.log.Warn("failed to publish reservation notification",
			slog.Int("reservation_id", r.ID), sl.Err(err))
	}
}
