package reservation

import (
	"github.com/streadway/amqp"

	"github.com/booklike/booklike/internal/lib/rabbitmq"
)

// AmqpPublisher публикует уведомления о бронированиях в RabbitMQ.
type AmqpPublisher struct {
	ch *amqp.Channel
}

// NewAmqpPublisher создает новый AmqpPublisher поверх открытого канала.
func NewAmqpPublisher(ch *amqp.Channel) *AmqpPublisher {
	return &AmqpPublisher{ch: ch}
}

// PublishReservationCreated публикует событие о созданном бронировании.
func (p *AmqpPublisher) PublishReservationCreated(notification Notification) error {
	return rabbitmq.PublishMessage(p.ch, "notifications", rabbitmq.ReservationRoutingKey, notification)
}
