package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// ReservationRoutingKey — ключ маршрутизации событий о новых бронированиях.
const ReservationRoutingKey = "reservation.created"

// ReservationQueueName — очередь уведомлений о новых бронированиях.
const ReservationQueueName = "notification.reservation"

// GetNotificationQueues возвращает очереди уведомлений приложения.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ReservationQueueName, RoutingKey: ReservationRoutingKey},
	}
}
