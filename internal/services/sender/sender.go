// Package sender отправляет почтовые уведомления о новых бронированиях,
// потребляя сообщения из очереди RabbitMQ.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/lib/smtp"
	"github.com/booklike/booklike/internal/services/reservation"
)

// Transport описывает SMTP транспорт для отправки писем.
type Transport interface {
	Connect() (smtp.Client, error)
	SenderAddress() string
}

// SenderService отправляет уведомления администратору площадки.
type SenderService struct {
	transport  Transport
	adminEmail string
	log        *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport Transport, adminEmail string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport:  transport,
		adminEmail: adminEmail,
		log:        log,
	}
}

// SendReservationNotification отправляет письмо о новой заявке на бронирование.
func (s *SenderService) SendReservationNotification(body []byte) error {
	var message reservation.Notification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{s.adminEmail}
	subject := fmt.Sprintf("Neue Reservierungsanfrage: %s", message.PropertyTitle)
	bodyText := fmt.Sprintf("Neue Reservierungsanfrage #%d\n\nObjekt: %s\nName: %s\nE-Mail: %s\nTelefon: %s",
		message.ReservationID, message.PropertyTitle, message.ClientName, message.ClientEmail, message.ClientPhone)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.SenderAddress()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", from, "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
