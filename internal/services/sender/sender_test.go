package sender

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/booklike/booklike/internal/lib/smtp"
	"github.com/booklike/booklike/internal/services/reservation"
)

type TransportMock struct {
	mock.Mock
}

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *TransportMock) SenderAddress() string {
	return m.Called().String(0)
}

type ClientMock struct {
	mock.Mock
	body bytes.Buffer
}

func (m *ClientMock) Mail(from string) error { return m.Called(from).Error(0) }
func (m *ClientMock) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	return args.Get(0).(io.WriteCloser), args.Error(1)
}
func (m *ClientMock) Quit() error  { return m.Called().Error(0) }
func (m *ClientMock) Close() error { return m.Called().Error(0) }

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSendReservationNotification(t *testing.T) {
	payload, err := json.Marshal(reservation.Notification{
		ReservationID: 42,
		PropertyTitle: "Villa am See",
		ClientName:    "Max Mustermann",
		ClientEmail:   "max@example.com",
		ClientPhone:   "+4915112345678",
	})
	require.NoError(t, err)

	t.Run("uses configured sender address", func(t *testing.T) {
		transport := new(TransportMock)
		client := new(ClientMock)
		svc := NewSenderService(transport, "admin@booklike.example", newNoopLogger())

		transport.On("SenderAddress").Return("noreply@booklike.example")
		transport.On("Connect").Return(client, nil).Once()
		client.On("Mail", "noreply@booklike.example").Return(nil).Once()
		client.On("Rcpt", "admin@booklike.example").Return(nil).Once()
		client.On("Data").Return(nopWriteCloser{&client.body}, nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		require.NoError(t, svc.SendReservationNotification(payload))

		msg := client.body.String()
		assert.Contains(t, msg, "From: noreply@booklike.example")
		assert.Contains(t, msg, "Villa am See")
		assert.Contains(t, msg, "Reservierungsanfrage #42")

		transport.AssertExpectations(t)
		client.AssertExpectations(t)
	})

	t.Run("malformed payload is rejected", func(t *testing.T) {
		transport := new(TransportMock)
		svc := NewSenderService(transport, "admin@booklike.example", newNoopLogger())

		err := svc.SendReservationNotification([]byte("{not json"))
		assert.Error(t, err)
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("connect failure is returned", func(t *testing.T) {
		transport := new(TransportMock)
		svc := NewSenderService(transport, "admin@booklike.example", newNoopLogger())

		transport.On("SenderAddress").Return("noreply@booklike.example")
		transport.On("Connect").Return(nil, errors.New("smtp unreachable")).Once()

		err := svc.SendReservationNotification(payload)
		assert.Error(t, err)
		transport.AssertExpectations(t)
	})
}
