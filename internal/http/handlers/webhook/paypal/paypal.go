// Package paypal реализует HTTP-обработчик вебхуков PayPal.
//
// Обработчик читает сырое тело запроса, проверяет подпись через API
// провайдера и только после этого передаёт событие трекеру подписок.
// Запрос без любого из пяти заголовков подписи отклоняется; событие
// с непройденной проверкой не обрабатывается.
package paypal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
	"github.com/booklike/booklike/internal/paypal"
	"github.com/booklike/booklike/internal/services/subscription"
)

// Заголовки подписи вебхука PayPal. Все пять обязательны.
const (
	headerTransmissionID   = "paypal-transmission-id"
	headerTransmissionTime = "paypal-transmission-time"
	headerCertURL          = "paypal-cert-url"
	headerAuthAlgo         = "paypal-auth-algo"
	headerTransmissionSig  = "paypal-transmission-sig"
)

// maxBodySize — предел размера тела вебхука.
const maxBodySize = 1 << 20

// Verifier проверяет подпись события через API провайдера.
type Verifier interface {
	VerifyWebhookSignature(ctx context.Context, headers paypal.WebhookHeaders, rawEvent []byte) (string, error)
}

// Tracker применяет проверенные события к локальному состоянию.
type Tracker interface {
	Reconcile(ctx context.Context, event models.WebhookEvent) error
}

// Handler обрабатывает вебхуки PayPal.
type Handler struct {
	log      *slog.Logger
	verifier Verifier
	tracker  Tracker
}

// New создает новый Handler.
func New(log *slog.Logger, verifier Verifier, tracker Tracker) *Handler {
	return &Handler{
		log:      log,
		verifier: verifier,
		tracker:  tracker,
	}
}

// ServeHTTP godoc
// @Summary Принять вебхук PayPal
// @Description Проверяет подпись события и сверяет состояние подписки.
// @Tags Webhooks
// @Accept  json
// @Produce  json
// @Success 200 {object} response.Response "Событие обработано"
// @Failure 400 {object} response.ErrorResponse "Отсутствуют заголовки подписи"
// @Failure 401 {object} response.ErrorResponse "Подпись не подтверждена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /webhooks/paypal [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webhook.paypal"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	headers := paypal.WebhookHeaders{
		TransmissionID:   r.Header.Get(headerTransmissionID),
		TransmissionTime: r.Header.Get(headerTransmissionTime),
		CertURL:          r.Header.Get(headerCertURL),
		AuthAlgo:         r.Header.Get(headerAuthAlgo),
		TransmissionSig:  r.Header.Get(headerTransmissionSig),
	}
	if headers.TransmissionID == "" || headers.TransmissionTime == "" ||
		headers.CertURL == "" || headers.AuthAlgo == "" || headers.TransmissionSig == "" {
		log.Warn("webhook request missing signature headers")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing signature headers"))
		return
	}

	status, err := h.verifier.VerifyWebhookSignature(r.Context(), headers, rawBody)
	if err != nil {
		log.Error("failed to verify webhook signature", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("signature verification failed"))
		return
	}
	if status != paypal.VerificationStatusSuccess {
		log.Warn("webhook signature not verified", slog.String("verification_status", status))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("signature verification failed"))
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Error("failed to decode webhook event", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid webhook event"))
		return
	}

	switch event.EventType {
	case subscription.EventSubscriptionActivated,
		subscription.EventSubscriptionCancelled,
		subscription.EventSubscriptionExpired,
		subscription.EventPaymentSaleCompleted:
		if err := h.tracker.Reconcile(r.Context(), event); err != nil {
			log.Error("failed to reconcile webhook event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not process event"))
			return
		}
	default:
		log.Info("ignored webhook event", slog.String("event_type", event.EventType))
	}

	render.JSON(w, r, response.OK())
}
