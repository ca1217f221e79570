// Package create реализует HTTP-обработчик создания подписки.
//
// Подписка создаётся у провайдера по настроенному тарифному плану;
// клиенту возвращается идентификатор и ссылка на страницу одобрения.
// До подтверждения провайдером запись трекера остаётся в статусе CREATED.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/booklike/booklike/internal/config"
	"github.com/booklike/booklike/internal/http/middlewarectx"
	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/paypal"
)

// Provider описывает операции платёжного провайдера.
type Provider interface {
	CreateSubscription(ctx context.Context, reqParams paypal.CreateSubscriptionRequest) (*paypal.CreateSubscriptionResponse, error)
}

// Tracker фиксирует инициированные подписки.
type Tracker interface {
	RecordCreated(subscriptionID string)
}

// Handler обрабатывает создание подписок.
type Handler struct {
	log      *slog.Logger
	provider Provider
	tracker  Tracker
	cfg      config.PayPal
}

// New создает новый Handler.
func New(log *slog.Logger, provider Provider, tracker Tracker, cfg config.PayPal) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
		tracker:  tracker,
		cfg:      cfg,
	}
}

// ServeHTTP godoc
// @Summary Создать подписку
// @Description Создаёт подписку по тарифному плану и возвращает ссылку на одобрение.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Подписка создана"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Ошибка провайдера"
// @Router /subscriptions [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.provider.CreateSubscription(r.Context(), paypal.CreateSubscriptionRequest{
		PlanID: h.cfg.PlanID,
		Subscriber: &paypal.Subscriber{
			EmailAddress: email,
		},
		ApplicationContext: &paypal.ApplicationContext{
			BrandName:  "BookLike",
			UserAction: "SUBSCRIBE_NOW",
			ReturnURL:  h.cfg.ReturnURL,
			CancelURL:  h.cfg.CancelURL,
		},
	})
	if err != nil {
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	h.tracker.RecordCreated(sub.ID)

	approveURL := ""
	for _, link := range sub.Links {
		if link.Rel == "approve" {
			approveURL = link.Href
			break
		}
	}

	log.Info("subscription created", slog.String("subscription_id", sub.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription_id": sub.ID,
		"status":          sub.Status,
		"approve_url":     approveURL,
	}))
}
