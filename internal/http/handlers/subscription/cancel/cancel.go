// Package cancel реализует HTTP-обработчик отмены подписки.
//
// Отмена проходит сначала у провайдера; локальное состояние меняется
// только после его подтверждения, поэтому при сбое провайдера подписка
// остаётся активной.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/booklike/booklike/internal/http/middlewarectx"
	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
)

// Service описывает интерфейс трекера подписок.
type Service interface {
	Cancel(ctx context.Context, userUID string) error
}

// Handler обрабатывает отмену подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Отменяет подписку у провайдера и очищает локальную привязку.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response "Подписка отменена"
// @Failure 400 {object} response.ErrorResponse "Активной подписки нет"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Ошибка провайдера"
// @Router /subscriptions/cancel [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Cancel(r.Context(), userUID); err != nil {
		switch {
		case errors.Is(err, models.ErrNoActiveSubscription):
			log.Info("no active subscription to cancel", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("no active subscription"))
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to cancel subscription", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not cancel subscription"))
		}
		return
	}

	log.Info("subscription cancelled", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OK())
}
