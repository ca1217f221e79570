// Package me реализует HTTP-обработчик профиля текущего пользователя.
// Профиль включает платёжный статус, который UI использует для отображения
// бейджей доступа; состояние всегда читается из последней зафиксированной
// записи, без кеширования на клиенте.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/booklike/booklike/internal/http/middlewarectx"
	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
)

// Service описывает интерфейс получения профиля.
type Service interface {
	GetProfile(ctx context.Context, userUID string) (*models.User, error)
}

// Handler обрабатывает запросы профиля.
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
// @Summary Профиль текущего пользователя
// @Description Возвращает данные учётной записи и платёжный статус.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /me [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

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

	user, err := h.service.GetProfile(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid":              user.UID,
		"full_name":             user.FullName,
		"email":                 user.Email,
		"role":                  user.Role,
		"subscription_status":   user.SubscriptionStatus,
		"subscription_id":       user.SubscriptionID,
		"has_paid_one_time_fee": user.HasPaidOneTimeFee,
	}))
}
