// Package activate реализует HTTP-обработчик оптимистичной активации
// подписки после одобрения на стороне клиента.
//
// Активация не ждёт вебхука: подписка привязывается к пользователю сразу,
// а последующие события провайдера сверяют и при необходимости исправляют
// это состояние.
package activate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/booklike/booklike/internal/http/middlewarectx"
	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
	"github.com/booklike/booklike/internal/services/entitlement"
)

// Request — структура входных данных активации подписки.
type Request struct {
	SubscriptionID string `json:"subscription_id" validate:"required"`
}

// Service описывает интерфейс шлюза допуска.
type Service interface {
	EvaluateAndSettle(ctx context.Context, userUID string, evidence entitlement.Evidence) (bool, *models.User, error)
}

// Handler обрабатывает активацию подписок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Активировать подписку
// @Description Привязывает одобренную подписку к пользователю и открывает бронирование.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор подписки PayPal"
// @Success 200 {object} map[string]any "Подписка активирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/activate [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.activate"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	_, user, err := h.service.EvaluateAndSettle(r.Context(), userUID,
		entitlement.Evidence{SubscriptionID: req.SubscriptionID})
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to activate subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not activate subscription"))
		return
	}

	log.Info("subscription activated",
		slog.String("user_uid", userUID),
		slog.String("subscription_id", req.SubscriptionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription_status":   user.SubscriptionStatus,
		"has_paid_one_time_fee": user.HasPaidOneTimeFee,
	}))
}
