// Package confirm реализует HTTP-обработчик подтверждения разового платежа.
//
// Клиент передаёт идентификатор захваченного платежа PayPal; шлюз допуска
// фиксирует платёж в журнале и открывает пользователю бронирование.
// Повторное подтверждение уже оплатившим пользователем не создаёт
// новых записей.
package confirm

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

// Request — структура входных данных подтверждения платежа.
type Request struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

// Service описывает интерфейс шлюза допуска.
type Service interface {
	EvaluateAndSettle(ctx context.Context, userUID string, evidence entitlement.Evidence) (bool, *models.User, error)
}

// Handler обрабатывает подтверждения разовых платежей.
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
// @Summary Подтвердить разовый платёж
// @Description Фиксирует оплату разового сбора и открывает бронирование.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор платежа PayPal"
// @Success 200 {object} map[string]any "Платёж зафиксирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/confirm [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.confirm"

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

	entitled, user, err := h.service.EvaluateAndSettle(r.Context(), userUID,
		entitlement.Evidence{PaymentID: req.PaymentID})
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to settle payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not confirm payment"))
		return
	}

	log.Info("payment confirmed", slog.String("user_uid", userUID), slog.Bool("entitled", entitled))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"has_paid_one_time_fee": user.HasPaidOneTimeFee,
	}))
}
