// Package capture реализует HTTP-обработчик захвата заказа PayPal.
//
// Захват выполняется на стороне провайдера; успешный захват возвращает
// идентификатор платежа, который клиент затем подтверждает отдельным
// запросом.
package capture

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/paypal"
)

// Request — структура входных данных захвата заказа.
type Request struct {
	OrderID string `json:"order_id" validate:"required"`
}

// Provider описывает операции платёжного провайдера.
type Provider interface {
	CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureOrderResponse, error)
}

// Handler обрабатывает захват заказов.
type Handler struct {
	log      *slog.Logger
	provider Provider
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, provider Provider) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Захватить заказ PayPal
// @Description Выполняет захват ранее одобренного заказа у провайдера.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор заказа PayPal"
// @Success 200 {object} map[string]any "Заказ захвачен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка провайдера"
// @Router /payments/capture [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.capture"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	result, err := h.provider.CaptureOrder(r.Context(), req.OrderID)
	if err != nil {
		log.Error("failed to capture order", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not capture order"))
		return
	}

	log.Info("order captured", slog.String("order_id", result.ID), slog.String("status", result.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id": result.ID,
		"status":   result.Status,
	}))
}
