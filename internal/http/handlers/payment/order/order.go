// Package order реализует HTTP-обработчик создания заказа разового сбора.
//
// Заказ создаётся на стороне сервера с фиксированной суммой сбора:
// клиент получает только идентификатор заказа для одобрения и захвата,
// сумму он задавать не может.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/booklike/booklike/internal/http/response"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/models"
	"github.com/booklike/booklike/internal/paypal"
)

// Provider описывает операции платёжного провайдера.
type Provider interface {
	CreateOrder(ctx context.Context, reqParams paypal.CreateOrderRequest) (*paypal.CreateOrderResponse, error)
}

// Handler обрабатывает создание заказов.
type Handler struct {
	log      *slog.Logger
	provider Provider
}

// New создает новый Handler.
func New(log *slog.Logger, provider Provider) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
	}
}

// ServeHTTP godoc
// @Summary Создать заказ разового сбора
// @Description Создаёт у провайдера заказ на фиксированную сумму сбора за посредничество.
// @Tags Payments
// @Produce  json
// @Success 200 {object} map[string]any "Заказ создан"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Ошибка провайдера"
// @Router /payments/order [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.order"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	order, err := h.provider.CreateOrder(r.Context(), paypal.CreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypal.PurchaseUnit{
			{Amount: paypal.Amount{
				CurrencyCode: "EUR",
				Value:        fmt.Sprintf("%.2f", models.MediationFeeAmount),
			}},
		},
		ApplicationContext: &paypal.ApplicationContext{
			BrandName:   "BookLike",
			LandingPage: "LOGIN",
			UserAction:  "PAY_NOW",
		},
	})
	if err != nil {
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not create order"))
		return
	}

	log.Info("order created", slog.String("order_id", order.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
	}))
}
