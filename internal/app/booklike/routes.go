// Package booklike предоставляет маршруты для основного приложения.
package booklike

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/booklike/booklike/internal/config"
	"github.com/booklike/booklike/internal/http/handlers/auth/login"
	"github.com/booklike/booklike/internal/http/handlers/auth/me"
	"github.com/booklike/booklike/internal/http/handlers/auth/register"
	authupdate "github.com/booklike/booklike/internal/http/handlers/auth/update"
	paymentcapture "github.com/booklike/booklike/internal/http/handlers/payment/capture"
	paymentconfirm "github.com/booklike/booklike/internal/http/handlers/payment/confirm"
	paymentlist "github.com/booklike/booklike/internal/http/handlers/payment/list"
	paymentorder "github.com/booklike/booklike/internal/http/handlers/payment/order"
	propertylist "github.com/booklike/booklike/internal/http/handlers/property/list"
	propertyread "github.com/booklike/booklike/internal/http/handlers/property/read"
	propertyremove "github.com/booklike/booklike/internal/http/handlers/property/remove"
	propertysave "github.com/booklike/booklike/internal/http/handlers/property/save"
	propertyupdate "github.com/booklike/booklike/internal/http/handlers/property/update"
	reservationcreate "github.com/booklike/booklike/internal/http/handlers/reservation/create"
	reservationlist "github.com/booklike/booklike/internal/http/handlers/reservation/listmine"
	subscriptionactivate "github.com/booklike/booklike/internal/http/handlers/subscription/activate"
	subscriptioncancel "github.com/booklike/booklike/internal/http/handlers/subscription/cancel"
	subscriptioncreate "github.com/booklike/booklike/internal/http/handlers/subscription/create"
	webhookpaypal "github.com/booklike/booklike/internal/http/handlers/webhook/paypal"
	"github.com/booklike/booklike/internal/http/middlewarectx"
	"github.com/booklike/booklike/internal/lib/jwt"
	"github.com/booklike/booklike/internal/models"
	"github.com/booklike/booklike/internal/paypal"
	authservice "github.com/booklike/booklike/internal/services/auth"
	entitlementservice "github.com/booklike/booklike/internal/services/entitlement"
	propertyservice "github.com/booklike/booklike/internal/services/property"
	reservationservice "github.com/booklike/booklike/internal/services/reservation"
	subscriptionservice "github.com/booklike/booklike/internal/services/subscription"
)

// RouteServices — сервисы, требуемые для регистрации маршрутов.
type RouteServices struct {
	Auth         *authservice.Service
	Entitlement  *entitlementservice.Service
	Subscription *subscriptionservice.Service
	Property     *propertyservice.Service
	Reservation  *reservationservice.Service
	Provider     *paypal.Client
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, jwtMaker jwt.Maker, svc RouteServices) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Get("/properties", propertylist.New(logger, svc.Property).ServeHTTP)
		r.Get("/properties/{slug}", propertyread.New(logger, svc.Property).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/me", me.New(logger, svc.Auth).ServeHTTP)
			r.Put("/me", authupdate.New(logger, svc.Auth).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, svc.Entitlement).ServeHTTP)
			r.Post("/payments/order", paymentorder.New(logger, svc.Provider).ServeHTTP)
			r.Post("/payments/confirm", paymentconfirm.New(logger, svc.Entitlement).ServeHTTP)
			r.Post("/payments/capture", paymentcapture.New(logger, svc.Provider).ServeHTTP)
			r.Post("/subscriptions", subscriptioncreate.New(logger, svc.Provider, svc.Subscription, cfg.PayPal).ServeHTTP)
			r.Post("/subscriptions/activate", subscriptionactivate.New(logger, svc.Entitlement).ServeHTTP)
			r.Post("/subscriptions/cancel", subscriptioncancel.New(logger, svc.Subscription).ServeHTTP)
			r.Post("/reservations", reservationcreate.New(logger, svc.Reservation).ServeHTTP)
			r.Get("/reservations", reservationlist.New(logger, svc.Reservation).ServeHTTP)

			// Группа администратора
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Post("/properties", propertysave.New(logger, svc.Property).ServeHTTP)
				r.Put("/properties/{id}", propertyupdate.New(logger, svc.Property).ServeHTTP)
				r.Delete("/properties/{id}", propertyremove.New(logger, svc.Property).ServeHTTP)
			})
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/webhooks/paypal", webhookpaypal.New(logger, svc.Provider, svc.Subscription).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
