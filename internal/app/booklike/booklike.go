// Package booklike собирает и запускает основной HTTP-сервис:
// хранилище, миграции, кеш, очередь уведомлений, клиент PayPal
// и все доменные сервисы.
package booklike

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/booklike/booklike/internal/cache"
	"github.com/booklike/booklike/internal/config"
	"github.com/booklike/booklike/internal/lib/jwt"
	"github.com/booklike/booklike/internal/lib/rabbitmq"
	"github.com/booklike/booklike/internal/lib/sl"
	"github.com/booklike/booklike/internal/migrations"
	"github.com/booklike/booklike/internal/paypal"
	authservice "github.com/booklike/booklike/internal/services/auth"
	entitlementservice "github.com/booklike/booklike/internal/services/entitlement"
	propertyservice "github.com/booklike/booklike/internal/services/property"
	reservationservice "github.com/booklike/booklike/internal/services/reservation"
	subscriptionservice "github.com/booklike/booklike/internal/services/subscription"
	"github.com/booklike/booklike/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и внешние подключения приложения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New создаёт приложение: подключает хранилище, прогоняет миграции,
// инициализирует кеш и очередь, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	amqpChannel, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, err
	}

	paypalClient := paypal.NewClient(cfg.PayPal)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authService := authservice.New(db, jwtMaker, logger)
	entitlementService := entitlementservice.New(db, cacheRedis, logger)
	subscriptionService := subscriptionservice.New(db, paypalClient, cacheRedis, logger)
	propertyService := propertyservice.New(db, logger)
	reservationService := reservationservice.New(db, entitlementService,
		reservationservice.NewAmqpPublisher(amqpChannel), logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, jwtMaker, RouteServices{
		Auth:         authService,
		Entitlement:  entitlementService,
		Subscription: subscriptionService,
		Property:     propertyService,
		Reservation:  reservationService,
		Provider:     paypalClient,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.amqpConn.Close(); cerr != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(cerr))
		}
		a.db.DB.Close()
		return err
	}
}
