package complianceportal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/compliance-portal/internal/cache"
	"github.com/magabrotheeeer/compliance-portal/internal/complianceapi"
	"github.com/magabrotheeeer/compliance-portal/internal/config"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/sl"
	"github.com/magabrotheeeer/compliance-portal/internal/metrics"
	"github.com/magabrotheeeer/compliance-portal/internal/migrations"
	answersservice "github.com/magabrotheeeer/compliance-portal/internal/services/answers"
	authservice "github.com/magabrotheeeer/compliance-portal/internal/services/auth"
	reconcileservice "github.com/magabrotheeeer/compliance-portal/internal/services/reconcile"
	"github.com/magabrotheeeer/compliance-portal/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и внешние соединения сервиса.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	amqpConn *amqp.Connection
}

// New собирает приложение: хранилище, миграции, кеш, брокер событий,
// сервисы и маршруты. Все зависимости создаются один раз на старте.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Брокер событий необязателен: без него события реконсиляции
	// не публикуются, остальной сервис работает.
	var amqpConn *amqp.Connection
	var events reconcileservice.EventPublisher
	if cfg.AddressRabbit != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AddressRabbit, cfg.ConnRetries, cfg.ConnDelay)
		if err != nil {
			logger.Warn("rabbitmq unavailable, reconcile events disabled", sl.Err(err))
		} else {
			ch, err := rabbitmq.SetupChannel(amqpConn)
			if err != nil {
				return nil, err
			}
			events = rabbitmq.NewPublisher(ch)
		}
	}

	m := metrics.New()
	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	apiClient := complianceapi.NewClient(cfg.BaseURL, cfg.TimeoutAPI)

	authSvc := authservice.NewAuthService(db, jwtMaker, m, logger)
	reconcileSvc := reconcileservice.New(db, cacheRedis, events, m, logger)
	answersSvc := answersservice.New(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, db, authSvc, reconcileSvc, answersSvc, apiClient)

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
		cache:    cacheRedis,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает сервер и останавливает его по отмене контекста.
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
		_ = a.db.DB.Close()
		_ = a.cache.DB.Close()
		if a.amqpConn != nil {
			_ = a.amqpConn.Close()
		}
		return err
	}
}
