package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/infra/config"
	"github.com/syedukkashah/university-library/internal/infra/database"
	kafkainfra "github.com/syedukkashah/university-library/internal/infra/kafka"
	"github.com/syedukkashah/university-library/internal/infra/logger"
	redisinfra "github.com/syedukkashah/university-library/internal/infra/redis"
	"github.com/syedukkashah/university-library/internal/infra/security"
	"github.com/syedukkashah/university-library/internal/infra/storage"
	postgresrepo "github.com/syedukkashah/university-library/internal/repository/postgres"
	redisrepo "github.com/syedukkashah/university-library/internal/repository/redis"
	"github.com/syedukkashah/university-library/internal/transport/http/handlers"
	"github.com/syedukkashah/university-library/internal/transport/http/middleware"
	"github.com/syedukkashah/university-library/internal/transport/http/routes"
	"github.com/syedukkashah/university-library/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	rateLimitWindow := cfg.RateLimit.Window
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	limiter := redisrepo.NewFixedWindowLimiter(redisClient.Client(), redisrepo.FixedWindowConfig{
		KeyPrefix: cfg.RateLimit.KeyPrefix,
		Window:    rateLimitWindow,
		Limit:     cfg.RateLimit.MaxAttempts,
	})

	codec, err := security.NewSessionTokenCodec(cfg.Session.Secret, cfg.Session.TTL, cfg.App.Name)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init session codec: %w", err)
	}

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	var fileStorage port.FileStorage
	if cfg.Storage.Bucket != "" {
		store, err := storage.NewS3CardStore(ctx, cfg.Storage)
		if err != nil {
			pool.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("init storage: %w", err)
		}
		fileStorage = store
	} else {
		log.Warn("storage bucket not configured, card uploads disabled")
	}

	notifier := handlers.NewLoggingNotificationDispatcher(log)

	sessionService := usecase.NewSessionService(codec, log)
	admissionService := usecase.NewAdmissionService(
		repos.Users,
		limiter,
		sessionService,
		security.DefaultPasswordValidator(),
		eventPublisher,
		notifier,
		log,
	)
	approvalService := usecase.NewApprovalService(repos.Users, eventPublisher, notifier, log)
	libraryService := usecase.NewLibraryService(repos.Books, repos.Borrows, repos.Users, eventPublisher, cfg.Borrow.LoanPeriod, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Users:    repos.Users,
		Storage:  fileStorage,
		Database: pool,
		Cache:    redisClient,
		Metrics:  metrics,
		Services: routes.ServiceSet{
			Admission: admissionService,
			Sessions:  sessionService,
			Approval:  approvalService,
			Library:   libraryService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting library API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
