package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/identra/identity-service/internal/core/port"
	"github.com/identra/identity-service/internal/infra/config"
	"github.com/identra/identity-service/internal/infra/database"
	"github.com/identra/identity-service/internal/infra/kafka"
	"github.com/identra/identity-service/internal/infra/logger"
	redisinfra "github.com/identra/identity-service/internal/infra/redis"
	"github.com/identra/identity-service/internal/infra/security"
	"github.com/identra/identity-service/internal/infra/telemetry"
	"github.com/identra/identity-service/internal/repository/postgres"
	redisrepo "github.com/identra/identity-service/internal/repository/redis"
	"github.com/identra/identity-service/internal/transport/http/middleware"
	"github.com/identra/identity-service/internal/transport/http/routes"
	"github.com/identra/identity-service/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

// Run assembles the service and blocks until shutdown completes.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	defer pool.Close()

	cache, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer func() { _ = cache.Close() }()

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := tracer.Shutdown(shutdownCtx); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	var events port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			return fmt.Errorf("init kafka: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				log.Warn("kafka producer close failed", zap.Error(err))
			}
		}()
		events = kafka.NewEventPublisher(producer, cfg.App, log)
	} else {
		log.Warn("no kafka brokers configured, falling back to log-only event publishing")
		events = kafka.NewStubPublisher(log)
	}

	hasher, err := security.NewArgon2Hasher(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	})
	if err != nil {
		return fmt.Errorf("init password hasher: %w", err)
	}

	issuer, err := security.NewJWTIssuer(security.JWTConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		TokenTTL: cfg.JWT.AccessTokenTTL,
	})
	if err != nil {
		return fmt.Errorf("init token issuer: %w", err)
	}

	repos := postgres.NewRepositories(pool)

	if cfg.Seed.Enabled {
		if err := postgres.NewSeeder(pool, log).Run(ctx); err != nil {
			return fmt.Errorf("seed system roles: %w", err)
		}
	}

	rateLimitStore := redisrepo.NewRateLimitRepository(cache.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "ratelimit",
		TTL:       cfg.RateLimit.WindowDuration * 2,
	})

	services := routes.ServiceSet{
		Auth:          usecase.NewAuthService(repos.Users, hasher, issuer, log),
		Registration:  usecase.NewRegistrationService(repos.Users, repos.Roles, hasher, events, log),
		Users:         usecase.NewUserService(repos.Users, repos.Roles, hasher, events, log),
		Roles:         usecase.NewRoleService(repos.Roles, repos.Permissions, events, log),
		Permissions:   usecase.NewPermissionService(repos.Permissions, events, log),
		Authorization: usecase.NewAuthorizationService(repos.Users, repos.Roles, repos.Permissions),
	}

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return fmt.Errorf("init http metrics: %w", err)
	}

	router := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: middleware.NewRateLimiter(rateLimitStore, log),
		Metrics:     telemetry.NewMetrics(),
		HTTPMetrics: httpMetrics,
		Services:    services,
		Database:    pool,
		Cache:       cache,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr), zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
