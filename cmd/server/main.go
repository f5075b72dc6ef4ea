package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bookkeeper/internal/adapter/http"
	"github.com/iho/bookkeeper/internal/adapter/http/handler"
	"github.com/iho/bookkeeper/internal/adapter/http/middleware"
	"github.com/iho/bookkeeper/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/bookkeeper/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bookkeeper/internal/adapter/repository/redis"
	"github.com/iho/bookkeeper/internal/infrastructure/config"
	"github.com/iho/bookkeeper/internal/infrastructure/logger"
	"github.com/iho/bookkeeper/internal/infrastructure/metrics"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres"
	"github.com/iho/bookkeeper/internal/infrastructure/redis"
	"github.com/iho/bookkeeper/internal/usecase"
)

const rateLimiterIdle = 10 * time.Minute

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, cfg, appLogger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise")
	}
	defer application.close()

	if err := application.run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

type app struct {
	cfg         *config.Config
	logger      zerolog.Logger
	server      *http.Server
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

// newApp wires storage, optional redis, metrics and the HTTP router.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	storage, checks, err := a.newStorage(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	storage.WithMetrics(metrics.NewWithRegisterer(reg))

	var idempotency usecase.IdempotencyStore
	redisClient, err := redis.NewClient(ctx, redis.Config{
		URL:         cfg.RedisURL,
		DialTimeout: cfg.RedisDialTimeout,
		PoolSize:    cfg.RedisPoolSize,
	})
	switch {
	case errors.Is(err, redis.ErrDisabled):
		logger.Info().Msg("redis disabled: no currency cache, no idempotency keys")
	case err != nil:
		a.close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	default:
		a.closers = append(a.closers, func() { redisClient.Close() })
		logger.Info().Msg("connected to redis")

		storage.WithCache(redisRepo.NewCache(redisClient))
		idempotency = redisRepo.NewIdempotencyStore(redisClient)
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: redisPing(redisClient)})
	}

	if cfg.HTTPRateLimit > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst)
	}

	locale := cfg.Locale()
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:      handler.NewLedgerHandler(storage, locale),
		AccountHandler:     handler.NewAccountHandler(storage, locale),
		TransactionHandler: handler.NewTransactionHandler(storage, locale),
		HealthHandler:      handler.NewHealthHandler(checks...),
		IdempotencyStore:   idempotency,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        a.rateLimiter,
		MetricsHandler:     promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		Logger:             logger,
	})

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return a, nil
}

func (a *app) newStorage(ctx context.Context) (*usecase.LedgerStorage, []handler.HealthCheck, error) {
	idGen := postgresRepo.NewULIDGenerator()

	if a.cfg.StorageBackend == config.BackendMemory {
		a.logger.Warn().Msg("using in-memory storage: data is lost on restart")
		store := memory.NewStore()
		return usecase.NewLedgerStorage(store, store.Repositories(), idGen, a.logger), nil, nil
	}

	if err := postgres.RunMigrations(a.cfg.DatabaseURL, a.cfg.MigrationsPath, a.logger); err != nil {
		return nil, nil, err
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    a.cfg.DatabaseURL,
		MaxConns:       a.cfg.DatabaseMaxConns,
		MinConns:       a.cfg.DatabaseMinConns,
		ConnectTimeout: a.cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	a.logger.Info().Msg("connected to postgres")

	storage := usecase.NewLedgerStorage(
		postgresRepo.NewTxManager(pool),
		postgresRepo.NewRepositories(pool),
		idGen,
		a.logger,
	).WithRetrier(postgresRepo.NewRetrier(a.logger))

	checks := []handler.HealthCheck{{Name: "postgres", Check: pool.Ping}}
	return storage, checks, nil
}

// run serves HTTP until ctx is done, then shuts down gracefully.
func (a *app) run(ctx context.Context) error {
	if a.rateLimiter != nil {
		go a.rateLimiter.Run(ctx, time.Minute, rateLimiterIdle)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("port", a.cfg.HTTPPort).Msg("starting server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func redisPing(client goredis.UniversalClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
