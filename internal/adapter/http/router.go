package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/adapter/http/handler"
	"github.com/iho/bookkeeper/internal/adapter/http/middleware"
	"github.com/iho/bookkeeper/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler      *handler.LedgerHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	HealthHandler      *handler.HealthHandler

	// IdempotencyStore guards transaction posting when set.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// RateLimiter is applied to every route when set.
	RateLimiter *middleware.RateLimiter
	// MetricsHandler serves /metrics. Defaults to promhttp.Handler().
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewRecovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	postTransaction := http.Handler(http.HandlerFunc(cfg.TransactionHandler.Post))
	if cfg.IdempotencyStore != nil {
		postTransaction = middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).
			Wrap(postTransaction)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/currencies", func(r chi.Router) {
			r.Post("/", cfg.LedgerHandler.CreateCurrency)
			r.Get("/{code}", cfg.LedgerHandler.GetCurrency)
		})

		r.Route("/account-types", func(r chi.Router) {
			r.Post("/", cfg.LedgerHandler.CreateAccountType)
			r.Get("/{slug}", cfg.LedgerHandler.GetAccountType)
		})

		r.Route("/ledgers", func(r chi.Router) {
			r.Post("/", cfg.LedgerHandler.CreateLedger)

			r.Route("/{ledger}", func(r chi.Router) {
				r.Get("/", cfg.LedgerHandler.GetLedger)
				r.Get("/chart", cfg.LedgerHandler.Chart)
				r.Get("/consistency", cfg.LedgerHandler.Consistency)
				r.Post("/account-types/{slug}", cfg.LedgerHandler.AssignAccountType)

				r.Post("/accounts", cfg.AccountHandler.Create)
				r.Get("/accounts/{account}", cfg.AccountHandler.Get)
				r.Get("/accounts/{account}/balance", cfg.AccountHandler.Balance)

				r.Method(http.MethodPost, "/transactions", postTransaction)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Get("/{id}/entries", cfg.TransactionHandler.ListEntries)
		})
	})

	return r
}
