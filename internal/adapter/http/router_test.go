package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/iho/bookkeeper/internal/adapter/http/handler"
	apimiddleware "github.com/iho/bookkeeper/internal/adapter/http/middleware"
	"github.com/iho/bookkeeper/internal/adapter/repository/memory"
	redisrepo "github.com/iho/bookkeeper/internal/adapter/repository/redis"
	"github.com/iho/bookkeeper/internal/usecase"
)

const posting = `{
	"description": "Project payment",
	"double_entries": [{
		"debits": [{"account": {"kind":"ENTITY","name":"RECEIVABLES","external_id":"42"}, "amount": "25"}],
		"credits": [{"account": {"kind":"SYSTEM","name":"SYSTEM_INCOME"}, "amount": "25"}]
	}]
}`

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	store := memory.NewStore()
	storage := usecase.NewLedgerStorage(store, store.Repositories(), memory.NewSequenceGenerator("id"), zerolog.Nop())

	cfg := RouterConfig{
		LedgerHandler:      handler.NewLedgerHandler(storage, language.English),
		AccountHandler:     handler.NewAccountHandler(storage, language.English),
		TransactionHandler: handler.NewTransactionHandler(storage, language.English),
		HealthHandler:      handler.NewHealthHandler(),
		Logger:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func send(t *testing.T, router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seed(t *testing.T, router http.Handler) {
	t.Helper()

	steps := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodPost, "/api/v1/currencies", `{"code":"USD","symbol":"$","minimum_fraction_digits":2}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/ledgers", `{"slug":"PLATFORM","name":"Platform","currency_code":"USD"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/account-types", `{"slug":"RECEIVABLES","normal_balance":"DEBIT","is_entity_ledger_account":true}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/account-types", `{"slug":"INCOME","normal_balance":"CREDIT"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/ledgers/PLATFORM/account-types/RECEIVABLES", "", http.StatusNoContent},
		{http.MethodPost, "/api/v1/ledgers/PLATFORM/account-types/INCOME", "", http.StatusNoContent},
		{http.MethodPost, "/api/v1/ledgers/PLATFORM/accounts", `{"account":{"kind":"SYSTEM","name":"SYSTEM_INCOME"},"account_type":"INCOME"}`, http.StatusCreated},
	}

	for _, step := range steps {
		rec := send(t, router, step.method, step.path, step.body)
		require.Equal(t, step.status, rec.Code, "%s %s: %s", step.method, step.path, rec.Body.String())
	}
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := send(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = send(t, router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_PostingFlow(t *testing.T) {
	router := NewRouter(newRouterConfig())
	seed(t, router)

	rec := send(t, router, http.MethodPost, "/api/v1/ledgers/PLATFORM/transactions", posting)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tx struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tx))
	require.NotEmpty(t, tx.ID)

	rec = send(t, router, http.MethodGet, "/api/v1/transactions/"+tx.ID+"/entries", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total":2`)

	rec = send(t, router, http.MethodGet, "/api/v1/ledgers/PLATFORM/accounts/RECEIVABLES/balance?external_id=42", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"formatted":"$25.00"`)

	rec = send(t, router, http.MethodGet, "/api/v1/ledgers/PLATFORM/consistency", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = send(t, router, http.MethodGet, "/api/v1/ledgers/PLATFORM/chart", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "RECEIVABLES")
}

func TestNewRouter_UnknownRoute(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := send(t, router, http.MethodGet, "/api/v1/journal", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(0.001, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	first := send(t, router, http.MethodGet, "/health", "", "X-Real-IP", "203.0.113.7")
	require.Equal(t, http.StatusOK, first.Code)

	second := send(t, router, http.MethodGet, "/health", "", "X-Real-IP", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	other := send(t, router, http.MethodGet, "/health", "", "X-Real-IP", "203.0.113.8")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestNewRouter_IdempotentPosting(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = redisrepo.NewIdempotencyStore(client)
	}))
	seed(t, router)

	first := send(t, router, http.MethodPost, "/api/v1/ledgers/PLATFORM/transactions", posting, "Idempotency-Key", "pay-42")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := send(t, router, http.MethodPost, "/api/v1/ledgers/PLATFORM/transactions", posting, "Idempotency-Key", "pay-42")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(apimiddleware.IdempotencyReplayHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	rec := send(t, router, http.MethodGet, "/api/v1/ledgers/PLATFORM/accounts/RECEIVABLES/balance?external_id=42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"formatted":"$25.00"`, "the replay posted nothing")
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "bookkeeper_router_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}))

	rec := send(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookkeeper_router_test_total 1")
}
