package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPendingMarker is stored under an idempotency key while the
	// request that claimed it is still being processed.
	IdempotencyPendingMarker = "processing"

	// CurrencyCacheTTL is how long currency definitions are cached.
	// Currencies are immutable once inserted.
	CurrencyCacheTTL = time.Hour

	currencyCachePrefix = "currency:"
)
