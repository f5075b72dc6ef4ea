//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// Repository methods take the Transaction they run in. A nil Transaction
// reads committed state outside of any write transaction.

// LedgerRepository defines data access for ledgers.
type LedgerRepository interface {
	Create(ctx context.Context, tx Transaction, ledger *domain.Ledger) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Ledger, error)
	GetBySlug(ctx context.Context, tx Transaction, slug string) (*domain.Ledger, error)
}

// CurrencyRepository defines data access for currencies.
type CurrencyRepository interface {
	Create(ctx context.Context, tx Transaction, currency *domain.Currency) error
	GetByCode(ctx context.Context, tx Transaction, code string) (*domain.Currency, error)
}

// AccountTypeRepository defines data access for ledger account types and
// their registration against ledgers.
type AccountTypeRepository interface {
	Create(ctx context.Context, tx Transaction, accountType *domain.LedgerAccountType) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.LedgerAccountType, error)
	GetBySlug(ctx context.Context, tx Transaction, slug string) (*domain.LedgerAccountType, error)
	UpdateDescription(ctx context.Context, tx Transaction, id, description string) error
	AssignToLedger(ctx context.Context, tx Transaction, ledgerID, accountTypeID string) error
	IsAssignedToLedger(ctx context.Context, tx Transaction, ledgerID, accountTypeID string) (bool, error)
	ListByLedger(ctx context.Context, tx Transaction, ledgerID string) ([]*domain.LedgerAccountType, error)
}

// AccountRepository defines data access for persisted ledger accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.PersistedLedgerAccount) error
	// Upsert inserts the account unless (ledger, slug) already exists, and
	// returns the stored row either way.
	Upsert(ctx context.Context, tx Transaction, account *domain.PersistedLedgerAccount) (*domain.PersistedLedgerAccount, error)
	GetBySlug(ctx context.Context, tx Transaction, ledgerID, slug string) (*domain.PersistedLedgerAccount, error)
	ListByLedger(ctx context.Context, tx Transaction, ledgerID string) ([]*domain.PersistedLedgerAccount, error)
}

// TransactionRepository defines data access for transaction headers.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.PersistedTransaction) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.PersistedTransaction, error)
}

// EntryRepository defines data access for posted entries.
type EntryRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, entries []domain.PersistedEntry) error
	ListByTransaction(ctx context.Context, tx Transaction, transactionID string) ([]domain.PersistedEntry, error)
	ListByAccount(ctx context.Context, tx Transaction, accountID string) ([]domain.PersistedEntry, error)
	SumByLedger(ctx context.Context, tx Transaction, ledgerID string) (debits, credits decimal.Decimal, err error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation when the backend reports a transient conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Metrics receives ledger events. Implementations must be safe for concurrent use.
type Metrics interface {
	TransactionPosted(ledger string, entries int)
	AccountMaterialized(ledger string)
	BalanceFetched(ledger string, duration time.Duration)
	ConsistencyViolation(ledger string)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so that the request may be retried.
	Release(ctx context.Context, key string) error
}
