package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// NewRepositories wires every repository onto one pool.
func NewRepositories(pool *pgxpool.Pool) usecase.Repositories {
	return newRepositories(pool)
}

func newRepositories(db generated.DBTX) usecase.Repositories {
	return usecase.Repositories{
		Ledgers:      newLedgerRepository(db),
		Currencies:   newCurrencyRepository(db),
		AccountTypes: newAccountTypeRepository(db),
		Accounts:     newAccountRepository(db),
		Transactions: newTransactionRepository(db),
		Entries:      newEntryRepository(db),
	}
}
