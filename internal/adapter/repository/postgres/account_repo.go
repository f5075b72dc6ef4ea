package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: newQueries(db)}
}

// Create inserts an account. The slug must be unique within its ledger.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.PersistedLedgerAccount) error {
	err := r.queries.on(tx).CreateLedgerAccount(ctx, generated.CreateLedgerAccountParams{
		ID:                  account.ID,
		LedgerID:            account.LedgerID,
		LedgerAccountTypeID: account.LedgerAccountTypeID,
		Slug:                account.Slug,
		Description:         account.Description,
		CreatedAt:           timeToPgTimestamptz(account.CreatedAt),
	})

	return mapWriteError(err, "account "+account.Slug)
}

// Upsert inserts the account unless one with the same ledger and slug exists,
// and returns the stored row either way.
func (r *AccountRepository) Upsert(ctx context.Context, tx usecase.Transaction, account *domain.PersistedLedgerAccount) (*domain.PersistedLedgerAccount, error) {
	q := r.queries.on(tx)

	err := q.InsertLedgerAccountIfAbsent(ctx, generated.InsertLedgerAccountIfAbsentParams{
		ID:                  account.ID,
		LedgerID:            account.LedgerID,
		LedgerAccountTypeID: account.LedgerAccountTypeID,
		Slug:                account.Slug,
		Description:         account.Description,
		CreatedAt:           timeToPgTimestamptz(account.CreatedAt),
	})
	if err != nil {
		return nil, mapWriteError(err, "account "+account.Slug)
	}

	row, err := q.GetLedgerAccountBySlug(ctx, generated.GetLedgerAccountBySlugParams{
		LedgerID: account.LedgerID,
		Slug:     account.Slug,
	})
	if err != nil {
		return nil, mapNoRows(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetBySlug retrieves an account by ledger and slug.
func (r *AccountRepository) GetBySlug(ctx context.Context, tx usecase.Transaction, ledgerID, slug string) (*domain.PersistedLedgerAccount, error) {
	row, err := r.queries.on(tx).GetLedgerAccountBySlug(ctx, generated.GetLedgerAccountBySlugParams{
		LedgerID: ledgerID,
		Slug:     slug,
	})
	if err != nil {
		return nil, mapNoRows(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// ListByLedger lists the accounts of a ledger ordered by slug.
func (r *AccountRepository) ListByLedger(ctx context.Context, tx usecase.Transaction, ledgerID string) ([]*domain.PersistedLedgerAccount, error) {
	rows, err := r.queries.on(tx).ListLedgerAccountsByLedger(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.PersistedLedgerAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.LedgerAccount) *domain.PersistedLedgerAccount {
	return &domain.PersistedLedgerAccount{
		ID:                  row.ID,
		LedgerID:            row.LedgerID,
		LedgerAccountTypeID: row.LedgerAccountTypeID,
		Slug:                row.Slug,
		Description:         row.Description,
		CreatedAt:           row.CreatedAt.Time,
	}
}
