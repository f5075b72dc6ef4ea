package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepository(pool)
}

func newEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: newQueries(db)}
}

// CreateBatch inserts entries in one statement. Slice order becomes the
// position of each entry within its transaction.
func (r *EntryRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []domain.PersistedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	params := generated.CreateLedgerEntriesParams{
		Ids:                  make([]string, len(entries)),
		LedgerAccountIds:     make([]string, len(entries)),
		LedgerTransactionIds: make([]string, len(entries)),
		Positions:            make([]int32, len(entries)),
		Actions:              make([]string, len(entries)),
		Amounts:              make([]pgtype.Numeric, len(entries)),
		CreatedAts:           make([]pgtype.Timestamptz, len(entries)),
	}
	for i, entry := range entries {
		params.Ids[i] = entry.ID
		params.LedgerAccountIds[i] = entry.LedgerAccountID
		params.LedgerTransactionIds[i] = entry.LedgerTransactionID
		params.Positions[i] = int32(i)
		params.Actions[i] = string(entry.Action)
		params.Amounts[i] = decimalToNumeric(entry.Amount.Amount())
		params.CreatedAts[i] = timeToPgTimestamptz(entry.CreatedAt)
	}

	inserted, err := r.queries.on(tx).CreateLedgerEntries(ctx, params)
	if err != nil {
		return mapWriteError(err, "entries of transaction "+entries[0].LedgerTransactionID)
	}

	if inserted != int64(len(entries)) {
		return fmt.Errorf("%w: inserted %d of %d entries", domain.ErrUnexpected, inserted, len(entries))
	}

	return nil
}

// ListByTransaction lists the entries of a transaction in posting order.
func (r *EntryRepository) ListByTransaction(ctx context.Context, tx usecase.Transaction, transactionID string) ([]domain.PersistedEntry, error) {
	rows, err := r.queries.on(tx).ListLedgerEntriesByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.PersistedEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := rowToEntry(generated.ListLedgerEntriesByAccountRow(row))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ListByAccount lists the entries posted to an account.
func (r *EntryRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]domain.PersistedEntry, error) {
	rows, err := r.queries.on(tx).ListLedgerEntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.PersistedEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := rowToEntry(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// SumByLedger returns the totals of debit and credit entries posted to a ledger.
func (r *EntryRepository) SumByLedger(ctx context.Context, tx usecase.Transaction, ledgerID string) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.on(tx).SumLedgerEntriesByLedger(ctx, ledgerID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(row.Debits), numericToDecimal(row.Credits), nil
}

func rowToEntry(row generated.ListLedgerEntriesByAccountRow) (domain.PersistedEntry, error) {
	amount, err := domain.NewQuantity(numericToDecimal(row.Amount), row.CurrencyCode, row.MinimumFractionDigits)
	if err != nil {
		return domain.PersistedEntry{}, fmt.Errorf("entry %s: %w", row.ID, err)
	}

	return domain.NewPersistedEntry(
		row.ID,
		row.LedgerAccountID,
		row.LedgerTransactionID,
		domain.Action(row.Action),
		amount,
		row.CreatedAt.Time,
	), nil
}
