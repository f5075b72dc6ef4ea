package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: newQueries(db)}
}

// Create inserts a ledger.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) error {
	err := r.queries.on(tx).CreateLedger(ctx, generated.CreateLedgerParams{
		ID:           ledger.ID,
		Slug:         ledger.Slug,
		Name:         ledger.Name,
		Description:  ledger.Description,
		CurrencyCode: ledger.CurrencyCode,
		CreatedAt:    timeToPgTimestamptz(ledger.CreatedAt),
	})

	return mapWriteError(err, "ledger "+ledger.Slug)
}

// GetByID retrieves a ledger by ID.
func (r *LedgerRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Ledger, error) {
	row, err := r.queries.on(tx).GetLedgerByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrLedgerNotFound)
	}

	return rowToLedger(row), nil
}

// GetBySlug retrieves a ledger by slug.
func (r *LedgerRepository) GetBySlug(ctx context.Context, tx usecase.Transaction, slug string) (*domain.Ledger, error) {
	row, err := r.queries.on(tx).GetLedgerBySlug(ctx, slug)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrLedgerNotFound)
	}

	return rowToLedger(row), nil
}

func rowToLedger(row generated.Ledger) *domain.Ledger {
	return &domain.Ledger{
		ID:           row.ID,
		Slug:         row.Slug,
		Name:         row.Name,
		Description:  row.Description,
		CurrencyCode: row.CurrencyCode,
		CreatedAt:    row.CreatedAt.Time,
	}
}
