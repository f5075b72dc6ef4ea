package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: newQueries(db)}
}

// Create inserts a transaction header.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.PersistedTransaction) error {
	err := r.queries.on(tx).CreateLedgerTransaction(ctx, generated.CreateLedgerTransactionParams{
		ID:          transaction.ID,
		LedgerID:    transaction.LedgerID,
		Description: transaction.Description,
		PostedAt:    timeToPgTimestamptz(transaction.PostedAt),
		CreatedAt:   timeToPgTimestamptz(transaction.CreatedAt),
	})

	return mapWriteError(err, "transaction "+transaction.ID)
}

// GetByID retrieves a transaction header by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.PersistedTransaction, error) {
	row, err := r.queries.on(tx).GetLedgerTransactionByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrTransactionNotFound)
	}

	return &domain.PersistedTransaction{
		ID:          row.ID,
		LedgerID:    row.LedgerID,
		Description: row.Description,
		PostedAt:    row.PostedAt.Time,
		CreatedAt:   row.CreatedAt.Time,
	}, nil
}
