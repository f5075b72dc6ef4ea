package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// CurrencyRepository implements usecase.CurrencyRepository.
type CurrencyRepository struct {
	queries queries
}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return newCurrencyRepository(pool)
}

func newCurrencyRepository(db generated.DBTX) *CurrencyRepository {
	return &CurrencyRepository{queries: newQueries(db)}
}

// Create inserts a currency.
func (r *CurrencyRepository) Create(ctx context.Context, tx usecase.Transaction, currency *domain.Currency) error {
	err := r.queries.on(tx).CreateCurrency(ctx, generated.CreateCurrencyParams{
		Code:                  currency.Code,
		Symbol:                currency.Symbol,
		MinimumFractionDigits: currency.MinimumFractionDigits,
		CreatedAt:             timeToPgTimestamptz(currency.CreatedAt),
	})

	return mapWriteError(err, "currency "+currency.Code)
}

// GetByCode retrieves a currency by its code.
func (r *CurrencyRepository) GetByCode(ctx context.Context, tx usecase.Transaction, code string) (*domain.Currency, error) {
	row, err := r.queries.on(tx).GetCurrencyByCode(ctx, code)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrCurrencyNotFound)
	}

	return &domain.Currency{
		Code:                  row.Code,
		Symbol:                row.Symbol,
		MinimumFractionDigits: row.MinimumFractionDigits,
		CreatedAt:             row.CreatedAt.Time,
	}, nil
}
