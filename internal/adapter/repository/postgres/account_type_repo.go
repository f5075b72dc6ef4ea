package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// AccountTypeRepository implements usecase.AccountTypeRepository.
type AccountTypeRepository struct {
	queries queries
}

// NewAccountTypeRepository creates a new AccountTypeRepository.
func NewAccountTypeRepository(pool *pgxpool.Pool) *AccountTypeRepository {
	return newAccountTypeRepository(pool)
}

func newAccountTypeRepository(db generated.DBTX) *AccountTypeRepository {
	return &AccountTypeRepository{queries: newQueries(db)}
}

// Create inserts an account type.
func (r *AccountTypeRepository) Create(ctx context.Context, tx usecase.Transaction, accountType *domain.LedgerAccountType) error {
	err := r.queries.on(tx).CreateLedgerAccountType(ctx, generated.CreateLedgerAccountTypeParams{
		ID:                        accountType.ID,
		Slug:                      accountType.Slug,
		Name:                      accountType.Name,
		Description:               accountType.Description,
		NormalBalance:             string(accountType.NormalBalance),
		IsEntityLedgerAccount:     accountType.IsEntityLedgerAccount,
		ParentLedgerAccountTypeID: optionalText(accountType.ParentLedgerAccountTypeID),
		CreatedAt:                 timeToPgTimestamptz(accountType.CreatedAt),
	})

	return mapWriteError(err, "account type "+accountType.Slug)
}

// GetByID retrieves an account type by ID.
func (r *AccountTypeRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerAccountType, error) {
	row, err := r.queries.on(tx).GetLedgerAccountTypeByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrAccountTypeNotFound)
	}

	return rowToAccountType(row), nil
}

// GetBySlug retrieves an account type by slug.
func (r *AccountTypeRepository) GetBySlug(ctx context.Context, tx usecase.Transaction, slug string) (*domain.LedgerAccountType, error) {
	row, err := r.queries.on(tx).GetLedgerAccountTypeBySlug(ctx, slug)
	if err != nil {
		return nil, mapNoRows(err, domain.ErrAccountTypeNotFound)
	}

	return rowToAccountType(row), nil
}

// UpdateDescription replaces the description of an account type.
func (r *AccountTypeRepository) UpdateDescription(ctx context.Context, tx usecase.Transaction, id, description string) error {
	affected, err := r.queries.on(tx).UpdateLedgerAccountTypeDescription(ctx, generated.UpdateLedgerAccountTypeDescriptionParams{
		ID:          id,
		Description: description,
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrAccountTypeNotFound
	}

	return nil
}

// AssignToLedger links an account type to a ledger. Existing links are kept.
func (r *AccountTypeRepository) AssignToLedger(ctx context.Context, tx usecase.Transaction, ledgerID, accountTypeID string) error {
	err := r.queries.on(tx).AssignLedgerAccountType(ctx, generated.AssignLedgerAccountTypeParams{
		LedgerID:            ledgerID,
		LedgerAccountTypeID: accountTypeID,
		CreatedAt:           timeToPgTimestamptz(time.Now().UTC()),
	})

	return mapWriteError(err, "account type assignment "+accountTypeID)
}

// IsAssignedToLedger reports whether the account type is linked to the ledger.
func (r *AccountTypeRepository) IsAssignedToLedger(ctx context.Context, tx usecase.Transaction, ledgerID, accountTypeID string) (bool, error) {
	return r.queries.on(tx).IsLedgerAccountTypeAssigned(ctx, generated.IsLedgerAccountTypeAssignedParams{
		LedgerID:            ledgerID,
		LedgerAccountTypeID: accountTypeID,
	})
}

// ListByLedger lists the account types linked to a ledger in assignment order.
func (r *AccountTypeRepository) ListByLedger(ctx context.Context, tx usecase.Transaction, ledgerID string) ([]*domain.LedgerAccountType, error) {
	rows, err := r.queries.on(tx).ListLedgerAccountTypesByLedger(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	types := make([]*domain.LedgerAccountType, 0, len(rows))
	for _, row := range rows {
		types = append(types, rowToAccountType(row))
	}

	return types, nil
}

func rowToAccountType(row generated.LedgerAccountType) *domain.LedgerAccountType {
	return &domain.LedgerAccountType{
		ID:                        row.ID,
		Slug:                      row.Slug,
		Name:                      row.Name,
		Description:               row.Description,
		NormalBalance:             domain.Action(row.NormalBalance),
		IsEntityLedgerAccount:     row.IsEntityLedgerAccount,
		ParentLedgerAccountTypeID: textPointer(row.ParentLedgerAccountTypeID),
		CreatedAt:                 row.CreatedAt.Time,
	}
}
