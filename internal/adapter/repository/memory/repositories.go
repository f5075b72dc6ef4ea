package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// Repositories returns the repository set backed by the store.
func (s *Store) Repositories() usecase.Repositories {
	return usecase.Repositories{
		Ledgers:      &LedgerRepository{store: s},
		Currencies:   &CurrencyRepository{store: s},
		AccountTypes: &AccountTypeRepository{store: s},
		Accounts:     &AccountRepository{store: s},
		Transactions: &TransactionRepository{store: s},
		Entries:      &EntryRepository{store: s},
	}
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// Create inserts a ledger. Slugs are unique.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) error {
	return r.store.write(ctx, tx, func(st *state) error {
		if _, ok := st.ledgerSlugs[ledger.Slug]; ok {
			return fmt.Errorf("%w: ledger %s", domain.ErrAlreadyExists, ledger.Slug)
		}

		st.ledgers[ledger.ID] = *ledger
		st.ledgerSlugs[ledger.Slug] = ledger.ID

		return nil
	})
}

// GetByID retrieves a ledger by ID.
func (r *LedgerRepository) GetByID(_ context.Context, tx usecase.Transaction, id string) (*domain.Ledger, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	ledger, ok := st.ledgers[id]
	if !ok {
		return nil, domain.ErrLedgerNotFound
	}

	return &ledger, nil
}

// GetBySlug retrieves a ledger by slug.
func (r *LedgerRepository) GetBySlug(ctx context.Context, tx usecase.Transaction, slug string) (*domain.Ledger, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	id, ok := st.ledgerSlugs[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLedgerNotFound, slug)
	}

	return r.GetByID(ctx, tx, id)
}

// CurrencyRepository implements usecase.CurrencyRepository.
type CurrencyRepository struct {
	store *Store
}

// Create inserts a currency. Codes are unique.
func (r *CurrencyRepository) Create(ctx context.Context, tx usecase.Transaction, currency *domain.Currency) error {
	return r.store.write(ctx, tx, func(st *state) error {
		if _, ok := st.currencies[currency.Code]; ok {
			return fmt.Errorf("%w: currency %s", domain.ErrAlreadyExists, currency.Code)
		}

		st.currencies[currency.Code] = *currency

		return nil
	})
}

// GetByCode retrieves a currency by code.
func (r *CurrencyRepository) GetByCode(_ context.Context, tx usecase.Transaction, code string) (*domain.Currency, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	currency, ok := st.currencies[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
	}

	return &currency, nil
}

// AccountTypeRepository implements usecase.AccountTypeRepository.
type AccountTypeRepository struct {
	store *Store
}

// Create inserts an account type. Slugs are unique.
func (r *AccountTypeRepository) Create(ctx context.Context, tx usecase.Transaction, accountType *domain.LedgerAccountType) error {
	return r.store.write(ctx, tx, func(st *state) error {
		if _, ok := st.accountTypeSlugs[accountType.Slug]; ok {
			return fmt.Errorf("%w: account type %s", domain.ErrAlreadyExists, accountType.Slug)
		}

		if parentID := accountType.ParentLedgerAccountTypeID; parentID != nil {
			if _, ok := st.accountTypes[*parentID]; !ok {
				return fmt.Errorf("%w: parent %s", domain.ErrAccountTypeNotFound, *parentID)
			}
		}

		st.accountTypes[accountType.ID] = *accountType
		st.accountTypeSlugs[accountType.Slug] = accountType.ID

		return nil
	})
}

// GetByID retrieves an account type by ID.
func (r *AccountTypeRepository) GetByID(_ context.Context, tx usecase.Transaction, id string) (*domain.LedgerAccountType, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	accountType, ok := st.accountTypes[id]
	if !ok {
		return nil, domain.ErrAccountTypeNotFound
	}

	return &accountType, nil
}

// GetBySlug retrieves an account type by slug.
func (r *AccountTypeRepository) GetBySlug(ctx context.Context, tx usecase.Transaction, slug string) (*domain.LedgerAccountType, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	id, ok := st.accountTypeSlugs[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountTypeNotFound, slug)
	}

	return r.GetByID(ctx, tx, id)
}

// UpdateDescription sets the description of an account type.
func (r *AccountTypeRepository) UpdateDescription(ctx context.Context, tx usecase.Transaction, id, description string) error {
	return r.store.write(ctx, tx, func(st *state) error {
		accountType, ok := st.accountTypes[id]
		if !ok {
			return domain.ErrAccountTypeNotFound
		}

		accountType.Description = description
		st.accountTypes[id] = accountType

		return nil
	})
}

// AssignToLedger links an account type to a ledger. Existing links are kept.
func (r *AccountTypeRepository) AssignToLedger(ctx context.Context, tx usecase.Transaction, ledgerID, accountTypeID string) error {
	return r.store.write(ctx, tx, func(st *state) error {
		key := assignmentKey{ledgerID: ledgerID, accountTypeID: accountTypeID}
		if _, ok := st.assignments[key]; !ok {
			st.assignments[key] = len(st.assignments)
		}

		return nil
	})
}

// IsAssignedToLedger reports whether the account type is linked to the ledger.
func (r *AccountTypeRepository) IsAssignedToLedger(_ context.Context, tx usecase.Transaction, ledgerID, accountTypeID string) (bool, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return false, err
	}

	_, ok := st.assignments[assignmentKey{ledgerID: ledgerID, accountTypeID: accountTypeID}]

	return ok, nil
}

// ListByLedger lists the account types linked to a ledger in assignment order.
func (r *AccountTypeRepository) ListByLedger(_ context.Context, tx usecase.Transaction, ledgerID string) ([]*domain.LedgerAccountType, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	type assigned struct {
		order       int
		accountType domain.LedgerAccountType
	}

	var found []assigned
	for key, order := range st.assignments {
		if key.ledgerID != ledgerID {
			continue
		}
		found = append(found, assigned{order: order, accountType: st.accountTypes[key.accountTypeID]})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].order < found[j].order })

	types := make([]*domain.LedgerAccountType, len(found))
	for i := range found {
		types[i] = &found[i].accountType
	}

	return types, nil
}

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// Create inserts an account. Slugs are unique per ledger.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.PersistedLedgerAccount) error {
	return r.store.write(ctx, tx, func(st *state) error {
		key := accountKey{ledgerID: account.LedgerID, slug: account.Slug}
		if _, ok := st.accountSlugs[key]; ok {
			return fmt.Errorf("%w: account %s", domain.ErrAlreadyExists, account.Slug)
		}

		st.accounts[account.ID] = *account
		st.accountSlugs[key] = account.ID

		return nil
	})
}

// Upsert inserts an account unless one with the same ledger and slug exists.
func (r *AccountRepository) Upsert(ctx context.Context, tx usecase.Transaction, account *domain.PersistedLedgerAccount) (*domain.PersistedLedgerAccount, error) {
	var stored domain.PersistedLedgerAccount
	err := r.store.write(ctx, tx, func(st *state) error {
		key := accountKey{ledgerID: account.LedgerID, slug: account.Slug}
		if id, ok := st.accountSlugs[key]; ok {
			stored = st.accounts[id]
			return nil
		}

		stored = *account
		st.accounts[account.ID] = stored
		st.accountSlugs[key] = account.ID

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// GetBySlug retrieves an account by ledger and slug.
func (r *AccountRepository) GetBySlug(_ context.Context, tx usecase.Transaction, ledgerID, slug string) (*domain.PersistedLedgerAccount, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	id, ok := st.accountSlugs[accountKey{ledgerID: ledgerID, slug: slug}]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, slug)
	}

	account := st.accounts[id]

	return &account, nil
}

// ListByLedger lists the accounts of a ledger ordered by slug.
func (r *AccountRepository) ListByLedger(_ context.Context, tx usecase.Transaction, ledgerID string) ([]*domain.PersistedLedgerAccount, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	var accounts []*domain.PersistedLedgerAccount
	for _, account := range st.accounts {
		if account.LedgerID == ledgerID {
			accounts = append(accounts, &account)
		}
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Slug < accounts[j].Slug })

	return accounts, nil
}

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// Create inserts a transaction header.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.PersistedTransaction) error {
	return r.store.write(ctx, tx, func(st *state) error {
		if _, ok := st.transactions[transaction.ID]; ok {
			return fmt.Errorf("%w: transaction %s", domain.ErrAlreadyExists, transaction.ID)
		}

		st.transactions[transaction.ID] = *transaction

		return nil
	})
}

// GetByID retrieves a transaction header by ID.
func (r *TransactionRepository) GetByID(_ context.Context, tx usecase.Transaction, id string) (*domain.PersistedTransaction, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	transaction, ok := st.transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
	}

	return &transaction, nil
}

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// CreateBatch appends entries. Every entry must reference an existing
// account and transaction.
func (r *EntryRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []domain.PersistedEntry) error {
	return r.store.write(ctx, tx, func(st *state) error {
		for _, entry := range entries {
			account, ok := st.accounts[entry.LedgerAccountID]
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, entry.LedgerAccountID)
			}

			if _, ok := st.transactions[entry.LedgerTransactionID]; !ok {
				return fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, entry.LedgerTransactionID)
			}

			st.entries = append(st.entries, entryRow{ledgerID: account.LedgerID, entry: entry})
		}

		return nil
	})
}

// ListByTransaction lists the entries of a transaction in insertion order.
func (r *EntryRepository) ListByTransaction(_ context.Context, tx usecase.Transaction, transactionID string) ([]domain.PersistedEntry, error) {
	return r.filter(tx, func(row entryRow) bool {
		return row.entry.LedgerTransactionID == transactionID
	})
}

// ListByAccount lists the entries of an account in insertion order.
func (r *EntryRepository) ListByAccount(_ context.Context, tx usecase.Transaction, accountID string) ([]domain.PersistedEntry, error) {
	return r.filter(tx, func(row entryRow) bool {
		return row.entry.LedgerAccountID == accountID
	})
}

// SumByLedger totals the debit and credit entries of a ledger.
func (r *EntryRepository) SumByLedger(_ context.Context, tx usecase.Transaction, ledgerID string) (decimal.Decimal, decimal.Decimal, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, row := range st.entries {
		if row.ledgerID != ledgerID {
			continue
		}

		switch row.entry.Action {
		case domain.Debit:
			debits = debits.Add(row.entry.Amount.Amount())
		case domain.Credit:
			credits = credits.Add(row.entry.Amount.Amount())
		}
	}

	return debits, credits, nil
}

func (r *EntryRepository) filter(tx usecase.Transaction, keep func(entryRow) bool) ([]domain.PersistedEntry, error) {
	st, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	var entries []domain.PersistedEntry
	for _, row := range st.entries {
		if keep(row) {
			entries = append(entries, row.entry)
		}
	}

	return entries, nil
}
