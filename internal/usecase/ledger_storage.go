package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/domain"
)

// Repositories groups the data access ports LedgerStorage works with.
type Repositories struct {
	Ledgers      LedgerRepository
	Currencies   CurrencyRepository
	AccountTypes AccountTypeRepository
	Accounts     AccountRepository
	Transactions TransactionRepository
	Entries      EntryRepository
}

// LedgerStorage implements the ledger storage contract over a set of repositories.
// The same algorithm runs against every backend.
type LedgerStorage struct {
	txManager    TransactionManager
	ledgers      LedgerRepository
	currencies   CurrencyRepository
	accountTypes AccountTypeRepository
	accounts     AccountRepository
	transactions TransactionRepository
	entries      EntryRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      Metrics
	cache        Cache
	logger       zerolog.Logger
	now          func() time.Time
}

// NewLedgerStorage creates a new LedgerStorage.
func NewLedgerStorage(txManager TransactionManager, repos Repositories, idGen IDGenerator, logger zerolog.Logger) *LedgerStorage {
	return &LedgerStorage{
		txManager:    txManager,
		ledgers:      repos.Ledgers,
		currencies:   repos.Currencies,
		accountTypes: repos.AccountTypes,
		accounts:     repos.Accounts,
		transactions: repos.Transactions,
		entries:      repos.Entries,
		idGen:        idGen,
		logger:       logger.With().Str("component", "ledger_storage").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithRetrier sets the retrier used around InsertTransaction.
func (s *LedgerStorage) WithRetrier(retrier Retrier) *LedgerStorage {
	s.retrier = retrier
	return s
}

// WithMetrics sets the metrics sink.
func (s *LedgerStorage) WithMetrics(metrics Metrics) *LedgerStorage {
	s.metrics = metrics
	return s
}

// WithCache enables caching of currency lookups.
func (s *LedgerStorage) WithCache(cache Cache) *LedgerStorage {
	s.cache = cache
	return s
}

// WithClock overrides the clock used for created_at and default posted_at values.
func (s *LedgerStorage) WithClock(now func() time.Time) *LedgerStorage {
	s.now = now
	return s
}

// InsertCurrencyInput represents input for registering a currency.
type InsertCurrencyInput struct {
	Code                  string
	Symbol                string
	MinimumFractionDigits int32
}

// InsertCurrency registers a currency. The code must be unique.
func (s *LedgerStorage) InsertCurrency(ctx context.Context, input InsertCurrencyInput) (*domain.Currency, error) {
	currency := &domain.Currency{
		Code:                  input.Code,
		Symbol:                input.Symbol,
		MinimumFractionDigits: input.MinimumFractionDigits,
		CreatedAt:             s.now(),
	}
	if err := currency.Validate(); err != nil {
		return nil, err
	}

	err := s.inTx(ctx, func(tx Transaction) error {
		if _, err := s.currencies.GetByCode(ctx, tx, currency.Code); err == nil {
			return fmt.Errorf("%w: currency %s", domain.ErrAlreadyExists, currency.Code)
		} else if !errors.Is(err, domain.ErrCurrencyNotFound) {
			return err
		}

		return s.currencies.Create(ctx, tx, currency)
	})
	if err != nil {
		return nil, err
	}

	return currency, nil
}

// FindCurrency returns the currency with the given code.
func (s *LedgerStorage) FindCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	if cached, ok := s.cachedCurrency(ctx, code); ok {
		return cached, nil
	}

	currency, err := s.currencies.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, err
	}

	s.cacheCurrency(ctx, currency)

	return currency, nil
}

// InsertLedgerInput represents input for creating a ledger.
type InsertLedgerInput struct {
	Slug         string
	Name         string
	Description  string
	CurrencyCode string
}

// InsertLedger creates a ledger denominated in an existing currency.
func (s *LedgerStorage) InsertLedger(ctx context.Context, input InsertLedgerInput) (*domain.Ledger, error) {
	ledger := &domain.Ledger{
		ID:           s.idGen.Generate(),
		Slug:         input.Slug,
		Name:         input.Name,
		Description:  input.Description,
		CurrencyCode: input.CurrencyCode,
		CreatedAt:    s.now(),
	}
	if ledger.Name == "" {
		ledger.Name = ledger.Slug
	}
	if err := ledger.Validate(); err != nil {
		return nil, err
	}

	err := s.inTx(ctx, func(tx Transaction) error {
		if _, err := s.currencies.GetByCode(ctx, tx, ledger.CurrencyCode); err != nil {
			return err
		}

		if _, err := s.ledgers.GetBySlug(ctx, tx, ledger.Slug); err == nil {
			return fmt.Errorf("%w: ledger %s", domain.ErrAlreadyExists, ledger.Slug)
		} else if !errors.Is(err, domain.ErrLedgerNotFound) {
			return err
		}

		return s.ledgers.Create(ctx, tx, ledger)
	})
	if err != nil {
		return nil, err
	}

	return ledger, nil
}

// FindLedger returns the ledger with the given slug.
func (s *LedgerStorage) FindLedger(ctx context.Context, slug string) (*domain.Ledger, error) {
	return s.ledgers.GetBySlug(ctx, nil, slug)
}

// InsertAccountTypeInput represents input for creating an account type.
type InsertAccountTypeInput struct {
	Slug                      string
	Name                      string
	Description               string
	NormalBalance             domain.Action
	IsEntityLedgerAccount     bool
	ParentLedgerAccountTypeID *string
}

// InsertAccountType creates an account type.
//
// A duplicate slug is rejected unless both the existing and the new type are
// entity types; the existing type is then returned, with its description
// filled in when it had none.
func (s *LedgerStorage) InsertAccountType(ctx context.Context, input InsertAccountTypeInput) (*domain.LedgerAccountType, error) {
	accountType := &domain.LedgerAccountType{
		ID:                        s.idGen.Generate(),
		Slug:                      input.Slug,
		Name:                      input.Name,
		Description:               input.Description,
		NormalBalance:             input.NormalBalance,
		IsEntityLedgerAccount:     input.IsEntityLedgerAccount,
		ParentLedgerAccountTypeID: input.ParentLedgerAccountTypeID,
		CreatedAt:                 s.now(),
	}
	if accountType.Name == "" {
		accountType.Name = accountType.Slug
	}
	if err := accountType.Validate(); err != nil {
		return nil, err
	}

	var result *domain.LedgerAccountType
	err := s.inTx(ctx, func(tx Transaction) error {
		existing, err := s.accountTypes.GetBySlug(ctx, tx, accountType.Slug)
		switch {
		case err == nil:
			extended, extendErr := s.extendAccountType(ctx, tx, existing, accountType)
			result = extended
			return extendErr
		case !errors.Is(err, domain.ErrAccountTypeNotFound):
			return err
		}

		if parentID := accountType.ParentLedgerAccountTypeID; parentID != nil {
			parent, err := s.accountTypes.GetByID(ctx, tx, *parentID)
			if err != nil {
				return fmt.Errorf("parent of %s: %w", accountType.Slug, err)
			}

			if parent.NormalBalance != accountType.NormalBalance {
				return fmt.Errorf("%w: %s is %s, parent %s is %s", domain.ErrNormalBalanceMismatch,
					accountType.Slug, accountType.NormalBalance, parent.Slug, parent.NormalBalance)
			}
		}

		if err := s.accountTypes.Create(ctx, tx, accountType); err != nil {
			return err
		}
		result = accountType

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *LedgerStorage) extendAccountType(
	ctx context.Context,
	tx Transaction,
	existing, requested *domain.LedgerAccountType,
) (*domain.LedgerAccountType, error) {
	if !existing.IsEntityLedgerAccount || !requested.IsEntityLedgerAccount {
		return nil, fmt.Errorf("%w: account type %s", domain.ErrAlreadyExists, existing.Slug)
	}

	if existing.Description == "" && requested.Description != "" {
		if err := s.accountTypes.UpdateDescription(ctx, tx, existing.ID, requested.Description); err != nil {
			return nil, err
		}
		existing.Description = requested.Description
	}

	return existing, nil
}

// FindAccountTypeBySlug returns the account type with the given slug.
func (s *LedgerStorage) FindAccountTypeBySlug(ctx context.Context, slug string) (*domain.LedgerAccountType, error) {
	return s.accountTypes.GetBySlug(ctx, nil, slug)
}

// AssignAccountTypeInput links an account type to a ledger.
type AssignAccountTypeInput struct {
	AccountTypeID string
	LedgerID      string
}

// AssignAccountTypeToLedger registers an account type against a ledger.
// Assigning twice is a no-op.
func (s *LedgerStorage) AssignAccountTypeToLedger(ctx context.Context, input AssignAccountTypeInput) error {
	return s.inTx(ctx, func(tx Transaction) error {
		if _, err := s.ledgers.GetByID(ctx, tx, input.LedgerID); err != nil {
			return err
		}

		if _, err := s.accountTypes.GetByID(ctx, tx, input.AccountTypeID); err != nil {
			return err
		}

		return s.accountTypes.AssignToLedger(ctx, tx, input.LedgerID, input.AccountTypeID)
	})
}

// UpsertAccountInput represents a persisted account to insert or reuse.
type UpsertAccountInput struct {
	LedgerID            string
	LedgerAccountTypeID string
	Slug                string
	Description         string
}

// UpsertAccount inserts an account unless it already exists in the ledger.
func (s *LedgerStorage) UpsertAccount(ctx context.Context, input UpsertAccountInput) (*domain.PersistedLedgerAccount, error) {
	var account *domain.PersistedLedgerAccount
	err := s.inTx(ctx, func(tx Transaction) error {
		var err error
		account, err = s.accounts.Upsert(ctx, tx, &domain.PersistedLedgerAccount{
			ID:                  s.idGen.Generate(),
			LedgerID:            input.LedgerID,
			LedgerAccountTypeID: input.LedgerAccountTypeID,
			Slug:                input.Slug,
			Description:         input.Description,
			CreatedAt:           s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// InsertAccountInput represents input for provisioning an account.
type InsertAccountInput struct {
	Account         domain.AccountReference
	AccountTypeSlug string
	Description     string
}

// InsertAccount provisions an account explicitly. System accounts must be
// inserted this way before any transaction may reference them.
func (s *LedgerStorage) InsertAccount(ctx context.Context, input InsertAccountInput) (*domain.PersistedLedgerAccount, error) {
	if input.Account.IsZero() {
		return nil, fmt.Errorf("%w: account reference is not set", domain.ErrInvalidName)
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	account := &domain.PersistedLedgerAccount{
		ID:          s.idGen.Generate(),
		Slug:        input.Account.AccountSlug(),
		Description: input.Description,
		CreatedAt:   s.now(),
	}

	err := s.inTx(ctx, func(tx Transaction) error {
		ledger, err := s.ledgers.GetBySlug(ctx, tx, input.Account.LedgerSlug())
		if err != nil {
			return err
		}

		accountType, err := s.accountTypes.GetBySlug(ctx, tx, input.AccountTypeSlug)
		if err != nil {
			return err
		}

		if err := s.requireAssigned(ctx, tx, ledger, accountType); err != nil {
			return err
		}

		if _, err := s.accounts.GetBySlug(ctx, tx, ledger.ID, account.Slug); err == nil {
			return fmt.Errorf("%w: account %s", domain.ErrAlreadyExists, input.Account)
		} else if !errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}

		account.LedgerID = ledger.ID
		account.LedgerAccountTypeID = accountType.ID
		if account.Description == "" {
			account.Description = accountType.Description
		}

		return s.accounts.Create(ctx, tx, account)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// FindAccount returns the persisted counterpart of an account reference.
func (s *LedgerStorage) FindAccount(ctx context.Context, ref domain.AccountReference) (*domain.PersistedLedgerAccount, error) {
	ledger, err := s.ledgers.GetBySlug(ctx, nil, ref.LedgerSlug())
	if err != nil {
		return nil, err
	}

	return s.accounts.GetBySlug(ctx, nil, ledger.ID, ref.AccountSlug())
}

// InsertTransaction posts a transaction atomically. Entity accounts are
// materialized on first use; any failure leaves nothing written.
func (s *LedgerStorage) InsertTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.PersistedTransaction, error) {
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var (
		result       *domain.PersistedTransaction
		materialized int
	)
	post := func() error {
		var err error
		result, materialized, err = s.insertTransaction(ctx, transaction)
		return err
	}

	var err error
	if s.retrier != nil {
		err = s.retrier.Retry(ctx, post)
	} else {
		err = post()
	}
	if err != nil {
		s.logger.Debug().Err(err).Str("ledger", transaction.LedgerSlug).Msg("transaction rejected")
		return nil, err
	}

	s.logger.Debug().
		Str("ledger", transaction.LedgerSlug).
		Str("transaction_id", result.ID).
		Int("entries", len(transaction.Entries)).
		Msg("transaction posted")

	if s.metrics != nil {
		s.metrics.TransactionPosted(transaction.LedgerSlug, len(transaction.Entries))
		for range materialized {
			s.metrics.AccountMaterialized(transaction.LedgerSlug)
		}
	}

	return result, nil
}

func (s *LedgerStorage) insertTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.PersistedTransaction, int, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	ledger, err := s.ledgers.GetBySlug(ctx, tx, transaction.LedgerSlug)
	if err != nil {
		return nil, 0, err
	}

	currency, err := s.currencies.GetByCode(ctx, tx, ledger.CurrencyCode)
	if err != nil {
		return nil, 0, err
	}

	resolver := newAccountResolver(s, tx, ledger)
	accountIDs := make([]string, len(transaction.Entries))
	for i, entry := range transaction.Entries {
		if entry.Account.LedgerSlug() != ledger.Slug {
			return nil, 0, fmt.Errorf("%w: %s is not in ledger %s", domain.ErrMixedLedgers, entry.Account, ledger.Slug)
		}

		if !entry.Amount.SameUnit(currency.Zero()) {
			return nil, 0, fmt.Errorf("%w: ledger %s is denominated in %s(%d), entry in %s(%d)",
				domain.ErrCurrencyMismatch, ledger.Slug, currency.Code, currency.MinimumFractionDigits,
				entry.Amount.UnitCode(), entry.Amount.FractionDigits())
		}

		accountIDs[i], err = resolver.resolve(ctx, entry.Account)
		if err != nil {
			return nil, 0, err
		}
	}

	now := s.now()
	postedAt := now
	if transaction.PostedAt != nil {
		postedAt = transaction.PostedAt.UTC()
	}

	header := &domain.PersistedTransaction{
		ID:          s.idGen.Generate(),
		LedgerID:    ledger.ID,
		Description: transaction.Description,
		PostedAt:    postedAt,
		CreatedAt:   now,
	}
	if err := s.transactions.Create(ctx, tx, header); err != nil {
		return nil, 0, err
	}

	persisted := make([]domain.PersistedEntry, len(transaction.Entries))
	for i, entry := range transaction.Entries {
		persisted[i] = domain.NewPersistedEntry(s.idGen.Generate(), accountIDs[i], header.ID, entry.Action, entry.Amount, now)
	}
	if err := s.entries.CreateBatch(ctx, tx, persisted); err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	return header, resolver.materialized, nil
}

// accountResolver maps account references to persisted account ids within one
// write transaction, materializing entity accounts as needed.
type accountResolver struct {
	storage      *LedgerStorage
	tx           Transaction
	ledger       *domain.Ledger
	resolved     map[string]string
	materialized int
}

func newAccountResolver(storage *LedgerStorage, tx Transaction, ledger *domain.Ledger) *accountResolver {
	return &accountResolver{
		storage:  storage,
		tx:       tx,
		ledger:   ledger,
		resolved: make(map[string]string),
	}
}

func (r *accountResolver) resolve(ctx context.Context, ref domain.AccountReference) (string, error) {
	if id, ok := r.resolved[ref.AccountSlug()]; ok {
		return id, nil
	}

	s := r.storage
	account, err := s.accounts.GetBySlug(ctx, r.tx, r.ledger.ID, ref.AccountSlug())
	switch {
	case err == nil:
		r.resolved[ref.AccountSlug()] = account.ID
		return account.ID, nil
	case !errors.Is(err, domain.ErrAccountNotFound):
		return "", err
	}

	switch ref.Kind() {
	case domain.AccountKindSystem:
		return "", fmt.Errorf("%w: system account %s must be inserted before posting", domain.ErrAccountNotFound, ref)
	case domain.AccountKindEntity:
		account, err = r.materialize(ctx, ref)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: account reference kind %q", domain.ErrUnexpected, ref.Kind())
	}

	r.resolved[ref.AccountSlug()] = account.ID

	return account.ID, nil
}

func (r *accountResolver) materialize(ctx context.Context, ref domain.AccountReference) (*domain.PersistedLedgerAccount, error) {
	s := r.storage

	accountType, err := s.accountTypes.GetBySlug(ctx, r.tx, ref.Name())
	if err != nil {
		return nil, fmt.Errorf("entity account %s: %w", ref, err)
	}

	if err := s.requireAssigned(ctx, r.tx, r.ledger, accountType); err != nil {
		return nil, fmt.Errorf("entity account %s: %w", ref, err)
	}

	if !accountType.IsEntityLedgerAccount {
		return nil, fmt.Errorf("%w: %s cannot back entity account %s", domain.ErrNotEntityAccountType, accountType.Slug, ref)
	}

	account, err := s.accounts.Upsert(ctx, r.tx, &domain.PersistedLedgerAccount{
		ID:                  s.idGen.Generate(),
		LedgerID:            r.ledger.ID,
		LedgerAccountTypeID: accountType.ID,
		Slug:                ref.AccountSlug(),
		Description:         accountType.Description,
		CreatedAt:           s.now(),
	})
	if err != nil {
		return nil, err
	}

	r.materialized++
	s.logger.Warn().
		Str("ledger", r.ledger.Slug).
		Str("account", ref.AccountSlug()).
		Str("account_type", accountType.Slug).
		Msg("entity account materialized")

	return account, nil
}

func (s *LedgerStorage) requireAssigned(ctx context.Context, tx Transaction, ledger *domain.Ledger, accountType *domain.LedgerAccountType) error {
	assigned, err := s.accountTypes.IsAssignedToLedger(ctx, tx, ledger.ID, accountType.ID)
	if err != nil {
		return err
	}

	if !assigned {
		return fmt.Errorf("%w: %s in ledger %s", domain.ErrAccountTypeNotRegistered, accountType.Slug, ledger.Slug)
	}

	return nil
}

// GetTransactionByID returns a posted transaction header.
func (s *LedgerStorage) GetTransactionByID(ctx context.Context, id string) (*domain.PersistedTransaction, error) {
	return s.transactions.GetByID(ctx, nil, id)
}

// GetTransactionEntries returns the entries of a posted transaction in posting order.
func (s *LedgerStorage) GetTransactionEntries(ctx context.Context, id string) ([]domain.PersistedEntry, error) {
	if _, err := s.transactions.GetByID(ctx, nil, id); err != nil {
		return nil, err
	}

	return s.entries.ListByTransaction(ctx, nil, id)
}

// FindSystemAccounts lists the accounts of a ledger whose type is not an entity type.
func (s *LedgerStorage) FindSystemAccounts(ctx context.Context, ledgerSlug string) ([]*domain.PersistedLedgerAccount, error) {
	ledger, err := s.ledgers.GetBySlug(ctx, nil, ledgerSlug)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.ListByLedger(ctx, nil, ledger.ID)
	if err != nil {
		return nil, err
	}

	types := make(map[string]*domain.LedgerAccountType)
	system := make([]*domain.PersistedLedgerAccount, 0, len(accounts))
	for _, account := range accounts {
		accountType, ok := types[account.LedgerAccountTypeID]
		if !ok {
			accountType, err = s.accountTypes.GetByID(ctx, nil, account.LedgerAccountTypeID)
			if err != nil {
				return nil, err
			}
			types[accountType.ID] = accountType
		}

		if !accountType.IsEntityLedgerAccount {
			system = append(system, account)
		}
	}

	return system, nil
}

// FindEntityAccountTypes lists the entity account types registered against a ledger.
func (s *LedgerStorage) FindEntityAccountTypes(ctx context.Context, ledgerSlug string) ([]*domain.LedgerAccountType, error) {
	ledger, err := s.ledgers.GetBySlug(ctx, nil, ledgerSlug)
	if err != nil {
		return nil, err
	}

	registered, err := s.accountTypes.ListByLedger(ctx, nil, ledger.ID)
	if err != nil {
		return nil, err
	}

	entity := make([]*domain.LedgerAccountType, 0, len(registered))
	for _, accountType := range registered {
		if accountType.IsEntityLedgerAccount {
			entity = append(entity, accountType)
		}
	}

	return entity, nil
}

// inTx runs fn in a write transaction and commits it when fn succeeds.
func (s *LedgerStorage) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *LedgerStorage) cachedCurrency(ctx context.Context, code string) (*domain.Currency, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, currencyCachePrefix+code)
	if err != nil || data == nil {
		return nil, false
	}

	var currency domain.Currency
	if err := json.Unmarshal(data, &currency); err != nil {
		s.logger.Warn().Err(err).Str("currency", code).Msg("discarding malformed cached currency")
		return nil, false
	}

	return &currency, true
}

func (s *LedgerStorage) cacheCurrency(ctx context.Context, currency *domain.Currency) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(currency)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, currencyCachePrefix+currency.Code, data, CurrencyCacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("currency", currency.Code).Msg("failed to cache currency")
	}
}
