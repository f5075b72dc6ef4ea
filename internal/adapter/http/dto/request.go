package dto

import (
	"fmt"
	"time"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// CreateCurrencyRequest represents a request to register a currency.
type CreateCurrencyRequest struct {
	Code                  string `json:"code"                    validate:"required,uppercase"`
	Symbol                string `json:"symbol"`
	MinimumFractionDigits int32  `json:"minimum_fraction_digits" validate:"gte=0,lte=8"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCurrencyRequest) ToUseCaseInput() usecase.InsertCurrencyInput {
	return usecase.InsertCurrencyInput{
		Code:                  r.Code,
		Symbol:                r.Symbol,
		MinimumFractionDigits: r.MinimumFractionDigits,
	}
}

// CreateLedgerRequest represents a request to create a ledger.
type CreateLedgerRequest struct {
	Slug         string `json:"slug"          validate:"required"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CurrencyCode string `json:"currency_code" validate:"required,uppercase"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLedgerRequest) ToUseCaseInput() usecase.InsertLedgerInput {
	return usecase.InsertLedgerInput{
		Slug:         r.Slug,
		Name:         r.Name,
		Description:  r.Description,
		CurrencyCode: r.CurrencyCode,
	}
}

// CreateAccountTypeRequest represents a request to create an account type.
// The parent is referenced by slug and resolved by the handler.
type CreateAccountTypeRequest struct {
	Slug                  string `json:"slug"           validate:"required"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	NormalBalance         string `json:"normal_balance" validate:"required,oneof=DEBIT CREDIT"`
	IsEntityLedgerAccount bool   `json:"is_entity_ledger_account"`
	ParentSlug            string `json:"parent_slug"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountTypeRequest) ToUseCaseInput(parentID *string) usecase.InsertAccountTypeInput {
	return usecase.InsertAccountTypeInput{
		Slug:                      r.Slug,
		Name:                      r.Name,
		Description:               r.Description,
		NormalBalance:             domain.Action(r.NormalBalance),
		IsEntityLedgerAccount:     r.IsEntityLedgerAccount,
		ParentLedgerAccountTypeID: parentID,
	}
}

// AccountRefRequest identifies an account within the ledger named in the path.
type AccountRefRequest struct {
	Kind       string `json:"kind"        validate:"required,oneof=SYSTEM ENTITY"`
	Name       string `json:"name"        validate:"required"`
	ExternalID string `json:"external_id" validate:"required_if=Kind ENTITY"`
	Prefix     string `json:"prefix"`
}

// ToDomain builds the account reference.
func (r *AccountRefRequest) ToDomain(ledgerSlug string) (domain.AccountReference, error) {
	if domain.AccountKind(r.Kind) == domain.AccountKindSystem {
		return domain.NewSystemAccount(ledgerSlug, r.Name)
	}

	var opts []domain.EntityOption
	if r.Prefix != "" {
		opts = append(opts, domain.WithPrefix(r.Prefix))
	}

	return domain.NewEntityAccount(ledgerSlug, r.Name, r.ExternalID, opts...)
}

// CreateAccountRequest represents a request to provision an account.
// Entity accounts default to the account type named like the account.
type CreateAccountRequest struct {
	Account     AccountRefRequest `json:"account"`
	AccountType string            `json:"account_type"`
	Description string            `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ledgerSlug string) (usecase.InsertAccountInput, error) {
	ref, err := r.Account.ToDomain(ledgerSlug)
	if err != nil {
		return usecase.InsertAccountInput{}, err
	}

	accountType := r.AccountType
	if accountType == "" && ref.Kind() == domain.AccountKindEntity {
		accountType = ref.Name()
	}
	if accountType == "" {
		return usecase.InsertAccountInput{}, fmt.Errorf("%w: account_type is required for system accounts", domain.ErrInvalidName)
	}

	return usecase.InsertAccountInput{
		Account:         ref,
		AccountTypeSlug: accountType,
		Description:     r.Description,
	}, nil
}

// EntryRequest is one side of a double entry. Amount is a decimal string in
// the ledger currency.
type EntryRequest struct {
	Account   AccountRefRequest `json:"account"`
	Amount    string            `json:"amount"     validate:"required,numeric"`
	AllowZero bool              `json:"allow_zero"`
}

// DoubleEntryRequest is a balanced movement between debit and credit entries.
type DoubleEntryRequest struct {
	Comment string         `json:"comment"`
	Debits  []EntryRequest `json:"debits"  validate:"required,min=1,dive"`
	Credits []EntryRequest `json:"credits" validate:"required,min=1,dive"`
}

// PostTransactionRequest represents a request to post a transaction.
type PostTransactionRequest struct {
	Description   string               `json:"description"`
	PostedAt      *time.Time           `json:"posted_at,omitempty"`
	DoubleEntries []DoubleEntryRequest `json:"double_entries" validate:"required,min=1,dive"`
}

// ToDomain assembles the transaction, enforcing the balance invariant of
// every double entry.
func (r *PostTransactionRequest) ToDomain(ledgerSlug string, currency *domain.Currency) (*domain.Transaction, error) {
	doubleEntries := make([]domain.DoubleEntry, 0, len(r.DoubleEntries))
	for i, de := range r.DoubleEntries {
		debits, err := buildEntries(ledgerSlug, currency, domain.Debit, de.Debits)
		if err != nil {
			return nil, fmt.Errorf("double entry %d: %w", i, err)
		}

		credits, err := buildEntries(ledgerSlug, currency, domain.Credit, de.Credits)
		if err != nil {
			return nil, fmt.Errorf("double entry %d: %w", i, err)
		}

		doubleEntry, err := domain.NewDoubleEntry(debits, credits, de.Comment)
		if err != nil {
			return nil, fmt.Errorf("double entry %d: %w", i, err)
		}
		doubleEntries = append(doubleEntries, doubleEntry)
	}

	opts := []domain.TransactionOption{domain.WithDescription(r.Description)}
	if r.PostedAt != nil {
		opts = append(opts, domain.WithPostedAt(*r.PostedAt))
	}

	return domain.NewTransactionFromDoubleEntries(doubleEntries, opts...)
}

func buildEntries(ledgerSlug string, currency *domain.Currency, action domain.Action, requests []EntryRequest) ([]domain.Entry, error) {
	entries := make([]domain.Entry, 0, len(requests))
	for _, req := range requests {
		account, err := req.Account.ToDomain(ledgerSlug)
		if err != nil {
			return nil, err
		}

		amount, err := domain.ParseQuantityAmount(req.Amount, currency.Code, currency.MinimumFractionDigits)
		if err != nil {
			return nil, err
		}

		var opts []domain.EntryOption
		if req.AllowZero {
			opts = append(opts, domain.MayBeZero())
		}

		entry, err := domain.NewEntry(account, action, amount, opts...)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
