package dto

import (
	"time"

	"golang.org/x/text/language"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	Code                  string    `json:"code"`
	Symbol                string    `json:"symbol,omitempty"`
	MinimumFractionDigits int32     `json:"minimum_fraction_digits"`
	CreatedAt             time.Time `json:"created_at"`
}

// CurrencyFromDomain converts a domain currency to a response.
func CurrencyFromDomain(c *domain.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		Code:                  c.Code,
		Symbol:                c.Symbol,
		MinimumFractionDigits: c.MinimumFractionDigits,
		CreatedAt:             c.CreatedAt,
	}
}

// LedgerResponse represents a ledger in API responses.
type LedgerResponse struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CurrencyCode string    `json:"currency_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// LedgerFromDomain converts a domain ledger to a response.
func LedgerFromDomain(l *domain.Ledger) *LedgerResponse {
	return &LedgerResponse{
		ID:           l.ID,
		Slug:         l.Slug,
		Name:         l.Name,
		Description:  l.Description,
		CurrencyCode: l.CurrencyCode,
		CreatedAt:    l.CreatedAt,
	}
}

// AccountTypeResponse represents an account type in API responses.
type AccountTypeResponse struct {
	ID                        string    `json:"id"`
	Slug                      string    `json:"slug"`
	Name                      string    `json:"name"`
	Description               string    `json:"description,omitempty"`
	NormalBalance             string    `json:"normal_balance"`
	IsEntityLedgerAccount     bool      `json:"is_entity_ledger_account"`
	ParentLedgerAccountTypeID *string   `json:"parent_ledger_account_type_id,omitempty"`
	CreatedAt                 time.Time `json:"created_at"`
}

// AccountTypeFromDomain converts a domain account type to a response.
func AccountTypeFromDomain(t *domain.LedgerAccountType) *AccountTypeResponse {
	return &AccountTypeResponse{
		ID:                        t.ID,
		Slug:                      t.Slug,
		Name:                      t.Name,
		Description:               t.Description,
		NormalBalance:             string(t.NormalBalance),
		IsEntityLedgerAccount:     t.IsEntityLedgerAccount,
		ParentLedgerAccountTypeID: t.ParentLedgerAccountTypeID,
		CreatedAt:                 t.CreatedAt,
	}
}

// AccountResponse represents a persisted account in API responses.
type AccountResponse struct {
	ID                  string    `json:"id"`
	LedgerID            string    `json:"ledger_id"`
	LedgerAccountTypeID string    `json:"ledger_account_type_id"`
	Slug                string    `json:"slug"`
	Description         string    `json:"description,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// AccountFromDomain converts a persisted account to a response.
func AccountFromDomain(a *domain.PersistedLedgerAccount) *AccountResponse {
	return &AccountResponse{
		ID:                  a.ID,
		LedgerID:            a.LedgerID,
		LedgerAccountTypeID: a.LedgerAccountTypeID,
		Slug:                a.Slug,
		Description:         a.Description,
		CreatedAt:           a.CreatedAt,
	}
}

// QuantityResponse renders a quantity in three forms: the plain decimal
// rounded to the unit's digits, the lossless wire format, and a localized string.
type QuantityResponse struct {
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Serialized string `json:"serialized"`
	Formatted  string `json:"formatted"`
}

// QuantityFromDomain converts a quantity to a response.
func QuantityFromDomain(q domain.Quantity, symbol string, locale language.Tag) QuantityResponse {
	if symbol == "" {
		symbol = domain.KnownCurrencySymbol(q.UnitCode())
	}

	return QuantityResponse{
		Amount:     q.Amount().StringFixedBank(q.FractionDigits()),
		Currency:   q.UnitCode(),
		Serialized: q.Serialize(),
		Formatted:  q.Format(domain.FormatOptions{Locale: locale, Symbol: symbol}),
	}
}

// BalanceResponse represents a reconstructed account balance.
type BalanceResponse struct {
	Ledger  string           `json:"ledger"`
	Account string           `json:"account"`
	Balance QuantityResponse `json:"balance"`
}

// EntryResponse represents a persisted entry in API responses.
type EntryResponse struct {
	ID            string           `json:"id"`
	AccountID     string           `json:"account_id"`
	TransactionID string           `json:"transaction_id"`
	Action        string           `json:"action"`
	Amount        QuantityResponse `json:"amount"`
	CreatedAt     time.Time        `json:"created_at"`
}

// EntriesFromDomain converts persisted entries to responses.
func EntriesFromDomain(entries []domain.PersistedEntry, symbol string, locale language.Tag) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &EntryResponse{
			ID:            e.ID,
			AccountID:     e.LedgerAccountID,
			TransactionID: e.LedgerTransactionID,
			Action:        string(e.Action),
			Amount:        QuantityFromDomain(e.Amount, symbol, locale),
			CreatedAt:     e.CreatedAt,
		}
	}
	return result
}

// TransactionResponse represents a posted transaction header.
type TransactionResponse struct {
	ID          string    `json:"id"`
	LedgerID    string    `json:"ledger_id"`
	Description string    `json:"description,omitempty"`
	PostedAt    time.Time `json:"posted_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionFromDomain converts a persisted transaction to a response.
func TransactionFromDomain(t *domain.PersistedTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		LedgerID:    t.LedgerID,
		Description: t.Description,
		PostedAt:    t.PostedAt,
		CreatedAt:   t.CreatedAt,
	}
}

// ListEntriesResponse represents the entries of a transaction.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// ChartAccountResponse is a system account in the chart of accounts.
type ChartAccountResponse struct {
	Slug          string `json:"slug"`
	Description   string `json:"description,omitempty"`
	AccountType   string `json:"account_type"`
	NormalBalance string `json:"normal_balance"`
}

// ChartAccountTypeResponse is an entity account type in the chart of accounts.
type ChartAccountTypeResponse struct {
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	NormalBalance string `json:"normal_balance"`
}

// ChartResponse describes the chart of accounts of a ledger.
type ChartResponse struct {
	Ledger             string                     `json:"ledger"`
	Name               string                     `json:"name"`
	Currency           CurrencyResponse           `json:"currency"`
	SystemAccounts     []ChartAccountResponse     `json:"system_accounts"`
	EntityAccountTypes []ChartAccountTypeResponse `json:"entity_account_types"`
}

// ChartFromDomain converts a chart of accounts to a response.
func ChartFromDomain(c *usecase.Chart) *ChartResponse {
	resp := &ChartResponse{
		Ledger:             c.Ledger.Slug,
		Name:               c.Ledger.Name,
		Currency:           *CurrencyFromDomain(c.Currency),
		SystemAccounts:     make([]ChartAccountResponse, len(c.SystemAccounts)),
		EntityAccountTypes: make([]ChartAccountTypeResponse, len(c.EntityAccountTypes)),
	}

	for i, a := range c.SystemAccounts {
		resp.SystemAccounts[i] = ChartAccountResponse{
			Slug:          a.Account.Slug,
			Description:   a.Account.Description,
			AccountType:   a.Type.Slug,
			NormalBalance: string(a.Type.NormalBalance),
		}
	}

	for i, t := range c.EntityAccountTypes {
		resp.EntityAccountTypes[i] = ChartAccountTypeResponse{
			Slug:          t.Slug,
			Name:          t.Name,
			Description:   t.Description,
			NormalBalance: string(t.NormalBalance),
		}
	}

	return resp
}

// ConsistencyResponse reports the posted totals of a ledger.
type ConsistencyResponse struct {
	Ledger     string           `json:"ledger"`
	Debits     QuantityResponse `json:"debits"`
	Credits    QuantityResponse `json:"credits"`
	Consistent bool             `json:"consistent"`
}

// ConsistencyFromDomain converts a consistency report to a response.
func ConsistencyFromDomain(r *usecase.ConsistencyReport, symbol string, locale language.Tag) *ConsistencyResponse {
	return &ConsistencyResponse{
		Ledger:     r.LedgerSlug,
		Debits:     QuantityFromDomain(r.Debits, symbol, locale),
		Credits:    QuantityFromDomain(r.Credits, symbol, locale),
		Consistent: r.Consistent,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
