package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Currency describes a unit that ledgers are denominated in.
type Currency struct {
	Code                  string
	Symbol                string
	MinimumFractionDigits int32
	CreatedAt             time.Time
}

// Validate checks the currency definition.
func (c *Currency) Validate() error {
	if err := ValidateUnitCode(c.Code); err != nil {
		return err
	}

	if c.MinimumFractionDigits < 0 || c.MinimumFractionDigits > InternalPrecision {
		return fmt.Errorf("%w: minimum fraction digits must be between 0 and %d", ErrInvalidUnitCode, InternalPrecision)
	}

	return nil
}

// Quantity creates a quantity of this currency.
func (c *Currency) Quantity(amount decimal.Decimal) (Quantity, error) {
	return NewQuantity(amount, c.Code, c.MinimumFractionDigits)
}

// Zero returns a zero quantity of this currency.
func (c *Currency) Zero() Quantity {
	return Quantity{amount: decimal.Zero, unitCode: c.Code, fractionDigits: c.MinimumFractionDigits}
}

// Ledger is a currency-scoped collection of accounts and postings.
type Ledger struct {
	ID           string
	Slug         string
	Name         string
	Description  string
	CurrencyCode string
	CreatedAt    time.Time
}

// Validate checks the ledger definition.
func (l *Ledger) Validate() error {
	if err := ValidateLedgerSlug(l.Slug); err != nil {
		return err
	}

	if err := ValidateUnitCode(l.CurrencyCode); err != nil {
		return err
	}

	return ValidateDescription(l.Description)
}

// LedgerAccountType is a template shared by accounts with the same bookkeeping role.
type LedgerAccountType struct {
	ID                        string
	Slug                      string
	Name                      string
	Description               string
	NormalBalance             Action
	IsEntityLedgerAccount     bool
	ParentLedgerAccountTypeID *string
	CreatedAt                 time.Time
}

// Validate checks the account type definition.
func (t *LedgerAccountType) Validate() error {
	if err := ValidateName(t.Slug); err != nil {
		return err
	}

	if !t.NormalBalance.Valid() {
		return fmt.Errorf("%w: normal balance %q", ErrInvalidAction, t.NormalBalance)
	}

	return ValidateDescription(t.Description)
}

// PersistedLedgerAccount is the durable counterpart of an AccountReference.
type PersistedLedgerAccount struct {
	ID                  string
	LedgerID            string
	LedgerAccountTypeID string
	Slug                string
	Description         string
	CreatedAt           time.Time
}

// PersistedTransaction is the header row of a posted transaction.
type PersistedTransaction struct {
	ID          string
	LedgerID    string
	Description string
	PostedAt    time.Time
	CreatedAt   time.Time
}

// PersistedEntry is the durable record of one flattened Entry.
type PersistedEntry struct {
	ID                  string
	LedgerAccountID     string
	LedgerTransactionID string
	Action              Action
	Amount              Quantity
	CreatedAt           time.Time
}

// NewPersistedEntry binds an entry to the ids assigned by storage.
func NewPersistedEntry(id, accountID, transactionID string, action Action, amount Quantity, createdAt time.Time) PersistedEntry {
	return PersistedEntry{
		ID:                  id,
		LedgerAccountID:     accountID,
		LedgerTransactionID: transactionID,
		Action:              action,
		Amount:              amount,
		CreatedAt:           createdAt,
	}
}
