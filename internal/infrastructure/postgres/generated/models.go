package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Currency struct {
	Code                  string             `json:"code"`
	Symbol                string             `json:"symbol"`
	MinimumFractionDigits int32              `json:"minimum_fraction_digits"`
	CreatedAt             pgtype.Timestamptz `json:"created_at"`
}

type Ledger struct {
	ID           string             `json:"id"`
	Slug         string             `json:"slug"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	CurrencyCode string             `json:"currency_code"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type LedgerAccount struct {
	ID                  string             `json:"id"`
	LedgerID            string             `json:"ledger_id"`
	LedgerAccountTypeID string             `json:"ledger_account_type_id"`
	Slug                string             `json:"slug"`
	Description         string             `json:"description"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

type LedgerAccountType struct {
	ID                        string             `json:"id"`
	Slug                      string             `json:"slug"`
	Name                      string             `json:"name"`
	Description               string             `json:"description"`
	NormalBalance             string             `json:"normal_balance"`
	IsEntityLedgerAccount     bool               `json:"is_entity_ledger_account"`
	ParentLedgerAccountTypeID pgtype.Text        `json:"parent_ledger_account_type_id"`
	CreatedAt                 pgtype.Timestamptz `json:"created_at"`
}

type LedgerEntry struct {
	ID                  string             `json:"id"`
	LedgerAccountID     string             `json:"ledger_account_id"`
	LedgerTransactionID string             `json:"ledger_transaction_id"`
	Position            int32              `json:"position"`
	Action              string             `json:"action"`
	Amount              pgtype.Numeric     `json:"amount"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

type LedgerLedgerAccountType struct {
	LedgerID            string             `json:"ledger_id"`
	LedgerAccountTypeID string             `json:"ledger_account_type_id"`
	Seq                 int64              `json:"seq"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

type LedgerTransaction struct {
	ID          string             `json:"id"`
	LedgerID    string             `json:"ledger_id"`
	Description string             `json:"description"`
	PostedAt    pgtype.Timestamptz `json:"posted_at"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}
