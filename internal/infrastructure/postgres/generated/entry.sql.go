package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLedgerEntries = `-- name: CreateLedgerEntries :execrows
INSERT INTO ledger_entries (id, ledger_account_id, ledger_transaction_id, position, action, amount, created_at)
SELECT
    unnest($1::text[]),
    unnest($2::text[]),
    unnest($3::text[]),
    unnest($4::int[]),
    unnest($5::text[]),
    unnest($6::numeric[]),
    unnest($7::timestamptz[])
`

type CreateLedgerEntriesParams struct {
	Ids                  []string             `json:"ids"`
	LedgerAccountIds     []string             `json:"ledger_account_ids"`
	LedgerTransactionIds []string             `json:"ledger_transaction_ids"`
	Positions            []int32              `json:"positions"`
	Actions              []string             `json:"actions"`
	Amounts              []pgtype.Numeric     `json:"amounts"`
	CreatedAts           []pgtype.Timestamptz `json:"created_ats"`
}

func (q *Queries) CreateLedgerEntries(ctx context.Context, arg CreateLedgerEntriesParams) (int64, error) {
	result, err := q.db.Exec(ctx, createLedgerEntries,
		arg.Ids,
		arg.LedgerAccountIds,
		arg.LedgerTransactionIds,
		arg.Positions,
		arg.Actions,
		arg.Amounts,
		arg.CreatedAts,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listLedgerEntriesByAccount = `-- name: ListLedgerEntriesByAccount :many
SELECT e.id, e.ledger_account_id, e.ledger_transaction_id, e.position, e.action, e.amount, e.created_at,
       c.code AS currency_code, c.minimum_fraction_digits
FROM ledger_entries e
JOIN ledger_accounts a ON a.id = e.ledger_account_id
JOIN ledgers l ON l.id = a.ledger_id
JOIN currencies c ON c.code = l.currency_code
WHERE e.ledger_account_id = $1
ORDER BY e.created_at, e.ledger_transaction_id, e.position
`

type ListLedgerEntriesByAccountRow struct {
	ID                    string             `json:"id"`
	LedgerAccountID       string             `json:"ledger_account_id"`
	LedgerTransactionID   string             `json:"ledger_transaction_id"`
	Position              int32              `json:"position"`
	Action                string             `json:"action"`
	Amount                pgtype.Numeric     `json:"amount"`
	CreatedAt             pgtype.Timestamptz `json:"created_at"`
	CurrencyCode          string             `json:"currency_code"`
	MinimumFractionDigits int32              `json:"minimum_fraction_digits"`
}

func (q *Queries) ListLedgerEntriesByAccount(ctx context.Context, ledgerAccountID string) ([]ListLedgerEntriesByAccountRow, error) {
	rows, err := q.db.Query(ctx, listLedgerEntriesByAccount, ledgerAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListLedgerEntriesByAccountRow
	for rows.Next() {
		var i ListLedgerEntriesByAccountRow
		if err := rows.Scan(
			&i.ID,
			&i.LedgerAccountID,
			&i.LedgerTransactionID,
			&i.Position,
			&i.Action,
			&i.Amount,
			&i.CreatedAt,
			&i.CurrencyCode,
			&i.MinimumFractionDigits,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listLedgerEntriesByTransaction = `-- name: ListLedgerEntriesByTransaction :many
SELECT e.id, e.ledger_account_id, e.ledger_transaction_id, e.position, e.action, e.amount, e.created_at,
       c.code AS currency_code, c.minimum_fraction_digits
FROM ledger_entries e
JOIN ledger_transactions t ON t.id = e.ledger_transaction_id
JOIN ledgers l ON l.id = t.ledger_id
JOIN currencies c ON c.code = l.currency_code
WHERE e.ledger_transaction_id = $1
ORDER BY e.position
`

type ListLedgerEntriesByTransactionRow struct {
	ID                    string             `json:"id"`
	LedgerAccountID       string             `json:"ledger_account_id"`
	LedgerTransactionID   string             `json:"ledger_transaction_id"`
	Position              int32              `json:"position"`
	Action                string             `json:"action"`
	Amount                pgtype.Numeric     `json:"amount"`
	CreatedAt             pgtype.Timestamptz `json:"created_at"`
	CurrencyCode          string             `json:"currency_code"`
	MinimumFractionDigits int32              `json:"minimum_fraction_digits"`
}

func (q *Queries) ListLedgerEntriesByTransaction(ctx context.Context, ledgerTransactionID string) ([]ListLedgerEntriesByTransactionRow, error) {
	rows, err := q.db.Query(ctx, listLedgerEntriesByTransaction, ledgerTransactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListLedgerEntriesByTransactionRow
	for rows.Next() {
		var i ListLedgerEntriesByTransactionRow
		if err := rows.Scan(
			&i.ID,
			&i.LedgerAccountID,
			&i.LedgerTransactionID,
			&i.Position,
			&i.Action,
			&i.Amount,
			&i.CreatedAt,
			&i.CurrencyCode,
			&i.MinimumFractionDigits,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumLedgerEntriesByLedger = `-- name: SumLedgerEntriesByLedger :one
SELECT
    COALESCE(SUM(e.amount) FILTER (WHERE e.action = 'DEBIT'), 0)::numeric AS debits,
    COALESCE(SUM(e.amount) FILTER (WHERE e.action = 'CREDIT'), 0)::numeric AS credits
FROM ledger_entries e
JOIN ledger_transactions t ON t.id = e.ledger_transaction_id
WHERE t.ledger_id = $1
`

type SumLedgerEntriesByLedgerRow struct {
	Debits  pgtype.Numeric `json:"debits"`
	Credits pgtype.Numeric `json:"credits"`
}

func (q *Queries) SumLedgerEntriesByLedger(ctx context.Context, ledgerID string) (SumLedgerEntriesByLedgerRow, error) {
	row := q.db.QueryRow(ctx, sumLedgerEntriesByLedger, ledgerID)
	var i SumLedgerEntriesByLedgerRow
	err := row.Scan(&i.Debits, &i.Credits)
	return i, err
}
