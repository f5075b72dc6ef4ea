package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLedgerAccount = `-- name: CreateLedgerAccount :exec
INSERT INTO ledger_accounts (id, ledger_id, ledger_account_type_id, slug, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateLedgerAccountParams struct {
	ID                  string             `json:"id"`
	LedgerID            string             `json:"ledger_id"`
	LedgerAccountTypeID string             `json:"ledger_account_type_id"`
	Slug                string             `json:"slug"`
	Description         string             `json:"description"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateLedgerAccount(ctx context.Context, arg CreateLedgerAccountParams) error {
	_, err := q.db.Exec(ctx, createLedgerAccount,
		arg.ID,
		arg.LedgerID,
		arg.LedgerAccountTypeID,
		arg.Slug,
		arg.Description,
		arg.CreatedAt,
	)
	return err
}

const insertLedgerAccountIfAbsent = `-- name: InsertLedgerAccountIfAbsent :exec
INSERT INTO ledger_accounts (id, ledger_id, ledger_account_type_id, slug, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (ledger_id, slug) DO NOTHING
`

type InsertLedgerAccountIfAbsentParams struct {
	ID                  string             `json:"id"`
	LedgerID            string             `json:"ledger_id"`
	LedgerAccountTypeID string             `json:"ledger_account_type_id"`
	Slug                string             `json:"slug"`
	Description         string             `json:"description"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertLedgerAccountIfAbsent(ctx context.Context, arg InsertLedgerAccountIfAbsentParams) error {
	_, err := q.db.Exec(ctx, insertLedgerAccountIfAbsent,
		arg.ID,
		arg.LedgerID,
		arg.LedgerAccountTypeID,
		arg.Slug,
		arg.Description,
		arg.CreatedAt,
	)
	return err
}

const getLedgerAccountBySlug = `-- name: GetLedgerAccountBySlug :one
SELECT id, ledger_id, ledger_account_type_id, slug, description, created_at FROM ledger_accounts
WHERE ledger_id = $1 AND slug = $2
`

type GetLedgerAccountBySlugParams struct {
	LedgerID string `json:"ledger_id"`
	Slug     string `json:"slug"`
}

func (q *Queries) GetLedgerAccountBySlug(ctx context.Context, arg GetLedgerAccountBySlugParams) (LedgerAccount, error) {
	row := q.db.QueryRow(ctx, getLedgerAccountBySlug, arg.LedgerID, arg.Slug)
	var i LedgerAccount
	err := row.Scan(
		&i.ID,
		&i.LedgerID,
		&i.LedgerAccountTypeID,
		&i.Slug,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}

const listLedgerAccountsByLedger = `-- name: ListLedgerAccountsByLedger :many
SELECT id, ledger_id, ledger_account_type_id, slug, description, created_at FROM ledger_accounts
WHERE ledger_id = $1
ORDER BY slug
`

func (q *Queries) ListLedgerAccountsByLedger(ctx context.Context, ledgerID string) ([]LedgerAccount, error) {
	rows, err := q.db.Query(ctx, listLedgerAccountsByLedger, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LedgerAccount
	for rows.Next() {
		var i LedgerAccount
		if err := rows.Scan(
			&i.ID,
			&i.LedgerID,
			&i.LedgerAccountTypeID,
			&i.Slug,
			&i.Description,
			&i.CreatedAt,
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
