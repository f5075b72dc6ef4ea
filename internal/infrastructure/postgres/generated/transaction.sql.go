package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLedgerTransaction = `-- name: CreateLedgerTransaction :exec
INSERT INTO ledger_transactions (id, ledger_id, description, posted_at, created_at)
VALUES ($1, $2, $3, $4, $5)
`

type CreateLedgerTransactionParams struct {
	ID          string             `json:"id"`
	LedgerID    string             `json:"ledger_id"`
	Description string             `json:"description"`
	PostedAt    pgtype.Timestamptz `json:"posted_at"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateLedgerTransaction(ctx context.Context, arg CreateLedgerTransactionParams) error {
	_, err := q.db.Exec(ctx, createLedgerTransaction,
		arg.ID,
		arg.LedgerID,
		arg.Description,
		arg.PostedAt,
		arg.CreatedAt,
	)
	return err
}

const getLedgerTransactionByID = `-- name: GetLedgerTransactionByID :one
SELECT id, ledger_id, description, posted_at, created_at FROM ledger_transactions WHERE id = $1
`

func (q *Queries) GetLedgerTransactionByID(ctx context.Context, id string) (LedgerTransaction, error) {
	row := q.db.QueryRow(ctx, getLedgerTransactionByID, id)
	var i LedgerTransaction
	err := row.Scan(
		&i.ID,
		&i.LedgerID,
		&i.Description,
		&i.PostedAt,
		&i.CreatedAt,
	)
	return i, err
}
