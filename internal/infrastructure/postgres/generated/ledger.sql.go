package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLedger = `-- name: CreateLedger :exec
INSERT INTO ledgers (id, slug, name, description, currency_code, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateLedgerParams struct {
	ID           string             `json:"id"`
	Slug         string             `json:"slug"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	CurrencyCode string             `json:"currency_code"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateLedger(ctx context.Context, arg CreateLedgerParams) error {
	_, err := q.db.Exec(ctx, createLedger,
		arg.ID,
		arg.Slug,
		arg.Name,
		arg.Description,
		arg.CurrencyCode,
		arg.CreatedAt,
	)
	return err
}

const getLedgerByID = `-- name: GetLedgerByID :one
SELECT id, slug, name, description, currency_code, created_at FROM ledgers WHERE id = $1
`

func (q *Queries) GetLedgerByID(ctx context.Context, id string) (Ledger, error) {
	row := q.db.QueryRow(ctx, getLedgerByID, id)
	var i Ledger
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.Name,
		&i.Description,
		&i.CurrencyCode,
		&i.CreatedAt,
	)
	return i, err
}

const getLedgerBySlug = `-- name: GetLedgerBySlug :one
SELECT id, slug, name, description, currency_code, created_at FROM ledgers WHERE slug = $1
`

func (q *Queries) GetLedgerBySlug(ctx context.Context, slug string) (Ledger, error) {
	row := q.db.QueryRow(ctx, getLedgerBySlug, slug)
	var i Ledger
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.Name,
		&i.Description,
		&i.CurrencyCode,
		&i.CreatedAt,
	)
	return i, err
}
