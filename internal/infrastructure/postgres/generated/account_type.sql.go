package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const assignLedgerAccountType = `-- name: AssignLedgerAccountType :exec
INSERT INTO ledger_ledger_account_types (ledger_id, ledger_account_type_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (ledger_id, ledger_account_type_id) DO NOTHING
`

type AssignLedgerAccountTypeParams struct {
	LedgerID            string             `json:"ledger_id"`
	LedgerAccountTypeID string             `json:"ledger_account_type_id"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) AssignLedgerAccountType(ctx context.Context, arg AssignLedgerAccountTypeParams) error {
	_, err := q.db.Exec(ctx, assignLedgerAccountType, arg.LedgerID, arg.LedgerAccountTypeID, arg.CreatedAt)
	return err
}

const createLedgerAccountType = `-- name: CreateLedgerAccountType :exec
INSERT INTO ledger_account_types (id, slug, name, description, normal_balance, is_entity_ledger_account, parent_ledger_account_type_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateLedgerAccountTypeParams struct {
	ID                        string             `json:"id"`
	Slug                      string             `json:"slug"`
	Name                      string             `json:"name"`
	Description               string             `json:"description"`
	NormalBalance             string             `json:"normal_balance"`
	IsEntityLedgerAccount     bool               `json:"is_entity_ledger_account"`
	ParentLedgerAccountTypeID pgtype.Text        `json:"parent_ledger_account_type_id"`
	CreatedAt                 pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateLedgerAccountType(ctx context.Context, arg CreateLedgerAccountTypeParams) error {
	_, err := q.db.Exec(ctx, createLedgerAccountType,
		arg.ID,
		arg.Slug,
		arg.Name,
		arg.Description,
		arg.NormalBalance,
		arg.IsEntityLedgerAccount,
		arg.ParentLedgerAccountTypeID,
		arg.CreatedAt,
	)
	return err
}

const getLedgerAccountTypeByID = `-- name: GetLedgerAccountTypeByID :one
SELECT id, slug, name, description, normal_balance, is_entity_ledger_account, parent_ledger_account_type_id, created_at FROM ledger_account_types WHERE id = $1
`

func (q *Queries) GetLedgerAccountTypeByID(ctx context.Context, id string) (LedgerAccountType, error) {
	row := q.db.QueryRow(ctx, getLedgerAccountTypeByID, id)
	var i LedgerAccountType
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.Name,
		&i.Description,
		&i.NormalBalance,
		&i.IsEntityLedgerAccount,
		&i.ParentLedgerAccountTypeID,
		&i.CreatedAt,
	)
	return i, err
}

const getLedgerAccountTypeBySlug = `-- name: GetLedgerAccountTypeBySlug :one
SELECT id, slug, name, description, normal_balance, is_entity_ledger_account, parent_ledger_account_type_id, created_at FROM ledger_account_types WHERE slug = $1
`

func (q *Queries) GetLedgerAccountTypeBySlug(ctx context.Context, slug string) (LedgerAccountType, error) {
	row := q.db.QueryRow(ctx, getLedgerAccountTypeBySlug, slug)
	var i LedgerAccountType
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.Name,
		&i.Description,
		&i.NormalBalance,
		&i.IsEntityLedgerAccount,
		&i.ParentLedgerAccountTypeID,
		&i.CreatedAt,
	)
	return i, err
}

const isLedgerAccountTypeAssigned = `-- name: IsLedgerAccountTypeAssigned :one
SELECT EXISTS (
    SELECT 1 FROM ledger_ledger_account_types
    WHERE ledger_id = $1 AND ledger_account_type_id = $2
)
`

type IsLedgerAccountTypeAssignedParams struct {
	LedgerID            string `json:"ledger_id"`
	LedgerAccountTypeID string `json:"ledger_account_type_id"`
}

func (q *Queries) IsLedgerAccountTypeAssigned(ctx context.Context, arg IsLedgerAccountTypeAssignedParams) (bool, error) {
	row := q.db.QueryRow(ctx, isLedgerAccountTypeAssigned, arg.LedgerID, arg.LedgerAccountTypeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listLedgerAccountTypesByLedger = `-- name: ListLedgerAccountTypesByLedger :many
SELECT t.id, t.slug, t.name, t.description, t.normal_balance, t.is_entity_ledger_account, t.parent_ledger_account_type_id, t.created_at
FROM ledger_account_types t
JOIN ledger_ledger_account_types l ON l.ledger_account_type_id = t.id
WHERE l.ledger_id = $1
ORDER BY l.seq
`

func (q *Queries) ListLedgerAccountTypesByLedger(ctx context.Context, ledgerID string) ([]LedgerAccountType, error) {
	rows, err := q.db.Query(ctx, listLedgerAccountTypesByLedger, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LedgerAccountType
	for rows.Next() {
		var i LedgerAccountType
		if err := rows.Scan(
			&i.ID,
			&i.Slug,
			&i.Name,
			&i.Description,
			&i.NormalBalance,
			&i.IsEntityLedgerAccount,
			&i.ParentLedgerAccountTypeID,
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

const updateLedgerAccountTypeDescription = `-- name: UpdateLedgerAccountTypeDescription :execrows
UPDATE ledger_account_types SET description = $2 WHERE id = $1
`

type UpdateLedgerAccountTypeDescriptionParams struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

func (q *Queries) UpdateLedgerAccountTypeDescription(ctx context.Context, arg UpdateLedgerAccountTypeDescriptionParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateLedgerAccountTypeDescription, arg.ID, arg.Description)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
