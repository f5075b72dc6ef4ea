package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCurrency = `-- name: CreateCurrency :exec
INSERT INTO currencies (code, symbol, minimum_fraction_digits, created_at)
VALUES ($1, $2, $3, $4)
`

type CreateCurrencyParams struct {
	Code                  string             `json:"code"`
	Symbol                string             `json:"symbol"`
	MinimumFractionDigits int32              `json:"minimum_fraction_digits"`
	CreatedAt             pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateCurrency(ctx context.Context, arg CreateCurrencyParams) error {
	_, err := q.db.Exec(ctx, createCurrency,
		arg.Code,
		arg.Symbol,
		arg.MinimumFractionDigits,
		arg.CreatedAt,
	)
	return err
}

const getCurrencyByCode = `-- name: GetCurrencyByCode :one
SELECT code, symbol, minimum_fraction_digits, created_at FROM currencies WHERE code = $1
`

func (q *Queries) GetCurrencyByCode(ctx context.Context, code string) (Currency, error) {
	row := q.db.QueryRow(ctx, getCurrencyByCode, code)
	var i Currency
	err := row.Scan(
		&i.Code,
		&i.Symbol,
		&i.MinimumFractionDigits,
		&i.CreatedAt,
	)
	return i, err
}
