package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// PostgreSQL error codes mapped onto domain errors.
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// queries binds the generated queries to tx, or to the pool for committed reads.
type queries struct {
	pool *generated.Queries
}

func newQueries(db generated.DBTX) queries {
	return queries{pool: generated.New(db)}
}

func (q queries) on(tx usecase.Transaction) *generated.Queries {
	if tx == nil {
		return q.pool
	}

	return q.pool.WithTx(tx.(*Tx).PgxTx())
}

// mapWriteError translates constraint violations. Other errors, including
// serialization failures, are returned unchanged so the Retrier can see them.
func mapWriteError(err error, subject string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, subject)
	case pgErrForeignKeyViolation:
		return fmt.Errorf("%s references a missing row (%s): %w", subject, pgErr.ConstraintName, domain.ErrNotFound)
	}

	return err
}

func mapNoRows(err error, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	return err
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}

	return pgtype.Text{String: *s, Valid: true}
}

func textPointer(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}

	s := t.String
	return &s
}
