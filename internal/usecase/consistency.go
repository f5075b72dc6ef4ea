package usecase

import (
	"context"
	"errors"

	"github.com/iho/bookkeeper/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// ConsistencyReport summarizes the posted totals of a ledger.
type ConsistencyReport struct {
	LedgerSlug string
	Debits     domain.Quantity
	Credits    domain.Quantity
	Consistent bool
}

// CheckConsistency verifies that the debit and credit totals of a ledger are equal.
// An inconsistent ledger yields both the report and ErrInconsistentLedger.
func (s *LedgerStorage) CheckConsistency(ctx context.Context, ledgerSlug string) (*ConsistencyReport, error) {
	ledger, err := s.ledgers.GetBySlug(ctx, nil, ledgerSlug)
	if err != nil {
		return nil, err
	}

	currency, err := s.currencies.GetByCode(ctx, nil, ledger.CurrencyCode)
	if err != nil {
		return nil, err
	}

	debitSum, creditSum, err := s.entries.SumByLedger(ctx, nil, ledger.ID)
	if err != nil {
		return nil, err
	}

	debits, err := currency.Quantity(debitSum)
	if err != nil {
		return nil, err
	}

	credits, err := currency.Quantity(creditSum)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		LedgerSlug: ledger.Slug,
		Debits:     debits,
		Credits:    credits,
		Consistent: debitSum.Equal(creditSum),
	}

	if !report.Consistent {
		s.logger.Error().
			Str("ledger", ledger.Slug).
			Str("debits", debits.Serialize()).
			Str("credits", credits.Serialize()).
			Msg("ledger is inconsistent")
		if s.metrics != nil {
			s.metrics.ConsistencyViolation(ledger.Slug)
		}
		return report, ErrInconsistentLedger
	}

	return report, nil
}
