package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/bookkeeper/internal/domain"
)

// FetchAccountBalance reconstructs the balance of an account from its posted
// entries, signed by the normal balance of the account's type.
//
// An account with no entries has a zero balance in the ledger currency.
// The balance is negative when the opposite side exceeds the normal side.
func (s *LedgerStorage) FetchAccountBalance(ctx context.Context, ref domain.AccountReference) (domain.Quantity, error) {
	start := time.Now()

	ledger, err := s.ledgers.GetBySlug(ctx, nil, ref.LedgerSlug())
	if err != nil {
		return domain.Quantity{}, err
	}

	currency, err := s.currencies.GetByCode(ctx, nil, ledger.CurrencyCode)
	if err != nil {
		return domain.Quantity{}, err
	}

	account, err := s.accounts.GetBySlug(ctx, nil, ledger.ID, ref.AccountSlug())
	if err != nil {
		return domain.Quantity{}, err
	}

	accountType, err := s.accountTypes.GetByID(ctx, nil, account.LedgerAccountTypeID)
	if err != nil {
		return domain.Quantity{}, err
	}

	entries, err := s.entries.ListByAccount(ctx, nil, account.ID)
	if err != nil {
		return domain.Quantity{}, err
	}

	balance, err := computeBalance(currency.Zero(), accountType.NormalBalance, entries)
	if err != nil {
		s.logger.Warn().Err(err).Str("account", ref.String()).Msg("balance reconstruction failed")
		return domain.Quantity{}, err
	}

	if s.metrics != nil {
		s.metrics.BalanceFetched(ledger.Slug, time.Since(start))
	}

	return balance, nil
}

// sideSum accumulates one side of an account. It stays absent until the first
// entry of that side is seen, so "no entries" differs from "entries summing to zero".
type sideSum struct {
	sum     domain.Quantity
	present bool
}

func (s *sideSum) add(amount domain.Quantity) error {
	if !s.present {
		s.sum = amount
		s.present = true
		return nil
	}

	sum, err := s.sum.Plus(amount)
	if err != nil {
		return err
	}
	s.sum = sum

	return nil
}

func computeBalance(zero domain.Quantity, normalBalance domain.Action, entries []domain.PersistedEntry) (domain.Quantity, error) {
	var debits, credits sideSum
	for _, entry := range entries {
		var err error
		switch entry.Action {
		case domain.Debit:
			err = debits.add(entry.Amount)
		case domain.Credit:
			err = credits.add(entry.Amount)
		default:
			err = fmt.Errorf("%w: entry %s has action %q", domain.ErrUnexpected, entry.ID, entry.Action)
		}
		if err != nil {
			return domain.Quantity{}, err
		}
	}

	if !debits.present && !credits.present {
		return zero, nil
	}

	normal, opposite := debits, credits
	if normalBalance == domain.Credit {
		normal, opposite = credits, debits
	}

	if !normal.present {
		return domain.Quantity{}, fmt.Errorf("%w: account has %s entries but no %s entries",
			domain.ErrUnexpected, normalBalance.Opposite(), normalBalance)
	}

	if !opposite.present {
		return normal.sum, nil
	}

	return normal.sum.Minus(opposite.sum)
}
