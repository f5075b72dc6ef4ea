package usecase

import (
	"context"

	"github.com/iho/bookkeeper/internal/domain"
)

// ChartAccount is a system account together with its type.
type ChartAccount struct {
	Account *domain.PersistedLedgerAccount
	Type    *domain.LedgerAccountType
}

// Chart is the chart of accounts of a ledger: the preset system accounts and
// the account types entity accounts may be provisioned under.
type Chart struct {
	Ledger             *domain.Ledger
	Currency           *domain.Currency
	SystemAccounts     []ChartAccount
	EntityAccountTypes []*domain.LedgerAccountType
}

// Chart assembles the read-only chart of accounts for a ledger.
func (s *LedgerStorage) Chart(ctx context.Context, ledgerSlug string) (*Chart, error) {
	ledger, err := s.ledgers.GetBySlug(ctx, nil, ledgerSlug)
	if err != nil {
		return nil, err
	}

	currency, err := s.FindCurrency(ctx, ledger.CurrencyCode)
	if err != nil {
		return nil, err
	}

	system, err := s.FindSystemAccounts(ctx, ledgerSlug)
	if err != nil {
		return nil, err
	}

	entityTypes, err := s.FindEntityAccountTypes(ctx, ledgerSlug)
	if err != nil {
		return nil, err
	}

	chart := &Chart{
		Ledger:             ledger,
		Currency:           currency,
		SystemAccounts:     make([]ChartAccount, 0, len(system)),
		EntityAccountTypes: entityTypes,
	}

	for _, account := range system {
		accountType, err := s.accountTypes.GetByID(ctx, nil, account.LedgerAccountTypeID)
		if err != nil {
			return nil, err
		}
		chart.SystemAccounts = append(chart.SystemAccounts, ChartAccount{Account: account, Type: accountType})
	}

	return chart, nil
}
