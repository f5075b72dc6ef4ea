package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

var usd = &domain.Currency{Code: "USD", Symbol: "$", MinimumFractionDigits: 2}

func TestCreateCurrencyRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateCurrencyRequest{Code: "USD", Symbol: "$", MinimumFractionDigits: 2}

	got := req.ToUseCaseInput()
	want := usecase.InsertCurrencyInput{Code: "USD", Symbol: "$", MinimumFractionDigits: 2}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestCreateAccountTypeRequest_ToUseCaseInput(t *testing.T) {
	parent := "type-1"
	req := &CreateAccountTypeRequest{
		Slug:                  "RECEIVABLES",
		NormalBalance:         "DEBIT",
		IsEntityLedgerAccount: true,
		ParentSlug:            "ASSETS",
	}

	got := req.ToUseCaseInput(&parent)
	if got.NormalBalance != domain.Debit || !got.IsEntityLedgerAccount {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.ParentLedgerAccountTypeID == nil || *got.ParentLedgerAccountTypeID != parent {
		t.Fatalf("expected parent id %q, got %v", parent, got.ParentLedgerAccountTypeID)
	}
}

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name     string
		request  *CreateAccountRequest
		wantSlug string
		wantType string
		wantErr  error
	}{
		{
			name: "system account",
			request: &CreateAccountRequest{
				Account:     AccountRefRequest{Kind: "SYSTEM", Name: "SYSTEM_INCOME_PAYMENT_FEE"},
				AccountType: "INCOME",
			},
			wantSlug: "SYSTEM_INCOME_PAYMENT_FEE",
			wantType: "INCOME",
		},
		{
			name: "entity account defaults its type to its name",
			request: &CreateAccountRequest{
				Account: AccountRefRequest{Kind: "ENTITY", Name: "RECEIVABLES", ExternalID: "42", Prefix: "USER"},
			},
			wantSlug: "USER_RECEIVABLES:42",
			wantType: "RECEIVABLES",
		},
		{
			name: "system account needs a type",
			request: &CreateAccountRequest{
				Account: AccountRefRequest{Kind: "SYSTEM", Name: "SYSTEM_CASH"},
			},
			wantErr: domain.ErrInvalidName,
		},
		{
			name: "reserved prefix",
			request: &CreateAccountRequest{
				Account: AccountRefRequest{Kind: "ENTITY", Name: "RECEIVABLES", ExternalID: "1", Prefix: "SYSTEM"},
			},
			wantErr: domain.ErrReservedPrefix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput("PLATFORM_USD")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Account.AccountSlug() != tt.wantSlug || got.AccountTypeSlug != tt.wantType {
				t.Fatalf("got slug=%s type=%s, want slug=%s type=%s",
					got.Account.AccountSlug(), got.AccountTypeSlug, tt.wantSlug, tt.wantType)
			}
		})
	}
}

func TestPostTransactionRequest_ToDomain(t *testing.T) {
	postedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	receivable := AccountRefRequest{Kind: "ENTITY", Name: "RECEIVABLES", ExternalID: "1", Prefix: "USER"}

	req := &PostTransactionRequest{
		Description: "Project payment",
		PostedAt:    &postedAt,
		DoubleEntries: []DoubleEntryRequest{
			{
				Comment: "project",
				Debits:  []EntryRequest{{Account: receivable, Amount: "100"}},
				Credits: []EntryRequest{{Account: AccountRefRequest{Kind: "SYSTEM", Name: "SYSTEM_INCOME_PAID_PROJECTS"}, Amount: "100.00"}},
			},
			{
				Comment: "fee",
				Debits:  []EntryRequest{{Account: receivable, Amount: "3"}},
				Credits: []EntryRequest{
					{Account: AccountRefRequest{Kind: "SYSTEM", Name: "SYSTEM_INCOME_PAYMENT_FEE"}, Amount: "3"},
					{Account: AccountRefRequest{Kind: "SYSTEM", Name: "SYSTEM_INCOME_PAYMENT_FEE"}, Amount: "0", AllowZero: true},
				},
			},
		},
	}

	tx, err := req.ToDomain("PLATFORM_USD", usd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.LedgerSlug != "PLATFORM_USD" || tx.Description != "Project payment" {
		t.Fatalf("unexpected transaction header: %+v", tx)
	}
	if tx.PostedAt == nil || !tx.PostedAt.Equal(postedAt) {
		t.Fatalf("expected posted_at %s, got %v", postedAt, tx.PostedAt)
	}
	if len(tx.Entries) != 4 {
		t.Fatalf("expected zero entries to be dropped leaving 4, got %d", len(tx.Entries))
	}
	if tx.Entries[0].Amount.Serialize() != "USD:100.00000000" {
		t.Fatalf("unexpected first amount %s", tx.Entries[0].Amount.Serialize())
	}
}

func TestPostTransactionRequest_ToDomainRejects(t *testing.T) {
	cash := AccountRefRequest{Kind: "SYSTEM", Name: "SYSTEM_CASH"}
	fee := AccountRefRequest{Kind: "SYSTEM", Name: "SYSTEM_FEE"}

	tests := []struct {
		name    string
		entries []DoubleEntryRequest
		wantErr error
	}{
		{
			name: "unbalanced",
			entries: []DoubleEntryRequest{{
				Debits:  []EntryRequest{{Account: cash, Amount: "10"}},
				Credits: []EntryRequest{{Account: fee, Amount: "9"}},
			}},
			wantErr: domain.ErrUnbalanced,
		},
		{
			name: "zero amount",
			entries: []DoubleEntryRequest{{
				Debits:  []EntryRequest{{Account: cash, Amount: "0"}},
				Credits: []EntryRequest{{Account: fee, Amount: "0"}},
			}},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "bad account name",
			entries: []DoubleEntryRequest{{
				Debits:  []EntryRequest{{Account: AccountRefRequest{Kind: "SYSTEM", Name: "cash"}, Amount: "1"}},
				Credits: []EntryRequest{{Account: fee, Amount: "1"}},
			}},
			wantErr: domain.ErrInvalidName,
		},
		{
			name:    "no double entries",
			wantErr: domain.ErrEmptyTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &PostTransactionRequest{DoubleEntries: tt.entries}
			if _, err := req.ToDomain("PLATFORM_USD", usd); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
