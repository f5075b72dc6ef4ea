package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doubleEntry(t *testing.T, ledger, from, to, amount string) DoubleEntry {
	t.Helper()
	de, err := NewDoubleEntry(
		[]Entry{debit(t, systemAccount(t, ledger, from), usd(t, amount))},
		[]Entry{credit(t, systemAccount(t, ledger, to), usd(t, amount))},
		"",
	)
	require.NoError(t, err)
	return de
}

func TestTransactionEntrySet_Push(t *testing.T) {
	t.Parallel()

	set := NewTransactionEntrySet()
	assert.Equal(t, "", set.LedgerSlug())

	require.NoError(t, set.Push(doubleEntry(t, "MAIN", "CASH", "INCOME", "10")))
	assert.Equal(t, "MAIN", set.LedgerSlug())

	require.NoError(t, set.Push(
		doubleEntry(t, "MAIN", "CASH", "FEES", "1"),
		doubleEntry(t, "MAIN", "EXPENSES", "CASH", "2"),
	))
	assert.Equal(t, 3, set.Len())

	flat := set.FlatEntries()
	require.Len(t, flat, 6)
	want := []string{"CASH", "INCOME", "CASH", "FEES", "EXPENSES", "CASH"}
	for i, e := range flat {
		assert.Equal(t, want[i], e.Account.AccountSlug(), "entry %d", i)
	}
	assert.Equal(t, Debit, flat[0].Action)
	assert.Equal(t, Credit, flat[1].Action)
}

func TestTransactionEntrySet_MixedLedgers(t *testing.T) {
	t.Parallel()

	set := NewTransactionEntrySet()
	require.NoError(t, set.Push(doubleEntry(t, "MAIN", "CASH", "INCOME", "10")))

	err := set.Push(
		doubleEntry(t, "MAIN", "CASH", "FEES", "1"),
		doubleEntry(t, "OTHER", "CASH", "INCOME", "1"),
	)
	require.ErrorIs(t, err, ErrMixedLedgers)
	assert.True(t, strings.HasPrefix(err.Error(), "All entries must belong to the same ledger"))
	assert.Equal(t, 1, set.Len(), "failed push leaves the set unchanged")

	mixedSides, err := NewDoubleEntry(
		[]Entry{debit(t, systemAccount(t, "MAIN", "CASH"), usd(t, "1"))},
		[]Entry{credit(t, systemAccount(t, "OTHER", "INCOME"), usd(t, "1"))},
		"",
	)
	require.NoError(t, err)
	assert.ErrorIs(t, NewTransactionEntrySet().Push(mixedSides), ErrMixedLedgers)
}

func TestTransactionEntrySet_Append(t *testing.T) {
	t.Parallel()

	a := NewTransactionEntrySet()
	require.NoError(t, a.Push(doubleEntry(t, "MAIN", "CASH", "INCOME", "10")))

	b := NewTransactionEntrySet()
	require.NoError(t, b.Push(doubleEntry(t, "MAIN", "EXPENSES", "CASH", "4")))

	require.NoError(t, a.Append(b))
	assert.Equal(t, 2, a.Len())
	require.NoError(t, a.Append(nil))

	other := NewTransactionEntrySet()
	require.NoError(t, other.Push(doubleEntry(t, "OTHER", "CASH", "INCOME", "1")))
	assert.ErrorIs(t, a.Append(other), ErrMixedLedgers)
	assert.Equal(t, 2, a.Len())
}

func TestNewTransaction(t *testing.T) {
	t.Parallel()

	_, err := NewTransaction(NewTransactionEntrySet())
	assert.ErrorIs(t, err, ErrEmptyTransaction)

	_, err = NewTransaction(nil)
	assert.ErrorIs(t, err, ErrEmptyTransaction)

	postedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tx, err := NewTransactionFromDoubleEntries(
		[]DoubleEntry{doubleEntry(t, "MAIN", "CASH", "INCOME", "10")},
		WithDescription("march invoice"),
		WithPostedAt(postedAt),
	)
	require.NoError(t, err)
	assert.Equal(t, "MAIN", tx.LedgerSlug)
	assert.Len(t, tx.Entries, 2)
	assert.Equal(t, "march invoice", tx.Description)
	require.NotNil(t, tx.PostedAt)
	assert.True(t, tx.PostedAt.Equal(postedAt))

	_, err = NewTransactionFromDoubleEntries(nil)
	assert.ErrorIs(t, err, ErrEmptyTransaction)
}

func TestRenderTransaction(t *testing.T) {
	t.Parallel()

	postedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tx, err := NewTransactionFromDoubleEntries(
		[]DoubleEntry{doubleEntry(t, "MAIN", "CASH", "INCOME", "1234.5")},
		WithDescription("invoice"),
		WithPostedAt(postedAt),
	)
	require.NoError(t, err)

	out := RenderTransaction(tx)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Transaction in MAIN posted at 2024-03-01T12:00:00Z", lines[0])
	assert.Equal(t, "invoice", lines[1])
	assert.Contains(t, lines[2], "ACTION")
	assert.Contains(t, lines[3], "DEBIT")
	assert.Contains(t, lines[3], "$1,234.50")
	assert.Contains(t, lines[4], "INCOME")

	assert.Equal(t, "DEBIT  CASH $1,234.50", RenderEntry(tx.Entries[0]))
}

func TestTransactionEntrySet_RejectsZeroDoubleEntry(t *testing.T) {
	t.Parallel()

	set := NewTransactionEntrySet()
	assert.ErrorIs(t, set.Push(DoubleEntry{}), ErrEmptyEntries)
	assert.Equal(t, 0, set.Len())

	require.NoError(t, set.Push(doubleEntry(t, "MAIN", "CASH", "INCOME", "10")))
	assert.ErrorIs(t, set.Push(doubleEntry(t, "MAIN", "CASH", "FEES", "1"), DoubleEntry{}), ErrEmptyEntries)
	assert.Equal(t, 1, set.Len(), "failed push leaves the set unchanged")

	assert.Equal(t, "", DoubleEntry{}.LedgerSlug())
	assert.True(t, DoubleEntry{}.IsZero())
}

func TestTransaction_Validate(t *testing.T) {
	t.Parallel()

	cash := systemAccount(t, "MAIN", "CASH")
	income := systemAccount(t, "MAIN", "INCOME")
	other := systemAccount(t, "OTHER", "INCOME")

	valid, err := NewTransactionFromDoubleEntries([]DoubleEntry{doubleEntry(t, "MAIN", "CASH", "INCOME", "10")})
	require.NoError(t, err)
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		tx      *Transaction
		wantErr error
	}{
		{name: "nil", tx: nil, wantErr: ErrEmptyTransaction},
		{name: "no entries", tx: &Transaction{LedgerSlug: "MAIN"}, wantErr: ErrEmptyTransaction},
		{
			name: "negative entries",
			tx: &Transaction{LedgerSlug: "MAIN", Entries: []Entry{
				{Account: cash, Action: Debit, Amount: usd(t, "-5")},
				{Account: income, Action: Credit, Amount: usd(t, "-5")},
			}},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "unbalanced",
			tx: &Transaction{LedgerSlug: "MAIN", Entries: []Entry{
				{Account: cash, Action: Debit, Amount: usd(t, "5")},
				{Account: income, Action: Credit, Amount: usd(t, "4")},
			}},
			wantErr: ErrUnbalanced,
		},
		{
			name: "one side only",
			tx: &Transaction{LedgerSlug: "MAIN", Entries: []Entry{
				{Account: cash, Action: Debit, Amount: usd(t, "5")},
			}},
			wantErr: ErrEmptyEntries,
		},
		{
			name: "foreign ledger",
			tx: &Transaction{LedgerSlug: "MAIN", Entries: []Entry{
				{Account: cash, Action: Debit, Amount: usd(t, "5")},
				{Account: other, Action: Credit, Amount: usd(t, "5")},
			}},
			wantErr: ErrMixedLedgers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.tx.Validate(), tt.wantErr)
		})
	}
}
