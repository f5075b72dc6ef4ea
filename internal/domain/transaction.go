package domain

import (
	"fmt"
	"time"
)

// TransactionEntrySet accumulates double entries that belong to one ledger.
type TransactionEntrySet struct {
	ledgerSlug    string
	doubleEntries []DoubleEntry
}

// NewTransactionEntrySet returns an empty set.
func NewTransactionEntrySet() *TransactionEntrySet {
	return &TransactionEntrySet{}
}

// Push appends double entries. The ledger is fixed by the first pushed entry;
// any entry of another ledger fails the whole push and leaves the set unchanged.
func (s *TransactionEntrySet) Push(doubleEntries ...DoubleEntry) error {
	ledgerSlug := s.ledgerSlug
	fixed := len(s.doubleEntries) > 0

	for _, de := range doubleEntries {
		if de.IsZero() {
			return fmt.Errorf("%w: double entry has no entries", ErrEmptyEntries)
		}

		for _, e := range de.Entries() {
			slug := e.Account.LedgerSlug()
			if !fixed {
				ledgerSlug = slug
				fixed = true
				continue
			}

			if slug != ledgerSlug {
				return fmt.Errorf("%w: %s is not in ledger %s", ErrMixedLedgers, e.Account, ledgerSlug)
			}
		}
	}

	s.ledgerSlug = ledgerSlug
	s.doubleEntries = append(s.doubleEntries, doubleEntries...)

	return nil
}

// Append pushes every double entry of other.
func (s *TransactionEntrySet) Append(other *TransactionEntrySet) error {
	if other == nil {
		return nil
	}
	return s.Push(other.doubleEntries...)
}

// LedgerSlug is empty until the first push.
func (s *TransactionEntrySet) LedgerSlug() string { return s.ledgerSlug }

// Len returns the number of double entries.
func (s *TransactionEntrySet) Len() int { return len(s.doubleEntries) }

// DoubleEntries returns the pushed double entries in order.
func (s *TransactionEntrySet) DoubleEntries() []DoubleEntry {
	out := make([]DoubleEntry, len(s.doubleEntries))
	copy(out, s.doubleEntries)
	return out
}

// FlatEntries lists debit entries then credit entries of each double entry, in push order.
func (s *TransactionEntrySet) FlatEntries() []Entry {
	var out []Entry
	for _, de := range s.doubleEntries {
		out = append(out, de.Entries()...)
	}
	return out
}

// Transaction is an in-memory posting, handed once to storage.
type Transaction struct {
	LedgerSlug  string
	Entries     []Entry
	Description string
	PostedAt    *time.Time
}

// TransactionOption configures NewTransaction.
type TransactionOption func(*Transaction)

// WithDescription sets the transaction description.
func WithDescription(description string) TransactionOption {
	return func(t *Transaction) {
		t.Description = description
	}
}

// WithPostedAt sets the business time of the posting.
func WithPostedAt(postedAt time.Time) TransactionOption {
	return func(t *Transaction) {
		t.PostedAt = &postedAt
	}
}

// NewTransaction creates a transaction from a non-empty entry set.
func NewTransaction(set *TransactionEntrySet, opts ...TransactionOption) (*Transaction, error) {
	if set == nil || set.Len() == 0 {
		return nil, ErrEmptyTransaction
	}

	entries := set.FlatEntries()
	if len(entries) == 0 {
		return nil, ErrEmptyTransaction
	}

	tx := &Transaction{
		LedgerSlug: set.LedgerSlug(),
		Entries:    entries,
	}
	for _, opt := range opts {
		opt(tx)
	}

	if err := ValidateDescription(tx.Description); err != nil {
		return nil, err
	}

	return tx, nil
}

// Validate rechecks a transaction that may have been assembled as a literal:
// every entry must be valid and in the transaction ledger, and debits must
// equal credits.
func (t *Transaction) Validate() error {
	if t == nil || len(t.Entries) == 0 {
		return ErrEmptyTransaction
	}

	var debits, credits []Entry
	for _, e := range t.Entries {
		if err := e.validate(); err != nil {
			return err
		}

		if e.Account.LedgerSlug() != t.LedgerSlug {
			return fmt.Errorf("%w: %s is not in ledger %s", ErrMixedLedgers, e.Account, t.LedgerSlug)
		}

		if e.Action == Debit {
			debits = append(debits, e)
		} else {
			credits = append(credits, e)
		}
	}

	_, err := NewDoubleEntry(debits, credits, "")
	return err
}

// NewTransactionFromDoubleEntries is a shortcut that pushes entries into a fresh set.
func NewTransactionFromDoubleEntries(doubleEntries []DoubleEntry, opts ...TransactionOption) (*Transaction, error) {
	set := NewTransactionEntrySet()
	if err := set.Push(doubleEntries...); err != nil {
		return nil, err
	}
	return NewTransaction(set, opts...)
}
