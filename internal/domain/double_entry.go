package domain

import "fmt"

// DoubleEntry is a balanced pair of entry groups.
type DoubleEntry struct {
	debits  EntryGroup
	credits EntryGroup
	comment string
}

// NewDoubleEntry builds both sides and requires their sums to be equal.
func NewDoubleEntry(debits, credits []Entry, comment string) (DoubleEntry, error) {
	debitGroup, err := BuildEntryGroup(debits...)
	if err != nil {
		return DoubleEntry{}, fmt.Errorf("debit side: %w", err)
	}

	creditGroup, err := BuildEntryGroup(credits...)
	if err != nil {
		return DoubleEntry{}, fmt.Errorf("credit side: %w", err)
	}

	if debitGroup.Action() != Debit {
		return DoubleEntry{}, fmt.Errorf("%w: debit side holds %s entries", ErrWrongSide, debitGroup.Action())
	}

	if creditGroup.Action() != Credit {
		return DoubleEntry{}, fmt.Errorf("%w: credit side holds %s entries", ErrWrongSide, creditGroup.Action())
	}

	if err := ValidateDescription(comment); err != nil {
		return DoubleEntry{}, err
	}

	equal, err := debitGroup.Sum().Equals(creditGroup.Sum())
	if err != nil {
		return DoubleEntry{}, err
	}

	if !equal {
		shorter := debitGroup
		if creditGroup.Len() < debitGroup.Len() {
			shorter = creditGroup
		}

		return DoubleEntry{}, &UnbalancedError{
			DebitSum:  debitGroup.Sum(),
			CreditSum: creditGroup.Sum(),
			Dump:      RenderEntries(shorter.entries),
		}
	}

	return DoubleEntry{debits: debitGroup, credits: creditGroup, comment: comment}, nil
}

// DebitEntries returns the debit side.
func (d DoubleEntry) DebitEntries() []Entry { return d.debits.Entries() }

// CreditEntries returns the credit side.
func (d DoubleEntry) CreditEntries() []Entry { return d.credits.Entries() }

// Comment returns the optional comment.
func (d DoubleEntry) Comment() string { return d.comment }

// Amount returns the balanced amount moved by the double entry.
func (d DoubleEntry) Amount() Quantity { return d.debits.Sum() }

// LedgerSlug returns the ledger of the first debit entry, or "" for the zero value.
func (d DoubleEntry) LedgerSlug() string {
	if d.IsZero() {
		return ""
	}
	return d.debits.entries[0].Account.LedgerSlug()
}

// IsZero reports whether d was not built by NewDoubleEntry.
func (d DoubleEntry) IsZero() bool {
	return d.debits.Len() == 0 || d.credits.Len() == 0
}

// Entries returns debit entries followed by credit entries.
func (d DoubleEntry) Entries() []Entry {
	out := make([]Entry, 0, d.debits.Len()+d.credits.Len())
	out = append(out, d.debits.entries...)
	out = append(out, d.credits.entries...)
	return out
}
