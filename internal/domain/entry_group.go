package domain

// EntryGroup is a non-empty list of entries sharing one action and one unit,
// with a non-zero sum.
type EntryGroup struct {
	entries []Entry
	sum     Quantity
}

// BuildEntryGroup normalizes entries into an EntryGroup.
// Entries are rechecked as NewEntry would, so literals get no shortcut.
// Zero entries marked MayBeZero are dropped; a group made only of zero
// entries fails with ErrZeroSum, any other zero entry with ErrInvalidAmount.
func BuildEntryGroup(entries ...Entry) (EntryGroup, error) {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if err := e.validateShape(); err != nil {
			return EntryGroup{}, err
		}
		if e.droppable() {
			continue
		}
		kept = append(kept, e)
	}

	if len(kept) == 0 {
		return EntryGroup{}, ErrEmptyEntries
	}

	first := kept[0]
	for _, e := range kept[1:] {
		if e.Action != first.Action {
			return EntryGroup{}, ErrMixedActions
		}
	}

	sum := first.Amount
	for _, e := range kept[1:] {
		if !e.Amount.SameUnit(first.Amount) {
			return EntryGroup{}, ErrCurrencyMismatch
		}

		var err error
		if sum, err = sum.Plus(e.Amount); err != nil {
			return EntryGroup{}, err
		}
	}

	if sum.IsZero() {
		return EntryGroup{}, ErrZeroSum
	}

	for _, e := range kept {
		if e.Amount.IsZero() {
			return EntryGroup{}, e.zeroAmountError()
		}
	}

	return EntryGroup{entries: kept, sum: sum}, nil
}

// Entries returns a copy of the grouped entries.
func (g EntryGroup) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out
}

// Action returns the shared action.
func (g EntryGroup) Action() Action {
	return g.entries[0].Action
}

// Sum returns the summed amount.
func (g EntryGroup) Sum() Quantity {
	return g.sum
}

// Len returns the number of entries kept in the group.
func (g EntryGroup) Len() int {
	return len(g.entries)
}
