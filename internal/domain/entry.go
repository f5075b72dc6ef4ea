package domain

import "fmt"

// Action is the side of an entry.
type Action string

const (
	Debit  Action = "DEBIT"
	Credit Action = "CREDIT"
)

// Valid reports whether a is DEBIT or CREDIT.
func (a Action) Valid() bool {
	return a == Debit || a == Credit
}

// Opposite returns the other side.
func (a Action) Opposite() Action {
	if a == Debit {
		return Credit
	}
	return Debit
}

// ParseAction converts "DEBIT"/"CREDIT" into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
	return a, nil
}

// Entry binds an account to a signed movement of a quantity.
type Entry struct {
	Account   AccountReference
	Action    Action
	Amount    Quantity
	MayBeZero bool
}

// EntryOption configures NewEntry.
type EntryOption func(*Entry)

// MayBeZero allows the entry amount to be zero. Such entries are dropped
// before the balance check when their amount is exactly zero.
func MayBeZero() EntryOption {
	return func(e *Entry) {
		e.MayBeZero = true
	}
}

// NewEntry creates an entry. The amount must be positive unless MayBeZero is given.
func NewEntry(account AccountReference, action Action, amount Quantity, opts ...EntryOption) (Entry, error) {
	e := Entry{
		Account: account,
		Action:  action,
		Amount:  amount,
	}
	for _, opt := range opts {
		opt(&e)
	}

	if err := e.validate(); err != nil {
		return Entry{}, err
	}

	return e, nil
}

func (e Entry) validate() error {
	if err := e.validateShape(); err != nil {
		return err
	}

	if e.Amount.IsZero() && !e.MayBeZero {
		return e.zeroAmountError()
	}

	return nil
}

// validateShape checks everything but the zero-amount rule.
func (e Entry) validateShape() error {
	if e.Account.IsZero() {
		return fmt.Errorf("%w: entry account is not set", ErrInvalidName)
	}

	if !e.Action.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, e.Action)
	}

	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: entry amount must be positive, got %s", ErrInvalidAmount, e.Amount.Serialize())
	}

	return nil
}

func (e Entry) zeroAmountError() error {
	return fmt.Errorf("%w: entry amount must be positive, got %s", ErrInvalidAmount, e.Amount.Serialize())
}

// DebitEntry is NewEntry with the DEBIT action.
func DebitEntry(account AccountReference, amount Quantity, opts ...EntryOption) (Entry, error) {
	return NewEntry(account, Debit, amount, opts...)
}

// CreditEntry is NewEntry with the CREDIT action.
func CreditEntry(account AccountReference, amount Quantity, opts ...EntryOption) (Entry, error) {
	return NewEntry(account, Credit, amount, opts...)
}

// droppable reports whether the entry is structurally present but economically empty.
func (e Entry) droppable() bool {
	return e.MayBeZero && e.Amount.IsZero()
}
