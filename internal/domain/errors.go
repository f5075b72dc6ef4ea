package domain

import (
	"errors"
	"fmt"
)

var (
	// Validation errors
	ErrInvalidName       = errors.New("invalid name")
	ErrReservedPrefix    = errors.New("reserved prefix")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidUnitCode   = errors.New("invalid unit code")
	ErrInvalidExternalID = errors.New("invalid external id")
	ErrInvalidLedgerSlug = errors.New("invalid ledger slug")
	ErrInvalidAction     = errors.New("invalid entry action")
	ErrDivisionByZero    = errors.New("division by zero")

	// Balance invariant errors
	ErrEmptyEntries     = errors.New("Operations array must not be empty")
	ErrMixedActions     = errors.New("All operations must be of the same type")
	ErrCurrencyMismatch = errors.New("All operations must be of the same currency")
	ErrZeroSum          = errors.New("Operations must not sum to zero")
	ErrUnbalanced       = errors.New("debit and credit sums are not equal")
	ErrWrongSide        = errors.New("entry group is on the wrong side of the double entry")
	ErrMixedLedgers     = errors.New("All entries must belong to the same ledger")
	ErrEmptyTransaction = errors.New("transaction must contain at least one double entry")

	// Not found errors
	ErrNotFound            = errors.New("not found")
	ErrLedgerNotFound      = notFound("ledger")
	ErrCurrencyNotFound    = notFound("currency")
	ErrAccountTypeNotFound = notFound("account type")
	ErrAccountNotFound     = notFound("account")
	ErrTransactionNotFound = notFound("transaction")

	// Conflict errors
	ErrAlreadyExists            = errors.New("already exists")
	ErrNormalBalanceMismatch    = errors.New("account type must share the normal balance of its parent")
	ErrAccountTypeNotRegistered = errors.New("account type is not registered for this ledger")
	ErrNotEntityAccountType     = errors.New("account type does not allow entity accounts")

	// ErrUnexpected marks a broken internal invariant rather than bad input.
	ErrUnexpected = errors.New("unexpected error")
)

// notFoundError is a resource-specific not-found error that also matches ErrNotFound.
type notFoundError struct {
	resource string
}

func notFound(resource string) error {
	return &notFoundError{resource: resource}
}

func (e *notFoundError) Error() string {
	return e.resource + " not found"
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UnbalancedError is returned when the debit and credit sides of a double entry differ.
type UnbalancedError struct {
	DebitSum  Quantity
	CreditSum Quantity
	Dump      string
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("debit sum %s does not equal credit sum %s\n%s",
		e.DebitSum.Serialize(), e.CreditSum.Serialize(), e.Dump)
}

func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalanced
}
