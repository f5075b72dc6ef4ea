package domain

import "fmt"

// AccountKind tags the two account reference variants.
type AccountKind string

const (
	// AccountKindSystem is a preset account provisioned by an administrator.
	AccountKindSystem AccountKind = "SYSTEM"
	// AccountKindEntity is provisioned on first use for an external identifier.
	AccountKindEntity AccountKind = "ENTITY"
)

// AccountReference identifies an account slot within a ledger.
// It never carries a database identity.
type AccountReference struct {
	kind        AccountKind
	ledgerSlug  string
	accountSlug string
	name        string
	externalID  string
	prefix      string
}

// NewSystemAccount references a preset account. Its slug is the name itself.
func NewSystemAccount(ledgerSlug, name string) (AccountReference, error) {
	if err := ValidateLedgerSlug(ledgerSlug); err != nil {
		return AccountReference{}, err
	}

	if err := ValidateName(name); err != nil {
		return AccountReference{}, err
	}

	return AccountReference{
		kind:        AccountKindSystem,
		ledgerSlug:  ledgerSlug,
		accountSlug: name,
		name:        name,
	}, nil
}

// EntityOption configures NewEntityAccount.
type EntityOption func(*AccountReference)

// WithPrefix overrides the default "ENTITY" prefix.
func WithPrefix(prefix string) EntityOption {
	return func(r *AccountReference) {
		r.prefix = prefix
	}
}

// NewEntityAccount references a per-entity account whose slug is
// "{prefix}_{name}:{externalID}".
func NewEntityAccount(ledgerSlug, name, externalID string, opts ...EntityOption) (AccountReference, error) {
	ref := AccountReference{
		kind:       AccountKindEntity,
		ledgerSlug: ledgerSlug,
		name:       name,
		externalID: externalID,
		prefix:     DefaultEntityPrefix,
	}
	for _, opt := range opts {
		opt(&ref)
	}

	if err := ValidateLedgerSlug(ledgerSlug); err != nil {
		return AccountReference{}, err
	}

	if err := ValidateName(name); err != nil {
		return AccountReference{}, err
	}

	if err := ValidatePrefix(ref.prefix); err != nil {
		return AccountReference{}, err
	}

	if ref.prefix == ReservedPrefix {
		return AccountReference{}, fmt.Errorf("%w: %q cannot be used for entity accounts", ErrReservedPrefix, ref.prefix)
	}

	if err := ValidateExternalID(externalID); err != nil {
		return AccountReference{}, err
	}

	ref.accountSlug = fmt.Sprintf("%s_%s:%s", ref.prefix, name, externalID)

	return ref, nil
}

func (r AccountReference) Kind() AccountKind   { return r.kind }
func (r AccountReference) LedgerSlug() string  { return r.ledgerSlug }
func (r AccountReference) AccountSlug() string { return r.accountSlug }
func (r AccountReference) Name() string        { return r.name }

// ExternalID is empty for system accounts.
func (r AccountReference) ExternalID() string { return r.externalID }

// Prefix is empty for system accounts.
func (r AccountReference) Prefix() string { return r.prefix }

// IsZero reports whether r is the zero value rather than a constructed reference.
func (r AccountReference) IsZero() bool { return r.kind == "" }

// String returns "{ledgerSlug}/{accountSlug}".
func (r AccountReference) String() string {
	return r.ledgerSlug + "/" + r.accountSlug
}
