package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	DefaultEntityPrefix  = "ENTITY"
	ReservedPrefix       = "SYSTEM"
	MinNameLength        = 2
	MaxNameLength        = 128
	MaxExternalIDLength  = 255
	MaxLedgerSlugLength  = 128
	MaxDescriptionLength = 1024
)

// Uppercase words separated by single underscores.
var nameRegex = regexp.MustCompile(`^[A-Z]+(_[A-Z]+)*$`)

var ledgerSlugRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*[A-Z0-9]$`)

// ValidateName validates an account or account type name.
func ValidateName(name string) error {
	return validateWord("name", name)
}

// ValidatePrefix validates an entity account prefix.
func ValidatePrefix(prefix string) error {
	return validateWord("prefix", prefix)
}

func validateWord(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidName, field)
	}

	if len(value) < MinNameLength || len(value) > MaxNameLength {
		return fmt.Errorf("%w: %s %q must be between %d and %d characters",
			ErrInvalidName, field, value, MinNameLength, MaxNameLength)
	}

	if !nameRegex.MatchString(value) {
		return fmt.Errorf("%w: %s %q must be uppercase words separated by single underscores",
			ErrInvalidName, field, value)
	}

	return nil
}

// ValidateExternalID validates the external identifier of an entity account.
func ValidateExternalID(externalID string) error {
	if strings.TrimSpace(externalID) == "" {
		return fmt.Errorf("%w: external id cannot be empty", ErrInvalidExternalID)
	}

	if len(externalID) > MaxExternalIDLength {
		return fmt.Errorf("%w: external id exceeds %d characters", ErrInvalidExternalID, MaxExternalIDLength)
	}

	if strings.ContainsAny(externalID, ": \t\n") {
		return fmt.Errorf("%w: external id %q contains a separator or whitespace", ErrInvalidExternalID, externalID)
	}

	return nil
}

// ValidateLedgerSlug validates a ledger slug such as "PLATFORM_USD".
func ValidateLedgerSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("%w: ledger slug cannot be empty", ErrInvalidLedgerSlug)
	}

	if len(slug) > MaxLedgerSlugLength || !ledgerSlugRegex.MatchString(slug) {
		return fmt.Errorf("%w: %q", ErrInvalidLedgerSlug, slug)
	}

	return nil
}

// ValidateDescription validates free-form descriptions and comments.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidName, MaxDescriptionLength)
	}

	return nil
}
