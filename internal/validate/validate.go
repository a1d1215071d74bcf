// Package validate contains the pure input checks performed before any
// network call is attempted. Nothing in this package performs I/O.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrMissingField is returned when a required field is absent or blank.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidAddress is returned when a value is not a plausible email address.
	ErrInvalidAddress = errors.New("invalid email address")
	// ErrInvalidInstant indicates a schedule value could not be parsed as RFC3339.
	ErrInvalidInstant = errors.New("invalid timestamp")
	// ErrPastInstant indicates a schedule value is not strictly in the future.
	ErrPastInstant = errors.New("scheduled time must be in the future")
)

// addressPattern is deliberately loose: non-whitespace local part, a single
// @, and a domain containing at least one dot. No DNS or mailbox checks.
var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidAddress reports whether value looks like local@domain.tld.
func ValidAddress(value string) bool {
	return addressPattern.MatchString(value)
}

// Address validates a single address and names the field on failure.
func Address(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	if !ValidAddress(value) {
		return fmt.Errorf("%w: %s: %q", ErrInvalidAddress, field, value)
	}
	return nil
}

// AddressField validates a list-valued address field. The list must be
// non-empty and every element must be a valid address; failures name the
// field and the offending element.
func AddressField(field string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	for idx, addr := range values {
		if !ValidAddress(addr) {
			return fmt.Errorf("%w: %s[%d]: %q", ErrInvalidAddress, field, idx, addr)
		}
	}
	return nil
}

// ParseInstant resolves a schedule value supplied either as a typed instant
// or as an RFC3339 string. It does not constrain the instant to the future.
func ParseInstant(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("%w: value is nil", ErrInvalidInstant)
		}
		return *v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, fmt.Errorf("%w: value is empty", ErrInvalidInstant)
		}
		ts, err := time.Parse(time.RFC3339Nano, trimmed)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInstant, err)
		}
		return ts, nil
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidInstant, value)
	}
}

// FutureInstant resolves a schedule value like ParseInstant and additionally
// requires it to be strictly after now. An instant equal to now fails.
func FutureInstant(value any, now time.Time) (time.Time, error) {
	ts, err := ParseInstant(value)
	if err != nil {
		return time.Time{}, err
	}
	if !ts.After(now) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrPastInstant, ts.Format(time.RFC3339))
	}
	return ts, nil
}

// Identifier validates an email identifier and names the field on failure.
func Identifier(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	return nil
}

// IdentifierList validates a non-empty list of email identifiers; failures
// name the offending element.
func IdentifierList(field string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	for idx, id := range values {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: %s[%d]", ErrMissingField, field, idx)
		}
	}
	return nil
}
