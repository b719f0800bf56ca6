package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrMemoTooLong     = errors.New("memo exceeds maximum length")
	ErrInvalidIDFormat = errors.New("invalid ID format")
	ErrTooManyLineIDs  = errors.New("too many line IDs")
)

// Validation constants
const (
	MaxMemoLength        = 512
	MaxLinesPerOperation = 1000
	MaxIDLength          = 64
)

var (
	currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	idRegex           = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateCurrencyCode validates an ISO 4217 style currency code
func ValidateCurrencyCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q is not a three-letter currency code", ErrInvalidCurrency, code)
	}

	return nil
}

// ValidateMemo validates a payment memo
func ValidateMemo(memo string) error {
	if len(memo) > MaxMemoLength {
		return fmt.Errorf("%w: %d characters", ErrMemoTooLong, MaxMemoLength)
	}

	return nil
}

// ValidateID validates an entity identifier
func ValidateID(id string) error {
	if id == "" || len(id) > MaxIDLength || !idRegex.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}

	return nil
}

// ValidateLineIDs validates a batch of line identifiers
func ValidateLineIDs(ids []string) error {
	if len(ids) > MaxLinesPerOperation {
		return fmt.Errorf("%w: limit is %d", ErrTooManyLineIDs, MaxLinesPerOperation)
	}

	for _, id := range ids {
		if err := ValidateID(id); err != nil {
			return err
		}
	}

	return nil
}
