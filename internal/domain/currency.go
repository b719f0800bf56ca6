package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a currency code together with its rounding unit.
type Currency struct {
	Code     string          `json:"code"`
	Rounding decimal.Decimal `json:"rounding"`
}

// NewCurrency builds a Currency, rejecting empty codes and non-positive rounding units.
func NewCurrency(code string, rounding decimal.Decimal) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Currency{}, fmt.Errorf("%w: empty code", ErrInvalidCurrency)
	}
	if !rounding.IsPositive() {
		return Currency{}, fmt.Errorf("%w: rounding for %s must be positive", ErrInvalidCurrency, code)
	}

	return Currency{Code: code, Rounding: rounding}, nil
}

// Round rounds x to the nearest multiple of the rounding unit, half away from zero.
func (c Currency) Round(x decimal.Decimal) decimal.Decimal {
	if !c.Rounding.IsPositive() {
		return x
	}

	return x.DivRound(c.Rounding, 16).Round(0).Mul(c.Rounding)
}

// IsZero reports whether x rounds to zero.
func (c Currency) IsZero(x decimal.Decimal) bool {
	return c.Round(x).IsZero()
}

// Compare compares a and b at the currency's precision.
func (c Currency) Compare(a, b decimal.Decimal) int {
	return c.Round(a.Sub(b)).Sign()
}

// Matches reports whether code names this currency.
func (c Currency) Matches(code string) bool {
	return strings.EqualFold(code, c.Code)
}
