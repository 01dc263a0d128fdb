package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var maxPriceCents = decimal.NewFromInt(1 << 53)

// ParsePrice converts a decimal amount such as "10.5" into cents. More than
// two fractional digits or negative amounts are rejected.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrValidation, s)
	}
	return PriceFromDecimal(d)
}

func PriceFromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: price has more than two decimal places", ErrValidation)
	}
	if cents.GreaterThan(maxPriceCents) {
		return 0, fmt.Errorf("%w: price is too large", ErrValidation)
	}
	return cents.IntPart(), nil
}

// FormatCents renders cents as a fixed two-decimal string.
func FormatCents(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}

func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
