package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid money amount")
)

// DollarsToCents converts a dollar value (like 15.99) to cents as int64.
// Upstream feeds report amounts as JSON numbers; going through decimal avoids
// float drift on the cent boundary (15.99 must become 1599, never 1598).
func DollarsToCents(dollars float64) (int64, error) {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow: int64 max ~9e18 => dollars max ~9e16
	if dollars > 9e16 || dollars < -9e16 {
		return 0, fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	return decimal.NewFromFloat(dollars).Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// CentsToDollars converts stored cents back to a dollar value for scoring and
// API responses.
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100.0
}

// FormatCents renders cents as a plain 123.45 style string without float math.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
