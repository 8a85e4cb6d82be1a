// Package money holds the variance arithmetic shared by every cost report.
//
// Line-item sums coalesce null amounts to zero. A contract value that is
// null means "not applicable" and must never be coalesced.
package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a contract carries no currency code.
const DefaultCurrency = "USD"

// Diff returns a - b.
func Diff(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b)
}

// PositiveOverrun returns max(0, actual - planned).
func PositiveOverrun(actual, planned decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, actual.Sub(planned))
}

// ClampedRemaining returns max(0, target - consumed).
func ClampedRemaining(target, consumed decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, target.Sub(consumed))
}

// Sum adds line-item amounts, treating null amounts as zero.
func Sum(amounts ...decimal.NullDecimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		if amount.Valid {
			total = total.Add(amount.Decimal)
		}
	}
	return total
}

// Null returns the "not applicable" amount.
func Null() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// Some wraps a known amount.
func Some(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

// NullIfZero surfaces an exactly-zero amount as null.
func NullIfZero(d decimal.Decimal) decimal.NullDecimal {
	if d.IsZero() {
		return Null()
	}
	return Some(d)
}

// CompareNull orders amounts ascending with null before any value.
func CompareNull(a, b decimal.NullDecimal) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	default:
		return a.Decimal.Cmp(b.Decimal)
	}
}

// AtLeast reports whether amount is known and >= min. A null min always passes.
func AtLeast(amount, min decimal.NullDecimal) bool {
	if !min.Valid {
		return true
	}
	return amount.Valid && amount.Decimal.GreaterThanOrEqual(min.Decimal)
}

// NormalizeCurrency upper-cases a currency code and falls back to the default.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// IsDefaultCurrency reports whether code resolves to the default currency.
func IsDefaultCurrency(code string) bool {
	return NormalizeCurrency(code) == DefaultCurrency
}

// KnownCurrency reports whether code is an ISO currency go-money recognizes.
func KnownCurrency(code string) bool {
	return gomoney.GetCurrency(NormalizeCurrency(code)) != nil
}

// Format renders an amount with the currency's minor-unit precision.
// Null amounts render as the empty string.
func Format(amount decimal.NullDecimal, currency string) string {
	if !amount.Valid {
		return ""
	}
	return FormatDecimal(amount.Decimal, currency)
}

// FormatDecimal renders a known amount with the currency's minor-unit precision.
func FormatDecimal(amount decimal.Decimal, currency string) string {
	// money.New registers unknown codes so Currency() never returns nil.
	cur := gomoney.New(0, NormalizeCurrency(currency)).Currency()
	return amount.StringFixed(int32(cur.Fraction))
}
