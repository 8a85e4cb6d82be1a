package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPositiveOverrun(t *testing.T) {
	require.True(t, PositiveOverrun(d("1500"), d("1000")).Equal(d("500")))
	require.True(t, PositiveOverrun(d("900"), d("1000")).IsZero())
	require.True(t, PositiveOverrun(d("1000"), d("1000")).IsZero())
}

func TestClampedRemaining(t *testing.T) {
	require.True(t, ClampedRemaining(d("1000"), d("250.50")).Equal(d("749.50")))
	require.True(t, ClampedRemaining(d("1000"), d("1200")).IsZero())
}

func TestDiffSignConvention(t *testing.T) {
	require.True(t, Diff(d("1200"), d("1000")).Equal(d("200")))
	require.True(t, Diff(d("1000"), d("1500")).Equal(d("-500")))
}

func TestSumCoalescesNulls(t *testing.T) {
	total := Sum(Some(d("10.25")), Null(), Some(d("4.75")))
	require.True(t, total.Equal(d("15")))
	require.True(t, Sum().IsZero())
}

func TestNullIfZero(t *testing.T) {
	require.False(t, NullIfZero(decimal.Zero).Valid)
	v := NullIfZero(d("0.01"))
	require.True(t, v.Valid)
	require.True(t, v.Decimal.Equal(d("0.01")))
}

func TestCompareNull(t *testing.T) {
	require.Equal(t, 0, CompareNull(Null(), Null()))
	require.Equal(t, -1, CompareNull(Null(), Some(d("1"))))
	require.Equal(t, 1, CompareNull(Some(d("-5")), Null()))
	require.Equal(t, -1, CompareNull(Some(d("1")), Some(d("2"))))
}

func TestAtLeast(t *testing.T) {
	require.True(t, AtLeast(Null(), Null()))
	require.False(t, AtLeast(Null(), Some(d("1"))))
	require.True(t, AtLeast(Some(d("100")), Some(d("100"))))
	require.False(t, AtLeast(Some(d("99.99")), Some(d("100"))))
}

func TestCurrency(t *testing.T) {
	require.Equal(t, "USD", NormalizeCurrency(""))
	require.Equal(t, "EUR", NormalizeCurrency(" eur "))
	require.True(t, IsDefaultCurrency("usd"))
	require.True(t, KnownCurrency("JPY"))
	require.False(t, KnownCurrency("ZZZ"))
}

func TestFormat(t *testing.T) {
	require.Equal(t, "", Format(Null(), "USD"))
	require.Equal(t, "1000.00", Format(Some(d("1000")), "USD"))
	require.Equal(t, "1000", Format(Some(d("1000.4")), "JPY"))
	require.Equal(t, "-500.50", FormatDecimal(d("-500.5"), ""))
}
