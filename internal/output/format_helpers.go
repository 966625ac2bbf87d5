package output

import (
	"github.com/shopspring/decimal"

	moneydec "github.com/nwgo/networth-calculator/pkg/decimal"
)

// FormatCurrency formats a decimal as USD with thousands separators.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return moneydec.NewMoneyFromDecimal(amount).String()
}

// FormatPercentage formats a fractional rate as a percentage with 2 decimals.
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// seriesAt indexes a start-aligned per-year series, treating years past its
// end as zero (a sold property stops producing rental rows, for example).
func seriesAt(series []decimal.Decimal, yearIndex int) string {
	if yearIndex < 0 || yearIndex >= len(series) {
		return decimal.Zero.StringFixed(2)
	}
	return series[yearIndex].StringFixed(2)
}
