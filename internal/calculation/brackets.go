package calculation

import (
	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ApplyBrackets computes progressive tax on a taxable amount. Brackets must
// be in ascending threshold order with an unbounded (nil UpTo) top band.
// Amounts at or below zero owe nothing.
func ApplyBrackets(taxable decimal.Decimal, table domain.TaxTable) decimal.Decimal {
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tax := decimal.Zero
	previousUpTo := decimal.Zero

	for _, bracket := range table.Brackets {
		if taxable.LessThanOrEqual(previousUpTo) {
			break
		}

		var incomeInBracket decimal.Decimal
		if bracket.UpTo == nil {
			incomeInBracket = taxable.Sub(previousUpTo)
		} else {
			incomeInBracket = decimal.Min(*bracket.UpTo, taxable).Sub(previousUpTo)
		}

		if incomeInBracket.GreaterThan(decimal.Zero) {
			tax = tax.Add(incomeInBracket.Mul(bracket.Rate))
		}

		if bracket.UpTo == nil {
			break
		}
		previousUpTo = *bracket.UpTo
	}

	return tax
}

// IndexTable rescales a table's thresholds and standard deduction from its
// base year to a target year at (1+rate)^(target-base). Rates are never
// rescaled. The constant-nominal policy and a zero year gap are no-ops.
func IndexTable(base domain.TaxTable, yearBase, targetYear int, rate decimal.Decimal) domain.TaxTable {
	years := targetYear - yearBase
	if years == 0 || rate.IsZero() {
		return base
	}

	multiplier := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(years)))

	adjusted := domain.TaxTable{
		StandardDeduction: base.StandardDeduction.Mul(multiplier),
		Brackets:          make([]domain.TaxBracket, len(base.Brackets)),
	}
	for i, b := range base.Brackets {
		nb := domain.TaxBracket{Rate: b.Rate}
		if b.UpTo != nil {
			upTo := b.UpTo.Mul(multiplier)
			nb.UpTo = &upTo
		}
		adjusted.Brackets[i] = nb
	}
	return adjusted
}
