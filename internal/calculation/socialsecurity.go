package calculation

import (
	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Provisional income thresholds for Social Security benefit taxation.
// These are statutory and have never been indexed for inflation.
var ssThresholds = map[domain.FilingStatus]struct {
	tier1 decimal.Decimal
	tier2 decimal.Decimal
}{
	domain.FilingMarriedJointly:  {decimal.NewFromInt(32000), decimal.NewFromInt(44000)},
	domain.FilingSingle:          {decimal.NewFromInt(25000), decimal.NewFromInt(34000)},
	domain.FilingHeadOfHousehold: {decimal.NewFromInt(25000), decimal.NewFromInt(34000)},
}

// CombinedIncome computes the income measure used for benefit taxation:
// non-benefit taxable income plus half the benefit. Tax-exempt income is
// excluded from the measure.
func CombinedIncome(otherTaxableIncome, ssBenefit decimal.Decimal) decimal.Decimal {
	half := ssBenefit.Div(decimal.NewFromInt(2))
	return otherTaxableIncome.Add(half)
}

// TaxableSocialSecurity returns the portion of the annual benefit that is
// included in ordinary income. Married filing separately taxes 85% of the
// benefit regardless of income level.
func TaxableSocialSecurity(ssBenefit, otherTaxableIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if ssBenefit.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	pct50 := decimal.NewFromFloat(0.5)
	pct85 := decimal.NewFromFloat(0.85)
	cap85 := ssBenefit.Mul(pct85)

	if status == domain.FilingMarriedSeparately {
		return cap85
	}

	thresholds, ok := ssThresholds[status]
	if !ok {
		return cap85
	}

	combined := CombinedIncome(otherTaxableIncome, ssBenefit)

	if combined.LessThanOrEqual(thresholds.tier1) {
		return decimal.Zero
	}

	if combined.LessThanOrEqual(thresholds.tier2) {
		taxable := combined.Sub(thresholds.tier1).Mul(pct50)
		return decimal.Min(taxable, ssBenefit.Mul(pct50))
	}

	// Above the second threshold: 85% of the excess plus the tier-1 amount,
	// capped at 85% of the benefit.
	tier1Amount := decimal.Min(
		thresholds.tier2.Sub(thresholds.tier1).Mul(pct50),
		ssBenefit.Mul(pct50),
	)
	taxable := combined.Sub(thresholds.tier2).Mul(pct85).Add(tier1Amount)
	return decimal.Min(taxable, cap85)
}
