package calculation

import (
	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// GrowHolding advances one holding by a year of market movement. Cash does
// not grow. Equity accounts compound at return minus fees. Securities and
// property appreciate; property additionally amortizes its mortgage and
// accrues the year's depreciation, which the caller has already recognized
// against rental income.
func GrowHolding(hs *HoldingState, depreciation decimal.Decimal) MortgageYear {
	if hs.Sold {
		return MortgageYear{}
	}

	switch hs.Holding.Kind {
	case domain.KindEquityAccount:
		if hs.Holding.EquityAccount != nil {
			net := hs.Holding.EquityAccount.ExpectedReturnRate.Sub(hs.Holding.EquityAccount.FeeRate)
			hs.AccountBalance = hs.AccountBalance.Mul(one.Add(net))
		}

	case domain.KindSecurity:
		if hs.Holding.Security != nil {
			hs.Price = hs.Price.Mul(one.Add(hs.Holding.Security.AppreciationRate))
		}

	case domain.KindRealEstate:
		if hs.Holding.RealEstate != nil {
			details := hs.Holding.RealEstate
			hs.PropertyValue = hs.PropertyValue.Mul(one.Add(details.AppreciationRate))

			mortgage := AmortizeYear(hs.MortgageBalance, details.MortgageRate, hs.MortgageYearsRemaining, details.InterestOnly)
			hs.MortgageBalance = mortgage.EndingBalance
			if !details.InterestOnly && hs.MortgageYearsRemaining > 0 {
				hs.MortgageYearsRemaining--
			}

			hs.AccumDepreciation = hs.AccumDepreciation.Add(depreciation)
			return mortgage
		}
	}
	return MortgageYear{}
}
