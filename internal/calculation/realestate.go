package calculation

import (
	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	monthsPerYear      = decimal.NewFromInt(12)
	sellingCostFactor  = decimal.NewFromFloat(0.95)
	exclusionCapMFJ    = decimal.NewFromInt(500000)
	exclusionCapSingle = decimal.NewFromInt(250000)
)

// Depreciable lives in years for straight-line depreciation.
var (
	residentialLife = decimal.NewFromFloat(27.5)
	commercialLife  = decimal.NewFromInt(39)
)

// MortgageYear is one year of level-payment amortization.
type MortgageYear struct {
	InterestPaid  decimal.Decimal
	PrincipalPaid decimal.Decimal
	EndingBalance decimal.Decimal
}

// AmortizeYear advances a mortgage by twelve monthly payments. The payment
// is the level payment for the remaining term; an interest-only loan pays
// interest with no principal reduction.
func AmortizeYear(balance, annualRate decimal.Decimal, remainingYears int, interestOnly bool) MortgageYear {
	if balance.LessThanOrEqual(decimal.Zero) {
		return MortgageYear{EndingBalance: decimal.Zero}
	}

	monthlyRate := annualRate.Div(monthsPerYear)

	if interestOnly {
		interest := balance.Mul(monthlyRate).Mul(monthsPerYear)
		return MortgageYear{InterestPaid: interest, EndingBalance: balance}
	}

	if remainingYears <= 0 {
		// Term exhausted: retire whatever balance remains.
		return MortgageYear{PrincipalPaid: balance, EndingBalance: decimal.Zero}
	}

	payment := levelPayment(balance, monthlyRate, remainingYears*12)

	var year MortgageYear
	year.EndingBalance = balance
	for month := 0; month < 12; month++ {
		if year.EndingBalance.LessThanOrEqual(decimal.Zero) {
			break
		}
		interest := year.EndingBalance.Mul(monthlyRate)
		principal := payment.Sub(interest)
		if principal.GreaterThan(year.EndingBalance) {
			principal = year.EndingBalance
		}
		year.InterestPaid = year.InterestPaid.Add(interest)
		year.PrincipalPaid = year.PrincipalPaid.Add(principal)
		year.EndingBalance = year.EndingBalance.Sub(principal)
	}
	return year
}

// levelPayment computes the standard amortization payment for a balance over
// n monthly periods at the given monthly rate.
func levelPayment(balance, monthlyRate decimal.Decimal, periods int) decimal.Decimal {
	n := decimal.NewFromInt(int64(periods))
	if monthlyRate.IsZero() {
		return balance.Div(n)
	}
	growth := decimal.NewFromInt(1).Add(monthlyRate).Pow(n)
	return balance.Mul(monthlyRate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
}

// AnnualDepreciation returns the straight-line deduction for a calendar
// year given the depreciation already taken, or zero when the property does
// not depreciate, has not reached its depreciation start year, or is fully
// depreciated.
func AnnualDepreciation(details *domain.RealEstateDetails, accumulated decimal.Decimal, year int) decimal.Decimal {
	if details.DepreciationMethod == domain.DepreciationNone || details.DepreciationMethod == "" {
		return decimal.Zero
	}
	if details.DepreciationStartYear != 0 && year < details.DepreciationStartYear {
		return decimal.Zero
	}
	if details.Classification == domain.PropertyPrimary {
		return decimal.Zero
	}

	basis := details.PurchasePrice.Sub(details.LandValue)
	if basis.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	life := residentialLife
	if details.DepreciationMethod == domain.DepreciationCommercial {
		life = commercialLife
	}

	annual := basis.Div(life)
	remaining := basis.Sub(accumulated)
	if remaining.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return decimal.Min(annual, remaining)
}

// PropertySaleInput describes a hypothetical sale of a property at a given
// age under a scenario's filing status.
type PropertySaleInput struct {
	MarketValue             decimal.Decimal
	AppreciationRate        decimal.Decimal
	MortgageBalance         decimal.Decimal
	PurchasePrice           decimal.Decimal
	AccumulatedDepreciation decimal.Decimal
	Classification          domain.PropertyClass
	OccupancyStartAge       int
	OccupancyEndAge         int
	SaleAge                 int
	FilingStatus            domain.FilingStatus
}

// PropertySaleResult splits sale proceeds by tax character.
//
// CashProceeds always equals RecaptureIncome + CapitalGain + ExemptGain +
// ReturnOfBasis; ReturnOfBasis may be negative when the mortgage balance
// exceeds the untaxed remainder of the proceeds.
type PropertySaleResult struct {
	SalePrice       decimal.Decimal
	NetProceeds     decimal.Decimal
	CashProceeds    decimal.Decimal
	RecaptureIncome decimal.Decimal
	CapitalGain     decimal.Decimal
	ExemptGain      decimal.Decimal
	ReturnOfBasis   decimal.Decimal
}

// CalculatePropertySale models selling a property one year out, after one
// more year of appreciation, with 5% selling costs.
//
// A primary residence that satisfies the two-of-five-year occupancy test
// excludes gain up to the filing-status cap and pays no depreciation
// recapture. All other sales recapture accumulated depreciation as ordinary
// income and treat the remaining gain as long-term capital gain.
func CalculatePropertySale(input PropertySaleInput) PropertySaleResult {
	var result PropertySaleResult

	one := decimal.NewFromInt(1)
	result.SalePrice = input.MarketValue.Mul(one.Add(input.AppreciationRate))
	result.NetProceeds = result.SalePrice.Mul(sellingCostFactor)
	result.CashProceeds = result.NetProceeds.Sub(input.MortgageBalance)

	adjustedBasis := input.PurchasePrice.Sub(input.AccumulatedDepreciation)
	gain := result.NetProceeds.Sub(adjustedBasis)
	if gain.LessThan(decimal.Zero) {
		gain = decimal.Zero
	}

	if input.Classification == domain.PropertyPrimary && meetsOccupancyTest(input) {
		exclusionCap := exclusionCapSingle
		if input.FilingStatus == domain.FilingMarriedJointly {
			exclusionCap = exclusionCapMFJ
		}
		result.ExemptGain = decimal.Min(gain, exclusionCap)
		result.CapitalGain = gain.Sub(result.ExemptGain)
	} else {
		result.RecaptureIncome = decimal.Min(input.AccumulatedDepreciation, gain)
		result.CapitalGain = gain.Sub(result.RecaptureIncome)
	}

	result.ReturnOfBasis = result.CashProceeds.
		Sub(result.RecaptureIncome).Sub(result.CapitalGain).Sub(result.ExemptGain)
	return result
}

// meetsOccupancyTest reports whether the owner occupied the property for at
// least two of the five years ending at the sale age.
func meetsOccupancyTest(input PropertySaleInput) bool {
	windowStart := input.SaleAge - 5
	windowEnd := input.SaleAge

	occStart := input.OccupancyStartAge
	occEnd := input.OccupancyEndAge
	if occEnd == 0 || occEnd > windowEnd {
		occEnd = windowEnd
	}
	if occStart < windowStart {
		occStart = windowStart
	}
	return occEnd-occStart >= 2
}
