package calculation

import (
	"testing"

	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmortizeYearZeroRate(t *testing.T) {
	// No interest: a 30-year loan repays 1/30th of principal each year.
	year := AmortizeYear(decimal.NewFromInt(360000), decimal.Zero, 30, false)
	assert.True(t, year.InterestPaid.IsZero())
	assert.True(t, year.PrincipalPaid.Equal(decimal.NewFromInt(12000)),
		"got %s", year.PrincipalPaid.String())
	assert.True(t, year.EndingBalance.Equal(decimal.NewFromInt(348000)))
}

func TestAmortizeYearInterestOnly(t *testing.T) {
	year := AmortizeYear(decimal.NewFromInt(200000), decimal.NewFromFloat(0.06), 30, true)
	assert.True(t, year.PrincipalPaid.IsZero())
	assert.True(t, year.EndingBalance.Equal(decimal.NewFromInt(200000)))
	assert.True(t, year.InterestPaid.Equal(decimal.NewFromInt(12000))) // 200000 * 0.06
}

func TestAmortizeYearLevelPayment(t *testing.T) {
	balance := decimal.NewFromInt(500000)
	rate := decimal.NewFromFloat(0.045)

	year := AmortizeYear(balance, rate, 30, false)

	// Monthly payment on 500k @ 4.5%/30y is about $2533.43, so roughly
	// $30.4k paid in year one, most of it interest.
	paid := year.InterestPaid.Add(year.PrincipalPaid)
	assert.True(t, paid.Sub(decimal.NewFromFloat(30401.16)).Abs().LessThan(decimal.NewFromInt(5)),
		"total paid %s", paid.String())
	assert.True(t, year.InterestPaid.GreaterThan(year.PrincipalPaid))
	assert.True(t, year.EndingBalance.Equal(balance.Sub(year.PrincipalPaid)))
}

func TestAmortizeFullTermRetiresLoan(t *testing.T) {
	balance := decimal.NewFromInt(300000)
	rate := decimal.NewFromFloat(0.05)

	for remaining := 30; remaining >= 1; remaining-- {
		year := AmortizeYear(balance, rate, remaining, false)
		balance = year.EndingBalance
	}
	assert.True(t, balance.Abs().LessThan(decimal.NewFromInt(1)),
		"balance after full term: %s", balance.String())
}

func TestAmortizeExhaustedTerm(t *testing.T) {
	year := AmortizeYear(decimal.NewFromInt(50000), decimal.NewFromFloat(0.04), 0, false)
	assert.True(t, year.EndingBalance.IsZero())
	assert.True(t, year.PrincipalPaid.Equal(decimal.NewFromInt(50000)))
}

func TestAnnualDepreciation(t *testing.T) {
	residential := &domain.RealEstateDetails{
		PurchasePrice:      decimal.NewFromInt(480000),
		LandValue:          decimal.NewFromInt(120000),
		DepreciationMethod: domain.DepreciationResidential,
		Classification:     domain.PropertyRental,
	}

	t.Run("Residential straight line over 27.5 years", func(t *testing.T) {
		got := AnnualDepreciation(residential, decimal.Zero, 2024)
		expected := decimal.NewFromInt(360000).Div(decimal.NewFromFloat(27.5))
		assert.True(t, got.Equal(expected), "got %s", got.String())
	})

	t.Run("Commercial uses 39 years", func(t *testing.T) {
		commercial := *residential
		commercial.DepreciationMethod = domain.DepreciationCommercial
		got := AnnualDepreciation(&commercial, decimal.Zero, 2024)
		expected := decimal.NewFromInt(360000).Div(decimal.NewFromInt(39))
		assert.True(t, got.Equal(expected), "got %s", got.String())
	})

	t.Run("Capped at remaining basis", func(t *testing.T) {
		almostDone := decimal.NewFromInt(359000)
		got := AnnualDepreciation(residential, almostDone, 2024)
		assert.True(t, got.Equal(decimal.NewFromInt(1000)), "got %s", got.String())
	})

	t.Run("Fully depreciated yields zero", func(t *testing.T) {
		got := AnnualDepreciation(residential, decimal.NewFromInt(360000), 2024)
		assert.True(t, got.IsZero())
	})

	t.Run("Before the start year yields zero", func(t *testing.T) {
		delayed := *residential
		delayed.DepreciationStartYear = 2030
		assert.True(t, AnnualDepreciation(&delayed, decimal.Zero, 2024).IsZero())
		assert.False(t, AnnualDepreciation(&delayed, decimal.Zero, 2030).IsZero())
	})

	t.Run("Primary residences never depreciate", func(t *testing.T) {
		primary := *residential
		primary.Classification = domain.PropertyPrimary
		assert.True(t, AnnualDepreciation(&primary, decimal.Zero, 2024).IsZero())
	})

	t.Run("Method none yields zero", func(t *testing.T) {
		none := *residential
		none.DepreciationMethod = domain.DepreciationNone
		assert.True(t, AnnualDepreciation(&none, decimal.Zero, 2024).IsZero())
	})
}

func TestCalculatePropertySaleRental(t *testing.T) {
	result := CalculatePropertySale(PropertySaleInput{
		MarketValue:             decimal.NewFromInt(500000),
		AppreciationRate:        decimal.Zero,
		MortgageBalance:         decimal.NewFromInt(100000),
		PurchasePrice:           decimal.NewFromInt(400000),
		AccumulatedDepreciation: decimal.NewFromInt(50000),
		Classification:          domain.PropertyRental,
		SaleAge:                 60,
		FilingStatus:            domain.FilingMarriedJointly,
	})

	// Net 475000 after 5% costs; basis 350000; gain 125000 of which 50000
	// is depreciation recapture.
	assert.True(t, result.NetProceeds.Equal(decimal.NewFromInt(475000)))
	assert.True(t, result.CashProceeds.Equal(decimal.NewFromInt(375000)))
	assert.True(t, result.RecaptureIncome.Equal(decimal.NewFromInt(50000)))
	assert.True(t, result.CapitalGain.Equal(decimal.NewFromInt(75000)))
	assert.True(t, result.ExemptGain.IsZero())
	assert.True(t, result.ReturnOfBasis.Equal(decimal.NewFromInt(250000)))
}

func TestCalculatePropertySalePrimaryExclusion(t *testing.T) {
	result := CalculatePropertySale(PropertySaleInput{
		MarketValue:       decimal.NewFromInt(900000),
		AppreciationRate:  decimal.Zero,
		PurchasePrice:     decimal.NewFromInt(500000),
		Classification:    domain.PropertyPrimary,
		OccupancyStartAge: 40,
		SaleAge:           50,
		FilingStatus:      domain.FilingMarriedJointly,
	})

	// Gain 355000 is fully inside the 500k exclusion.
	assert.True(t, result.ExemptGain.Equal(decimal.NewFromInt(355000)))
	assert.True(t, result.CapitalGain.IsZero())
	assert.True(t, result.RecaptureIncome.IsZero())
	assert.True(t, result.ReturnOfBasis.Equal(decimal.NewFromInt(500000)))
}

func TestCalculatePropertySalePrimaryExclusionCap(t *testing.T) {
	single := CalculatePropertySale(PropertySaleInput{
		MarketValue:       decimal.NewFromInt(1200000),
		PurchasePrice:     decimal.NewFromInt(500000),
		Classification:    domain.PropertyPrimary,
		OccupancyStartAge: 40,
		SaleAge:           50,
		FilingStatus:      domain.FilingSingle,
	})

	// Net 1140000, gain 640000: 250k excluded for single filers, the rest
	// is long-term gain.
	assert.True(t, single.ExemptGain.Equal(decimal.NewFromInt(250000)))
	assert.True(t, single.CapitalGain.Equal(decimal.NewFromInt(390000)))
}

func TestCalculatePropertySaleFailedOccupancyTest(t *testing.T) {
	result := CalculatePropertySale(PropertySaleInput{
		MarketValue:       decimal.NewFromInt(900000),
		PurchasePrice:     decimal.NewFromInt(500000),
		Classification:    domain.PropertyPrimary,
		OccupancyStartAge: 30,
		OccupancyEndAge:   40, // moved out ten years before the sale
		SaleAge:           50,
		FilingStatus:      domain.FilingMarriedJointly,
	})

	assert.True(t, result.ExemptGain.IsZero())
	assert.True(t, result.CapitalGain.Equal(decimal.NewFromInt(355000)))
}

func TestCalculatePropertySaleProceedsReconcile(t *testing.T) {
	inputs := []PropertySaleInput{
		{
			MarketValue:             decimal.NewFromInt(650000),
			AppreciationRate:        decimal.NewFromFloat(0.035),
			MortgageBalance:         decimal.NewFromInt(520000),
			PurchasePrice:           decimal.NewFromInt(480000),
			AccumulatedDepreciation: decimal.NewFromInt(90000),
			Classification:          domain.PropertyRental,
			SaleAge:                 55,
			FilingStatus:            domain.FilingMarriedJointly,
		},
		{
			MarketValue:       decimal.NewFromInt(400000),
			MortgageBalance:   decimal.NewFromInt(390000), // underwater after costs
			PurchasePrice:     decimal.NewFromInt(410000),
			Classification:    domain.PropertyPrimary,
			OccupancyStartAge: 30,
			SaleAge:           40,
			FilingStatus:      domain.FilingSingle,
		},
	}

	for _, input := range inputs {
		result := CalculatePropertySale(input)
		sum := result.RecaptureIncome.Add(result.CapitalGain).Add(result.ExemptGain).Add(result.ReturnOfBasis)
		assert.True(t, sum.Equal(result.CashProceeds),
			"components %s do not reconcile to cash %s", sum.String(), result.CashProceeds.String())
	}
}
