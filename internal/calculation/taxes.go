package calculation

import (
	"fmt"

	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// IncomeBreakdown carries a single year's income split by tax character.
type IncomeBreakdown struct {
	Ordinary           decimal.Decimal
	LongTermGains      decimal.Decimal
	QualifiedDividends decimal.Decimal
	TaxExempt          decimal.Decimal
	SocialSecurity     decimal.Decimal
}

// GrossTaxable returns income subject to tax before deductions, using the
// taxable portion of Social Security.
func (ib IncomeBreakdown) GrossTaxable(taxableSS decimal.Decimal) decimal.Decimal {
	return ib.Ordinary.Add(ib.LongTermGains).Add(ib.QualifiedDividends).Add(taxableSS)
}

// GrossTotal returns all income including the exempt and untaxed portions.
func (ib IncomeBreakdown) GrossTotal() decimal.Decimal {
	return ib.Ordinary.Add(ib.LongTermGains).Add(ib.QualifiedDividends).
		Add(ib.TaxExempt).Add(ib.SocialSecurity)
}

// TaxResult is the outcome of a single year's tax computation.
type TaxResult struct {
	FederalOrdinaryTax    decimal.Decimal
	FederalGainsTax       decimal.Decimal
	FederalTax            decimal.Decimal
	StateTax              decimal.Decimal
	TotalTax              decimal.Decimal
	TaxableSocialSecurity decimal.Decimal
	EffectiveRateTotal    decimal.Decimal
	EffectiveRateFederal  decimal.Decimal
	EffectiveRateState    decimal.Decimal
}

// TaxCalculator computes federal and state tax for a scenario year. Custom
// tables, when present, override the built-in ones per jurisdiction and
// filing status. Bracket thresholds and deductions are indexed to the target
// year according to the configured indexing policy; rates are never indexed.
type TaxCalculator struct {
	Status        domain.FilingStatus
	State         string
	CustomTables  []domain.CustomTaxTable
	Indexing      domain.IndexingPolicy
	InflationRate decimal.Decimal
	CustomRate    decimal.Decimal
}

// NewTaxCalculator builds a calculator from scenario settings. A scenario
// that names no state gets the built-in California table.
func NewTaxCalculator(scenario domain.Scenario, settings domain.TaxFundingSettings, customTables []domain.CustomTaxTable) *TaxCalculator {
	tc := &TaxCalculator{
		Status:        scenario.FilingStatus,
		State:         scenario.State,
		CustomTables:  customTables,
		Indexing:      settings.IndexingPolicy,
		InflationRate: scenario.InflationRate,
	}
	if tc.State == "" {
		tc.State = defaultState
	}
	if settings.CustomIndexRate != nil {
		tc.CustomRate = *settings.CustomIndexRate
	}
	return tc
}

func (tc *TaxCalculator) indexRate() decimal.Decimal {
	switch tc.Indexing {
	case domain.IndexScenarioInflation:
		return tc.InflationRate
	case domain.IndexCustomRate:
		return tc.CustomRate
	default:
		return decimal.Zero
	}
}

// customTable returns an override table for the jurisdiction and filing
// status, if one is configured.
func (tc *TaxCalculator) customTable(jurisdiction string) (domain.TaxTable, int, bool) {
	for _, ct := range tc.CustomTables {
		if ct.Jurisdiction == jurisdiction && ct.FilingStatus == tc.Status {
			return ct.Table, ct.YearBase, true
		}
	}
	return domain.TaxTable{}, 0, false
}

func (tc *TaxCalculator) federalOrdinaryTable(year int) (domain.TaxTable, error) {
	if table, base, ok := tc.customTable(jurisdictionFederal); ok {
		return IndexTable(table, base, year, tc.indexRate()), nil
	}
	table, err := FederalOrdinaryTable(year, tc.Status)
	if err != nil {
		return domain.TaxTable{}, err
	}
	return IndexTable(table, builtinBaseYear, year, tc.indexRate()), nil
}

func (tc *TaxCalculator) federalGainsTable(year int) (domain.TaxTable, error) {
	table, err := FederalGainsTable(year, tc.Status)
	if err != nil {
		return domain.TaxTable{}, err
	}
	return IndexTable(table, builtinBaseYear, year, tc.indexRate()), nil
}

func (tc *TaxCalculator) stateTable(year int) (domain.TaxTable, error) {
	if table, base, ok := tc.customTable(tc.State); ok {
		return IndexTable(table, base, year, tc.indexRate()), nil
	}
	table, err := StateTable(tc.State, year, tc.Status)
	if err != nil {
		return domain.TaxTable{}, err
	}
	return IndexTable(table, builtinBaseYear, year, tc.indexRate()), nil
}

// Calculate computes the full tax bill for one year's income.
//
// The taxable portion of Social Security folds into ordinary income. The
// standard deduction applies to ordinary income only; long-term gains and
// qualified dividends are taxed on their own federal schedule from dollar
// zero rather than stacked on top of ordinary income. The state treats
// gains as ordinary income under its own deduction.
func (tc *TaxCalculator) Calculate(year int, income IncomeBreakdown) (TaxResult, error) {
	var result TaxResult

	otherIncome := income.Ordinary.Add(income.LongTermGains).Add(income.QualifiedDividends)
	result.TaxableSocialSecurity = TaxableSocialSecurity(income.SocialSecurity, otherIncome, tc.Status)

	ordinaryTable, err := tc.federalOrdinaryTable(year)
	if err != nil {
		return TaxResult{}, fmt.Errorf("federal ordinary table: %w", err)
	}
	fedOrdinaryTaxable := income.Ordinary.Add(result.TaxableSocialSecurity).Sub(ordinaryTable.StandardDeduction)
	result.FederalOrdinaryTax = ApplyBrackets(fedOrdinaryTaxable, ordinaryTable)

	gainsTable, err := tc.federalGainsTable(year)
	if err != nil {
		return TaxResult{}, fmt.Errorf("federal gains table: %w", err)
	}
	gains := income.LongTermGains.Add(income.QualifiedDividends)
	result.FederalGainsTax = ApplyBrackets(gains, gainsTable)

	result.FederalTax = result.FederalOrdinaryTax.Add(result.FederalGainsTax)

	stateTable, err := tc.stateTable(year)
	if err != nil {
		return TaxResult{}, fmt.Errorf("state table: %w", err)
	}
	stateTaxable := income.Ordinary.Add(result.TaxableSocialSecurity).Add(gains).
		Sub(stateTable.StandardDeduction)
	result.StateTax = ApplyBrackets(stateTaxable, stateTable)

	result.TotalTax = result.FederalTax.Add(result.StateTax)

	grossTaxable := income.GrossTaxable(result.TaxableSocialSecurity)
	grossWithExempt := grossTaxable.Add(income.TaxExempt).
		Add(income.SocialSecurity.Sub(result.TaxableSocialSecurity))
	if grossWithExempt.GreaterThan(decimal.Zero) {
		result.EffectiveRateTotal = result.TotalTax.Div(grossWithExempt)
	}
	if grossTaxable.GreaterThan(decimal.Zero) {
		result.EffectiveRateFederal = result.FederalTax.Div(grossTaxable)
		result.EffectiveRateState = result.StateTax.Div(grossTaxable)
	}
	return result, nil
}
