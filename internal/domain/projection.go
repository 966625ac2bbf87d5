package domain

import (
	"github.com/shopspring/decimal"
)

// TaxSeries is the per-year tax outcome, parallel to ProjectionResult.Ages.
type TaxSeries struct {
	FederalTax    []decimal.Decimal `json:"federal_tax"`
	StateTax      []decimal.Decimal `json:"state_tax"`
	TotalTax      []decimal.Decimal `json:"total_tax"`
	EffectiveRate []decimal.Decimal `json:"effective_tax_rate"`
	Shortfall     []decimal.Decimal `json:"tax_shortfall"`
}

// ProjectionResult is the complete output time series of one run, indexed by
// simulated age.
type ProjectionResult struct {
	ScenarioName string `json:"scenario_name"`

	Ages  []int `json:"ages"`
	Years []int `json:"years"`

	BalanceNominal []decimal.Decimal `json:"balance_nominal"`
	BalanceReal    []decimal.Decimal `json:"balance_real"`

	ContributionNominal []decimal.Decimal `json:"contribution_nominal"`
	SpendingNominal     []decimal.Decimal `json:"spending_nominal"`

	NetCashFlow                 []decimal.Decimal `json:"net_cash_flow"`
	CumulativeUncoveredSpending []decimal.Decimal `json:"cumulative_uncovered_spending"`

	// HoldingSeries maps holding ID to its per-year value. VestedPoolSeries
	// carries the synthetic vested-grant pool per underlying symbol.
	HoldingSeries    map[string][]decimal.Decimal `json:"holding_series"`
	VestedPoolSeries map[string][]decimal.Decimal `json:"vested_pool_series"`

	MortgageSeries        map[string][]decimal.Decimal `json:"mortgage_series"`
	RentalNetIncomeSeries map[string][]decimal.Decimal `json:"rental_net_income_series"`

	// SourceRealizedSeries maps income-source ID to the amount actually
	// realized each year (drawdowns are capped by available balances).
	SourceRealizedSeries map[string][]decimal.Decimal `json:"source_realized_series"`

	Tax TaxSeries `json:"tax_simulation"`

	// Trace is populated only for verbose runs; it is a debugging aid, not
	// part of the output contract.
	Trace []YearTrace `json:"debug_trace,omitempty"`
}

// FinalBalance returns the nominal balance in the last simulated year.
func (p *ProjectionResult) FinalBalance() decimal.Decimal {
	if len(p.BalanceNominal) == 0 {
		return decimal.Zero
	}
	return p.BalanceNominal[len(p.BalanceNominal)-1]
}

// TotalTaxPaid sums the tax series across the run.
func (p *ProjectionResult) TotalTaxPaid() decimal.Decimal {
	total := decimal.Zero
	for _, t := range p.Tax.TotalTax {
		total = total.Add(t)
	}
	return total
}

// TotalShortfall sums the recorded tax shortfalls across the run.
func (p *ProjectionResult) TotalShortfall() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Tax.Shortfall {
		total = total.Add(s)
	}
	return total
}

// YearTrace is the optional verbose per-year diagnostic record.
type YearTrace struct {
	Age  int `json:"age"`
	Year int `json:"year"`

	AssetsStart decimal.Decimal `json:"total_assets_start"`
	AssetsEnd   decimal.Decimal `json:"total_assets_end"`
	CashStart   decimal.Decimal `json:"cash_start"`
	CashEnd     decimal.Decimal `json:"cash_end"`

	Income  IncomeTrace    `json:"income"`
	Tax     TaxTrace       `json:"tax"`
	Vesting []VestingTrace `json:"vesting,omitempty"`
	Funding []FundingStep  `json:"funding,omitempty"`
}

// IncomeTrace breaks down the year's recognized income.
type IncomeTrace struct {
	GrossTotal       decimal.Decimal `json:"gross_income_total"`
	Ordinary         decimal.Decimal `json:"ordinary_income"`
	SocialSecurity   decimal.Decimal `json:"social_security_income"`
	LongTermGains    decimal.Decimal `json:"long_term_cap_gains"`
	TaxExempt        decimal.Decimal `json:"tax_exempt_income"`
	GrantOrdinary    decimal.Decimal `json:"grant_ordinary_income"`
	NonCashIncome    decimal.Decimal `json:"non_cash_income"`
	RentalNetTaxable decimal.Decimal `json:"rental_net_taxable"`
}

// TaxTrace records the year's final tax result after funding resolution.
type TaxTrace struct {
	FederalOrdinary decimal.Decimal `json:"federal_ordinary_tax"`
	FederalGains    decimal.Decimal `json:"federal_gains_tax"`
	State           decimal.Decimal `json:"state_tax"`
	Total           decimal.Decimal `json:"total_tax"`
	Funded          decimal.Decimal `json:"funded"`
	Shortfall       decimal.Decimal `json:"shortfall"`
	Iterations      int             `json:"funding_iterations"`
}

// VestingTrace records one grant's activity in a year.
type VestingTrace struct {
	HoldingID         string          `json:"holding_id"`
	Symbol            string          `json:"symbol"`
	SharesVested      decimal.Decimal `json:"shares_vested"`
	FMVAtVest         decimal.Decimal `json:"fmv_at_vest"`
	VestedValue       decimal.Decimal `json:"vested_value"`
	UnvestedSharesEnd decimal.Decimal `json:"unvested_shares_end"`
	UnvestedValueEnd  decimal.Decimal `json:"unvested_value_end"`
	PoolSharesEnd     decimal.Decimal `json:"pool_shares_end"`
	PoolValueEnd      decimal.Decimal `json:"pool_value_end"`
	PoolAverageBasis  decimal.Decimal `json:"pool_average_basis"`
}

// FundingStep records one liquidation taken to pay the year's tax bill.
type FundingStep struct {
	Source       FundingSource   `json:"source"`
	HoldingID    string          `json:"holding_id"`
	Amount       decimal.Decimal `json:"amount"`
	GainPart     decimal.Decimal `json:"gain_part"`
	OrdinaryPart decimal.Decimal `json:"ordinary_part"`
}
