package calculation

import (
	"context"
	"fmt"

	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectionCalculator runs the annual simulation loop for one scenario.
//
// Each simulated year proceeds in a fixed order: vesting events, income and
// drawdown sources, tax computation with funding resolution, contributions
// and spending, then market growth. Drawdowns are capped at each holding's
// start-of-year value so two sources draining one account cannot overdraw it
// within a year.
type ProjectionCalculator struct {
	Scenario *domain.Scenario
	Sources  []domain.IncomeSource
	Settings domain.TaxFundingSettings
	Taxes    *TaxCalculator
	Logger   Logger
	Verbose  bool
}

// yearIncome accumulates one year's recognized income and its cash portion.
type yearIncome struct {
	breakdown IncomeBreakdown
	grossCash decimal.Decimal

	grantOrdinary decimal.Decimal
	rentalTaxable decimal.Decimal
}

// Run simulates from the scenario's current age through its end age,
// checking the context between years.
func (pc *ProjectionCalculator) Run(ctx context.Context, state *SimulationState) (*domain.ProjectionResult, error) {
	scenario := pc.Scenario
	result := &domain.ProjectionResult{
		ScenarioName:          scenario.Name,
		HoldingSeries:         make(map[string][]decimal.Decimal),
		VestedPoolSeries:      make(map[string][]decimal.Decimal),
		MortgageSeries:        make(map[string][]decimal.Decimal),
		RentalNetIncomeSeries: make(map[string][]decimal.Decimal),
		SourceRealizedSeries:  make(map[string][]decimal.Decimal),
	}

	cumulativeUncovered := decimal.Zero

	for age := scenario.CurrentAge; age <= scenario.EndAge; age++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		year := scenario.YearFor(age)
		retired := age >= scenario.RetirementAge

		MarkGrantPrices(state, year)
		assetsStart := state.TotalAssets()
		startValues := snapshotValues(state)

		trace := domain.YearTrace{Age: age, Year: year, AssetsStart: assetsStart}
		trace.CashStart = totalCash(state)

		vestEvents, err := ProcessVesting(state, year)
		if err != nil {
			return nil, err
		}

		income := yearIncome{}
		for _, event := range vestEvents {
			income.breakdown.Ordinary = income.breakdown.Ordinary.Add(event.Value)
			income.grantOrdinary = income.grantOrdinary.Add(event.Value)
		}
		if pc.Verbose {
			trace.Vesting = pc.traceVesting(state, vestEvents)
		}

		realized, err := pc.applySources(state, age, startValues, &income, result)
		if err != nil {
			return nil, err
		}
		pc.applyRentalIncome(state, year, &income, result)

		resolver := &FundingResolver{State: state, Settings: pc.Settings, Taxes: pc.Taxes}
		taxResult, funding, err := resolver.Resolve(year, income.breakdown, income.grossCash)
		if err != nil {
			return nil, fmt.Errorf("year %d (age %d): %w", year, age, err)
		}
		if funding.Shortfall.GreaterThan(decimal.Zero) {
			pc.Logger.Warnf("age %d: tax bill exceeds liquidatable assets by %s",
				age, funding.Shortfall.StringFixed(2))
		}

		spending := decimal.Zero
		if retired {
			spending = pc.inflated(scenario.AnnualSpendingInRetirement, age)
		}
		contributions := decimal.Zero
		if !retired {
			contributions = pc.applyContributions(state, age)
		}

		preSpendCash := income.grossCash.Sub(taxResult.TotalTax)
		netCashFlow := preSpendCash.Sub(spending)
		if retired {
			uncovered := spending.Sub(preSpendCash)
			if uncovered.GreaterThan(decimal.Zero) {
				cumulativeUncovered = cumulativeUncovered.Add(uncovered)
			}
		}

		depreciation := make(map[*HoldingState]decimal.Decimal)
		for _, hs := range state.Holdings {
			if hs.Holding.Kind == domain.KindRealEstate && hs.Holding.RealEstate != nil && !hs.Sold {
				depreciation[hs] = AnnualDepreciation(hs.Holding.RealEstate, hs.AccumDepreciation, year)
			}
		}
		for _, hs := range state.Holdings {
			mortgage := GrowHolding(hs, depreciation[hs])
			if hs.Holding.Kind == domain.KindRealEstate && hs.Holding.RealEstate != nil {
				key := seriesKey(hs.Holding)
				result.MortgageSeries[key] = append(result.MortgageSeries[key], mortgage.EndingBalance)
			}
		}

		pc.recordYear(result, state, age, year, realized, taxResult, funding, contributions, spending, netCashFlow, cumulativeUncovered)

		if pc.Verbose {
			trace.AssetsEnd = state.TotalAssets()
			trace.CashEnd = totalCash(state)
			trace.Income = domain.IncomeTrace{
				GrossTotal:       income.breakdown.GrossTotal(),
				Ordinary:         income.breakdown.Ordinary,
				SocialSecurity:   income.breakdown.SocialSecurity,
				LongTermGains:    income.breakdown.LongTermGains,
				TaxExempt:        income.breakdown.TaxExempt,
				GrantOrdinary:    income.grantOrdinary,
				NonCashIncome:    income.grantOrdinary,
				RentalNetTaxable: income.rentalTaxable,
			}
			trace.Tax = domain.TaxTrace{
				FederalOrdinary: taxResult.FederalOrdinaryTax,
				FederalGains:    taxResult.FederalGainsTax,
				State:           taxResult.StateTax,
				Total:           taxResult.TotalTax,
				Funded:          funding.TotalWithdrawn,
				Shortfall:       funding.Shortfall,
				Iterations:      funding.Iterations,
			}
			trace.Funding = funding.Steps
			result.Trace = append(result.Trace, trace)
		}
	}
	return result, nil
}

// applySources recognizes every active income, drawdown, and sale rule for
// the year. Returns realized amounts keyed by source for series recording.
func (pc *ProjectionCalculator) applySources(state *SimulationState, age int, startValues map[*HoldingState]decimal.Decimal, income *yearIncome, result *domain.ProjectionResult) (map[string]decimal.Decimal, error) {
	realized := make(map[string]decimal.Decimal)

	for i := range pc.Sources {
		src := &pc.Sources[i]
		if !src.ActiveAt(age) {
			continue
		}

		switch src.Mode {
		case domain.ModeIncome:
			amount := src.NominalAmount(age)
			income.grossCash = income.grossCash.Add(amount)
			switch src.IncomeType {
			case domain.IncomeSocialSecurity:
				income.breakdown.SocialSecurity = income.breakdown.SocialSecurity.Add(amount)
			case domain.IncomeTaxExempt, domain.IncomeDisability:
				income.breakdown.TaxExempt = income.breakdown.TaxExempt.Add(amount)
			default:
				income.breakdown.Ordinary = income.breakdown.Ordinary.Add(amount)
			}
			realized[sourceKey(src)] = amount

		case domain.ModeDrawdown:
			hs, ok := state.HoldingByID(src.LinkedHoldingID)
			if !ok {
				return nil, fmt.Errorf("source %q links to unknown holding %q", src.Name, src.LinkedHoldingID)
			}
			amount := pc.withdraw(hs, src.NominalAmount(age), startValues[hs], income)
			realized[sourceKey(src)] = amount

		case domain.ModeAssetSale:
			if age != src.StartAge {
				continue
			}
			hs, ok := state.HoldingByID(src.LinkedHoldingID)
			if !ok {
				return nil, fmt.Errorf("source %q links to unknown holding %q", src.Name, src.LinkedHoldingID)
			}
			if hs.Holding.Kind != domain.KindRealEstate || hs.Holding.RealEstate == nil || hs.Sold {
				return nil, fmt.Errorf("source %q: asset sale requires an unsold property", src.Name)
			}
			sale := pc.sellProperty(hs, age, income)
			realized[sourceKey(src)] = sale.CashProceeds
		}
	}
	return realized, nil
}

// withdraw takes a drawdown from a linked holding, capped at its
// start-of-year value and its current balance. Taxation follows the
// holding's wrapper: taxable withdrawals split pro rata into realized gain
// and return of basis, deferred withdrawals are ordinary income in full, and
// tax-free or cash withdrawals owe nothing. Holdings that cannot be drawn
// down, such as grants and real estate, realize nothing and produce no cash.
func (pc *ProjectionCalculator) withdraw(hs *HoldingState, requested, startValue decimal.Decimal, income *yearIncome) decimal.Decimal {
	amount := decimal.Min(requested, startValue, hs.Value())
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	switch hs.Holding.Kind {
	case domain.KindCash:
		hs.CashBalance = hs.CashBalance.Sub(amount)
		income.grossCash = income.grossCash.Add(amount)
		return amount

	case domain.KindEquityAccount:
		switch hs.Wrapper() {
		case domain.WrapperTaxable:
			value := hs.AccountBalance
			gainFraction := decimal.Zero
			if value.GreaterThan(decimal.Zero) {
				gainFraction = decimal.Max(decimal.Zero, value.Sub(hs.AccountBasis).Div(value))
			}
			gain := amount.Mul(gainFraction)
			income.breakdown.LongTermGains = income.breakdown.LongTermGains.Add(gain)
			hs.AccountBasis = decimal.Max(decimal.Zero, hs.AccountBasis.Sub(amount.Sub(gain)))
		case domain.WrapperTaxDeferred:
			income.breakdown.Ordinary = income.breakdown.Ordinary.Add(amount)
		}
		hs.AccountBalance = hs.AccountBalance.Sub(amount)
		income.grossCash = income.grossCash.Add(amount)
		return amount

	case domain.KindSecurity:
		value := hs.Shares.Mul(hs.Price)
		if value.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero
		}
		switch hs.Wrapper() {
		case domain.WrapperTaxable:
			gainFraction := decimal.Max(decimal.Zero, value.Sub(hs.SecurityBasis).Div(value))
			gain := amount.Mul(gainFraction)
			income.breakdown.LongTermGains = income.breakdown.LongTermGains.Add(gain)
			hs.SecurityBasis = decimal.Max(decimal.Zero, hs.SecurityBasis.Sub(amount.Sub(gain)))
		case domain.WrapperTaxDeferred:
			income.breakdown.Ordinary = income.breakdown.Ordinary.Add(amount)
		}
		hs.Shares = hs.Shares.Sub(hs.Shares.Mul(amount.Div(value)))
		income.grossCash = income.grossCash.Add(amount)
		return amount
	}
	return decimal.Zero
}

// sellProperty liquidates a property holding and recognizes the proceeds by
// tax character.
func (pc *ProjectionCalculator) sellProperty(hs *HoldingState, age int, income *yearIncome) PropertySaleResult {
	details := hs.Holding.RealEstate
	sale := CalculatePropertySale(PropertySaleInput{
		MarketValue:             hs.PropertyValue,
		AppreciationRate:        details.AppreciationRate,
		MortgageBalance:         hs.MortgageBalance,
		PurchasePrice:           details.PurchasePrice,
		AccumulatedDepreciation: hs.AccumDepreciation,
		Classification:          details.Classification,
		OccupancyStartAge:       details.OccupancyStartAge,
		OccupancyEndAge:         details.OccupancyEndAge,
		SaleAge:                 age,
		FilingStatus:            pc.Scenario.FilingStatus,
	})

	income.grossCash = income.grossCash.Add(sale.CashProceeds)
	income.breakdown.Ordinary = income.breakdown.Ordinary.Add(sale.RecaptureIncome)
	income.breakdown.LongTermGains = income.breakdown.LongTermGains.Add(sale.CapitalGain)
	// Return of basis is cash in hand but not income for tax purposes; it
	// rides in the exempt bucket, negative when the mortgage exceeds basis,
	// so the breakdown still sums to the cash received.
	income.breakdown.TaxExempt = income.breakdown.TaxExempt.Add(sale.ExemptGain).Add(sale.ReturnOfBasis)

	hs.Sold = true
	hs.PropertyValue = decimal.Zero
	hs.MortgageBalance = decimal.Zero
	return sale
}

// applyRentalIncome recognizes rent on every unsold rental property. The
// full rent is cash; the taxable portion is rent less the year's
// depreciation deduction, and a depreciation-driven loss offsets other
// ordinary income.
func (pc *ProjectionCalculator) applyRentalIncome(state *SimulationState, year int, income *yearIncome, result *domain.ProjectionResult) {
	for _, hs := range state.Holdings {
		if hs.Holding.Kind != domain.KindRealEstate || hs.Holding.RealEstate == nil || hs.Sold {
			continue
		}
		details := hs.Holding.RealEstate
		if details.AnnualRent.LessThanOrEqual(decimal.Zero) {
			continue
		}

		depreciation := AnnualDepreciation(details, hs.AccumDepreciation, year)
		taxable := details.AnnualRent.Sub(depreciation)

		income.grossCash = income.grossCash.Add(details.AnnualRent)
		income.breakdown.Ordinary = income.breakdown.Ordinary.Add(taxable)
		income.rentalTaxable = income.rentalTaxable.Add(taxable)

		key := seriesKey(hs.Holding)
		result.RentalNetIncomeSeries[key] = append(result.RentalNetIncomeSeries[key], details.AnnualRent.Sub(depreciation))
	}
}

// applyContributions deposits the year's pre-retirement savings: each
// account's own contribution plus the scenario-level contribution into the
// first equity account, both scaled by inflation from the base year.
// Taxable-account deposits raise cost basis dollar for dollar.
func (pc *ProjectionCalculator) applyContributions(state *SimulationState, age int) decimal.Decimal {
	total := decimal.Zero

	deposit := func(hs *HoldingState, amount decimal.Decimal) {
		if amount.LessThanOrEqual(decimal.Zero) {
			return
		}
		hs.AccountBalance = hs.AccountBalance.Add(amount)
		if hs.Wrapper() == domain.WrapperTaxable {
			hs.AccountBasis = hs.AccountBasis.Add(amount)
		}
		total = total.Add(amount)
	}

	for _, hs := range state.Holdings {
		if hs.Holding.Kind != domain.KindEquityAccount || hs.Holding.EquityAccount == nil || hs.Sold {
			continue
		}
		deposit(hs, pc.inflated(hs.Holding.EquityAccount.AnnualContribution, age))
	}

	if target, ok := state.FirstEquityAccount(); ok {
		deposit(target, pc.inflated(pc.Scenario.AnnualContributionPreRetirement, age))
	}
	return total
}

// inflated scales a base-year amount to the given age's year.
func (pc *ProjectionCalculator) inflated(amount decimal.Decimal, age int) decimal.Decimal {
	years := age - pc.Scenario.CurrentAge
	if years <= 0 || amount.IsZero() || pc.Scenario.InflationRate.IsZero() {
		return amount
	}
	factor := one.Add(pc.Scenario.InflationRate).Pow(decimal.NewFromInt(int64(years)))
	return amount.Mul(factor)
}

// recordYear appends one year of output series.
func (pc *ProjectionCalculator) recordYear(result *domain.ProjectionResult, state *SimulationState, age, year int,
	realized map[string]decimal.Decimal, taxResult TaxResult, funding FundingOutcome,
	contributions, spending, netCashFlow, cumulativeUncovered decimal.Decimal) {

	result.Ages = append(result.Ages, age)
	result.Years = append(result.Years, year)

	nominal := state.TotalAssets()
	result.BalanceNominal = append(result.BalanceNominal, nominal)
	result.BalanceReal = append(result.BalanceReal, pc.deflate(nominal, age))

	result.ContributionNominal = append(result.ContributionNominal, contributions)
	result.SpendingNominal = append(result.SpendingNominal, spending)
	result.NetCashFlow = append(result.NetCashFlow, netCashFlow)
	result.CumulativeUncoveredSpending = append(result.CumulativeUncoveredSpending, cumulativeUncovered)

	for _, hs := range state.Holdings {
		key := seriesKey(hs.Holding)
		result.HoldingSeries[key] = append(result.HoldingSeries[key], hs.Value())
	}
	for _, vp := range state.Pools {
		result.VestedPoolSeries[vp.Symbol] = append(result.VestedPoolSeries[vp.Symbol], vp.Value())
	}
	for i := range pc.Sources {
		key := sourceKey(&pc.Sources[i])
		result.SourceRealizedSeries[key] = append(result.SourceRealizedSeries[key], realized[key])
	}

	result.Tax.FederalTax = append(result.Tax.FederalTax, taxResult.FederalTax)
	result.Tax.StateTax = append(result.Tax.StateTax, taxResult.StateTax)
	result.Tax.TotalTax = append(result.Tax.TotalTax, taxResult.TotalTax)
	result.Tax.EffectiveRate = append(result.Tax.EffectiveRate, taxResult.EffectiveRateTotal)
	result.Tax.Shortfall = append(result.Tax.Shortfall, funding.Shortfall)
}

// deflate converts a nominal amount to base-year dollars.
func (pc *ProjectionCalculator) deflate(amount decimal.Decimal, age int) decimal.Decimal {
	years := age - pc.Scenario.CurrentAge
	if years <= 0 || pc.Scenario.InflationRate.IsZero() {
		return amount
	}
	factor := one.Add(pc.Scenario.InflationRate).Pow(decimal.NewFromInt(int64(years)))
	return amount.Div(factor)
}

func (pc *ProjectionCalculator) traceVesting(state *SimulationState, events []VestEvent) []domain.VestingTrace {
	var traces []domain.VestingTrace
	for _, event := range events {
		trace := domain.VestingTrace{
			Symbol:       event.Symbol,
			SharesVested: event.Shares,
			FMVAtVest:    event.Price,
			VestedValue:  event.Value,
		}
		for _, hs := range state.Holdings {
			if hs.Holding.Kind == domain.KindEquityGrant && hs.Holding.EquityGrant != nil &&
				hs.Holding.EquityGrant.Symbol == event.Symbol {
				trace.HoldingID = seriesKey(hs.Holding)
				trace.UnvestedSharesEnd = hs.UnvestedShares
				trace.UnvestedValueEnd = hs.UnvestedShares.Mul(hs.Price)
			}
		}
		if pool, ok := state.poolBySymbol[event.Symbol]; ok {
			trace.PoolSharesEnd = pool.Shares
			trace.PoolValueEnd = pool.Value()
			if pool.Shares.GreaterThan(decimal.Zero) {
				trace.PoolAverageBasis = pool.Basis.Div(pool.Shares)
			}
		}
		traces = append(traces, trace)
	}
	return traces
}

func snapshotValues(state *SimulationState) map[*HoldingState]decimal.Decimal {
	values := make(map[*HoldingState]decimal.Decimal, len(state.Holdings))
	for _, hs := range state.Holdings {
		values[hs] = hs.Value()
	}
	return values
}

func totalCash(state *SimulationState) decimal.Decimal {
	total := decimal.Zero
	for _, hs := range state.Holdings {
		if hs.Holding.Kind == domain.KindCash {
			total = total.Add(hs.CashBalance)
		}
	}
	return total
}

func seriesKey(h *domain.Holding) string {
	if h.ID != "" {
		return h.ID
	}
	return h.Name
}

func sourceKey(s *domain.IncomeSource) string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}
