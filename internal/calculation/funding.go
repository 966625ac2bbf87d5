package calculation

import (
	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// fundingEpsilon is the convergence tolerance of the fixed-point resolver.
var fundingEpsilon = decimal.NewFromFloat(0.01)

// maxFundingIterations caps the tax-then-withdraw-then-retax loop. The loop
// converges geometrically, so five rounds leave the residual far below a
// cent for any realistic marginal rate.
const maxFundingIterations = 5

// fundingTarget is one liquidation opportunity in resolution order:
// either a holding or a vested pool, never both.
type fundingTarget struct {
	source  domain.FundingSource
	holding *HoldingState
	pool    *VestedPool
}

func (t fundingTarget) id() string {
	if t.pool != nil {
		return "vested:" + t.pool.Symbol
	}
	if t.holding.Holding.ID != "" {
		return t.holding.Holding.ID
	}
	return t.holding.Holding.Name
}

// capacity is the most the target can surrender.
func (t fundingTarget) capacity() decimal.Decimal {
	if t.pool != nil {
		return t.pool.Value()
	}
	switch t.holding.Holding.Kind {
	case domain.KindCash:
		return t.holding.CashBalance
	case domain.KindEquityAccount:
		return t.holding.AccountBalance
	case domain.KindSecurity:
		return t.holding.Shares.Mul(t.holding.Price)
	}
	return decimal.Zero
}

// gainFraction is the portion of a taxable-brokerage withdrawal that
// realizes long-term gain; the rest is return of basis.
func (t fundingTarget) gainFraction() decimal.Decimal {
	value := t.capacity()
	if value.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	var basis decimal.Decimal
	switch {
	case t.pool != nil:
		basis = t.pool.Basis
	case t.holding.Holding.Kind == domain.KindEquityAccount:
		basis = t.holding.AccountBasis
	case t.holding.Holding.Kind == domain.KindSecurity:
		basis = t.holding.SecurityBasis
	default:
		return decimal.Zero
	}
	fraction := value.Sub(basis).Div(value)
	if fraction.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return fraction
}

// FundingOutcome is the committed result of tax funding resolution.
type FundingOutcome struct {
	TotalWithdrawn decimal.Decimal
	OrdinaryIncome decimal.Decimal
	CapitalGains   decimal.Decimal
	Shortfall      decimal.Decimal
	Iterations     int
	LiquidatedAll  bool
	Steps          []domain.FundingStep
}

// FundingResolver plans and commits liquidations that cover a year's tax
// bill when cash income alone cannot.
type FundingResolver struct {
	State    *SimulationState
	Settings domain.TaxFundingSettings
	Taxes    *TaxCalculator
}

// targetsFor enumerates liquidation targets for one funding source in
// deterministic order.
func (fr *FundingResolver) targetsFor(source domain.FundingSource) []fundingTarget {
	var targets []fundingTarget

	switch source {
	case domain.FundCash:
		for _, hs := range fr.State.Holdings {
			if hs.Holding.Kind == domain.KindCash && !hs.Sold {
				targets = append(targets, fundingTarget{source: source, holding: hs})
			}
		}

	case domain.FundTaxableBrokerage:
		for _, hs := range fr.State.Holdings {
			if hs.Sold || hs.Wrapper() != domain.WrapperTaxable {
				continue
			}
			if hs.Holding.Kind == domain.KindEquityAccount || hs.Holding.Kind == domain.KindSecurity {
				targets = append(targets, fundingTarget{source: source, holding: hs})
			}
		}
		for _, vp := range fr.State.Pools {
			targets = append(targets, fundingTarget{source: source, pool: vp})
		}

	case domain.FundTaxDeferred:
		if !fr.Settings.AllowTaxDeferred {
			return nil
		}
		for _, hs := range fr.State.Holdings {
			if hs.Sold || hs.Wrapper() != domain.WrapperTaxDeferred {
				continue
			}
			if hs.Holding.Kind == domain.KindEquityAccount || hs.Holding.Kind == domain.KindSecurity {
				targets = append(targets, fundingTarget{source: source, holding: hs})
			}
		}

	case domain.FundTaxFree:
		for _, hs := range fr.State.Holdings {
			if hs.Sold || hs.Wrapper() != domain.WrapperTaxFree {
				continue
			}
			if hs.Holding.Kind == domain.KindEquityAccount || hs.Holding.Kind == domain.KindSecurity {
				targets = append(targets, fundingTarget{source: source, holding: hs})
			}
		}
	}
	return targets
}

// plannedStep ties a trace record to the target it would draw from, so
// commit never has to re-resolve anything.
type plannedStep struct {
	target fundingTarget
	step   domain.FundingStep
}

// plan walks the configured order and allocates the requested amount without
// mutating any balances, reporting the income the withdrawals would realize.
func (fr *FundingResolver) plan(amount decimal.Decimal) (steps []plannedStep, ordinary, gains, planned decimal.Decimal) {
	remaining := amount
	for _, source := range fr.Settings.Order {
		if remaining.LessThanOrEqual(fundingEpsilon) {
			break
		}
		for _, target := range fr.targetsFor(source) {
			if remaining.LessThanOrEqual(fundingEpsilon) {
				break
			}
			take := decimal.Min(remaining, target.capacity())
			if take.LessThanOrEqual(decimal.Zero) {
				continue
			}

			step := domain.FundingStep{Source: source, HoldingID: target.id(), Amount: take}
			switch source {
			case domain.FundTaxableBrokerage:
				step.GainPart = take.Mul(target.gainFraction())
				gains = gains.Add(step.GainPart)
			case domain.FundTaxDeferred:
				step.OrdinaryPart = take
				ordinary = ordinary.Add(take)
			}

			steps = append(steps, plannedStep{target: target, step: step})
			planned = planned.Add(take)
			remaining = remaining.Sub(take)
		}
	}
	return steps, ordinary, gains, planned
}

// commit applies a planned withdrawal to the working state. Taxable
// withdrawals reduce basis by the return-of-basis portion; securities and
// pools surrender shares proportionally.
func (fr *FundingResolver) commit(ps plannedStep) {
	amount := ps.step.Amount
	if amount.LessThanOrEqual(decimal.Zero) {
		return
	}
	roc := amount.Sub(ps.step.GainPart).Sub(ps.step.OrdinaryPart)

	if pool := ps.target.pool; pool != nil {
		value := pool.Value()
		if value.GreaterThan(decimal.Zero) {
			fraction := amount.Div(value)
			pool.Shares = pool.Shares.Sub(pool.Shares.Mul(fraction))
			pool.Basis = decimal.Max(decimal.Zero, pool.Basis.Sub(roc))
		}
		return
	}

	hs := ps.target.holding
	switch hs.Holding.Kind {
	case domain.KindCash:
		hs.CashBalance = hs.CashBalance.Sub(amount)

	case domain.KindEquityAccount:
		hs.AccountBalance = hs.AccountBalance.Sub(amount)
		hs.AccountBasis = decimal.Max(decimal.Zero, hs.AccountBasis.Sub(roc))

	case domain.KindSecurity:
		value := hs.Shares.Mul(hs.Price)
		if value.GreaterThan(decimal.Zero) {
			fraction := amount.Div(value)
			hs.Shares = hs.Shares.Sub(hs.Shares.Mul(fraction))
			hs.SecurityBasis = decimal.Max(decimal.Zero, hs.SecurityBasis.Sub(roc))
		}
	}
}

// Resolve finds the tax bill and the liquidations that pay it as a fixed
// point: withdrawals from taxable and tax-deferred sources are themselves
// income, so the bill is recomputed with each round's planned withdrawals
// until the required amount stops moving. Nothing is committed until the
// plan settles.
//
// cashAvailable is the cash income already on hand for taxes; only the
// excess of the bill over it needs funding.
func (fr *FundingResolver) Resolve(year int, base IncomeBreakdown, cashAvailable decimal.Decimal) (TaxResult, FundingOutcome, error) {
	var outcome FundingOutcome
	var steps []plannedStep
	var planOrdinary, planGains decimal.Decimal

	required := decimal.Zero
	var taxResult TaxResult

	for i := 0; i < maxFundingIterations; i++ {
		outcome.Iterations = i + 1

		income := base
		income.Ordinary = income.Ordinary.Add(planOrdinary)
		income.LongTermGains = income.LongTermGains.Add(planGains)

		var err error
		taxResult, err = fr.Taxes.Calculate(year, income)
		if err != nil {
			return TaxResult{}, FundingOutcome{}, err
		}

		nextRequired := taxResult.TotalTax.Sub(cashAvailable)
		if nextRequired.LessThan(decimal.Zero) {
			nextRequired = decimal.Zero
		}
		if nextRequired.Sub(required).Abs().LessThanOrEqual(fundingEpsilon) && i > 0 {
			required = nextRequired
			break
		}
		required = nextRequired
		steps, planOrdinary, planGains, outcome.TotalWithdrawn = fr.plan(required)
	}

	outcome.OrdinaryIncome = planOrdinary
	outcome.CapitalGains = planGains
	outcome.Shortfall = required.Sub(outcome.TotalWithdrawn)
	if outcome.Shortfall.LessThan(fundingEpsilon) {
		outcome.Shortfall = decimal.Zero
	}

	if outcome.Shortfall.GreaterThan(decimal.Zero) && fr.Settings.ShortfallPolicy == domain.ShortfallLiquidateAll {
		return fr.liquidateAll(year, base, cashAvailable)
	}

	for _, ps := range steps {
		fr.commit(ps)
		outcome.Steps = append(outcome.Steps, ps.step)
	}
	return taxResult, outcome, nil
}

// liquidateAll drains every eligible source, recomputes the bill once with
// the full liquidation's income, and reports whatever still cannot be paid.
func (fr *FundingResolver) liquidateAll(year int, base IncomeBreakdown, cashAvailable decimal.Decimal) (TaxResult, FundingOutcome, error) {
	total := decimal.Zero
	for _, source := range fr.Settings.Order {
		for _, target := range fr.targetsFor(source) {
			total = total.Add(target.capacity())
		}
	}

	steps, ordinary, gains, planned := fr.plan(total)

	income := base
	income.Ordinary = income.Ordinary.Add(ordinary)
	income.LongTermGains = income.LongTermGains.Add(gains)

	taxResult, err := fr.Taxes.Calculate(year, income)
	if err != nil {
		return TaxResult{}, FundingOutcome{}, err
	}

	outcome := FundingOutcome{
		TotalWithdrawn: planned,
		OrdinaryIncome: ordinary,
		CapitalGains:   gains,
		Iterations:     maxFundingIterations,
		LiquidatedAll:  true,
	}
	outcome.Shortfall = taxResult.TotalTax.Sub(cashAvailable).Sub(planned)
	if outcome.Shortfall.LessThan(decimal.Zero) {
		outcome.Shortfall = decimal.Zero
	}

	for _, ps := range steps {
		fr.commit(ps)
		outcome.Steps = append(outcome.Steps, ps.step)
	}
	return taxResult, outcome, nil
}
