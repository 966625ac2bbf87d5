package calculation

import (
	"fmt"

	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// HoldingState is the mutable working record for one input holding. The
// projection loop mutates these; the input Holding itself is never touched.
type HoldingState struct {
	Holding *domain.Holding

	// Cash.
	CashBalance decimal.Decimal

	// Equity account.
	AccountBalance decimal.Decimal
	AccountBasis   decimal.Decimal

	// Directly held security.
	Shares        decimal.Decimal
	Price         decimal.Decimal
	SecurityBasis decimal.Decimal

	// Real estate.
	PropertyValue          decimal.Decimal
	MortgageBalance        decimal.Decimal
	MortgageYearsRemaining int
	AccumDepreciation      decimal.Decimal

	// Equity grant: fraction-weighted shares not yet vested, plus a
	// delivered flag per tranche so a tranche fires exactly once.
	UnvestedShares    decimal.Decimal
	GrantFMV          decimal.Decimal
	TranchesDelivered []bool

	// Sold marks a holding removed by an asset-sale event.
	Sold bool
}

// Wrapper returns the holding's tax wrapper, defaulting to taxable.
func (hs *HoldingState) Wrapper() domain.TaxWrapper {
	switch hs.Holding.Kind {
	case domain.KindEquityAccount:
		if hs.Holding.EquityAccount != nil && hs.Holding.EquityAccount.Wrapper != "" {
			return hs.Holding.EquityAccount.Wrapper
		}
	case domain.KindSecurity:
		if hs.Holding.Security != nil && hs.Holding.Security.Wrapper != "" {
			return hs.Holding.Security.Wrapper
		}
	}
	return domain.WrapperTaxable
}

// Value returns the holding's current net asset value. Real estate is net of
// the outstanding mortgage; unvested grant shares are marked to the
// underlying security's current price so vesting moves value between buckets
// instead of creating it.
func (hs *HoldingState) Value() decimal.Decimal {
	if hs.Sold {
		return decimal.Zero
	}
	switch hs.Holding.Kind {
	case domain.KindCash:
		return hs.CashBalance
	case domain.KindEquityAccount:
		return hs.AccountBalance
	case domain.KindSecurity:
		return hs.Shares.Mul(hs.Price)
	case domain.KindRealEstate:
		return hs.PropertyValue.Sub(hs.MortgageBalance)
	case domain.KindEquityGrant:
		return hs.UnvestedShares.Mul(hs.Price)
	}
	return decimal.Zero
}

// VestedPool accumulates shares delivered by grant vesting, one pool per
// symbol, carried at weighted-average basis.
type VestedPool struct {
	Symbol       string
	Shares       decimal.Decimal
	Basis        decimal.Decimal // total, not per share
	CurrentPrice decimal.Decimal
}

// Value returns the pool's market value at its current price.
func (vp *VestedPool) Value() decimal.Decimal {
	return vp.Shares.Mul(vp.CurrentPrice)
}

// Deposit adds newly vested shares at the given total cost.
func (vp *VestedPool) Deposit(shares, cost decimal.Decimal) {
	vp.Shares = vp.Shares.Add(shares)
	vp.Basis = vp.Basis.Add(cost)
}

// SimulationState is the working arena for one scenario run. Holdings keep
// their input order and pools their creation order, so iteration is
// deterministic run to run.
type SimulationState struct {
	Holdings []*HoldingState
	Pools    []*VestedPool

	byID         map[string]*HoldingState
	poolBySymbol map[string]*VestedPool
}

// NewSimulationState seeds working records from the input holdings.
func NewSimulationState(holdings []domain.Holding) (*SimulationState, error) {
	state := &SimulationState{
		byID:         make(map[string]*HoldingState, len(holdings)),
		poolBySymbol: make(map[string]*VestedPool),
	}

	for i := range holdings {
		h := &holdings[i]
		hs := &HoldingState{Holding: h}

		switch h.Kind {
		case domain.KindCash:
			if h.Cash != nil {
				hs.CashBalance = h.Cash.Balance
			}
		case domain.KindEquityAccount:
			if h.EquityAccount != nil {
				hs.AccountBalance = h.EquityAccount.Balance
				hs.AccountBasis = h.EquityAccount.CostBasis
			}
		case domain.KindSecurity:
			if h.Security != nil {
				hs.Shares = h.Security.SharesOwned
				hs.Price = h.Security.CurrentPrice
				hs.SecurityBasis = h.Security.CostBasis
			}
		case domain.KindRealEstate:
			if h.RealEstate != nil {
				hs.PropertyValue = h.RealEstate.MarketValue
				hs.MortgageBalance = h.RealEstate.MortgageBalance
				hs.MortgageYearsRemaining = h.RealEstate.MortgageTermYears - h.RealEstate.MortgageYearsElapsed
				hs.AccumDepreciation = h.RealEstate.AccumulatedDepreciation
			}
		case domain.KindEquityGrant:
			shares, err := h.EquityGrant.ResolveShares()
			if err != nil {
				return nil, err
			}
			fmv, err := h.EquityGrant.ResolveFMV()
			if err != nil {
				return nil, err
			}
			hs.UnvestedShares = shares
			hs.GrantFMV = fmv
			hs.TranchesDelivered = make([]bool, len(h.EquityGrant.Tranches))
			// Pools exist from the start so output series stay aligned
			// across every simulated year.
			state.Pool(h.EquityGrant.Symbol)
		}

		state.Holdings = append(state.Holdings, hs)
		if h.ID != "" {
			if _, dup := state.byID[h.ID]; dup {
				return nil, fmt.Errorf("duplicate holding id %q", h.ID)
			}
			state.byID[h.ID] = hs
		}
	}
	return state, nil
}

// HoldingByID looks up a working record by input id.
func (s *SimulationState) HoldingByID(id string) (*HoldingState, bool) {
	hs, ok := s.byID[id]
	return hs, ok
}

// Pool returns the vested pool for a symbol, creating it on first use.
func (s *SimulationState) Pool(symbol string) *VestedPool {
	if vp, ok := s.poolBySymbol[symbol]; ok {
		return vp
	}
	vp := &VestedPool{Symbol: symbol}
	s.poolBySymbol[symbol] = vp
	s.Pools = append(s.Pools, vp)
	return vp
}

// TotalAssets sums net holding values plus vested pool values.
func (s *SimulationState) TotalAssets() decimal.Decimal {
	total := decimal.Zero
	for _, hs := range s.Holdings {
		total = total.Add(hs.Value())
	}
	for _, vp := range s.Pools {
		total = total.Add(vp.Value())
	}
	return total
}

// FirstEquityAccount returns the first non-sold equity account, used as the
// destination for scenario-level contributions.
func (s *SimulationState) FirstEquityAccount() (*HoldingState, bool) {
	for _, hs := range s.Holdings {
		if hs.Holding.Kind == domain.KindEquityAccount && !hs.Sold {
			return hs, true
		}
	}
	return nil, false
}
