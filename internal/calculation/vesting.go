package calculation

import (
	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// VestEvent records one tranche landing in a calendar year.
type VestEvent struct {
	Symbol      string
	Shares      decimal.Decimal
	Price       decimal.Decimal
	Value       decimal.Decimal
	TrancheDate string
}

// GrantPriceAt projects the underlying security's per-share price for a
// calendar year: the fair market value at grant appreciated from the grant
// year. A directly held security position in the same symbol supplies the
// appreciation rate when one exists, so a grant and a held position in one
// ticker never drift apart.
func GrantPriceAt(grant *HoldingState, year int, state *SimulationState) decimal.Decimal {
	details := grant.Holding.EquityGrant
	rate := details.AppreciationRate
	for _, hs := range state.Holdings {
		if hs.Holding.Kind == domain.KindSecurity && hs.Holding.Security != nil &&
			hs.Holding.Security.Symbol == details.Symbol {
			rate = hs.Holding.Security.AppreciationRate
			break
		}
	}

	years := year - details.GrantDate.Year()
	if years <= 0 {
		return grant.GrantFMV
	}
	growth := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(years)))
	return grant.GrantFMV.Mul(growth)
}

// MarkGrantPrices refreshes every grant's working price for the year. Called
// before valuation so unvested shares are marked to the same price vesting
// will use.
func MarkGrantPrices(state *SimulationState, year int) {
	for _, hs := range state.Holdings {
		if hs.Holding.Kind != domain.KindEquityGrant || hs.Holding.EquityGrant == nil {
			continue
		}
		hs.Price = GrantPriceAt(hs, year, state)
		if pool, ok := state.poolBySymbol[hs.Holding.EquityGrant.Symbol]; ok {
			pool.CurrentPrice = hs.Price
		}
	}
}

// ProcessVesting delivers every undelivered tranche dated in or before the
// given calendar year, so tranches that predate the simulation catch up in
// the first simulated year. Vested shares move into the symbol's pool at a
// cost equal to their market value on delivery; that value is ordinary
// income even though no cash changes hands.
func ProcessVesting(state *SimulationState, year int) ([]VestEvent, error) {
	var events []VestEvent

	for _, hs := range state.Holdings {
		if hs.Holding.Kind != domain.KindEquityGrant || hs.Holding.EquityGrant == nil {
			continue
		}
		details := hs.Holding.EquityGrant

		totalShares, err := details.ResolveShares()
		if err != nil {
			return nil, err
		}

		for i, tranche := range details.Tranches {
			if tranche.Date.Year() > year || hs.TranchesDelivered[i] {
				continue
			}
			hs.TranchesDelivered[i] = true
			shares := totalShares.Mul(tranche.Fraction)
			if shares.LessThanOrEqual(decimal.Zero) {
				continue
			}
			if shares.GreaterThan(hs.UnvestedShares) {
				shares = hs.UnvestedShares
			}

			price := GrantPriceAt(hs, year, state)
			value := shares.Mul(price)

			pool := state.Pool(details.Symbol)
			pool.CurrentPrice = price
			pool.Deposit(shares, value)
			hs.UnvestedShares = hs.UnvestedShares.Sub(shares)

			events = append(events, VestEvent{
				Symbol:      details.Symbol,
				Shares:      shares,
				Price:       price,
				Value:       value,
				TrancheDate: tranche.Date.Format("2006-01-02"),
			})
		}
	}
	return events, nil
}
