package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// HoldingKind tags the variant of a Holding's detail record.
type HoldingKind string

const (
	KindCash          HoldingKind = "cash"
	KindEquityAccount HoldingKind = "equity_account"
	KindSecurity      HoldingKind = "security"
	KindRealEstate    HoldingKind = "real_estate"
	KindEquityGrant   HoldingKind = "equity_grant"
)

// TaxWrapper classifies how withdrawals from an account are taxed.
type TaxWrapper string

const (
	WrapperTaxable     TaxWrapper = "taxable"
	WrapperTaxDeferred TaxWrapper = "tax_deferred"
	WrapperTaxFree     TaxWrapper = "tax_free"
	WrapperExemptOther TaxWrapper = "tax_exempt_other"
)

func (w TaxWrapper) Valid() bool {
	switch w {
	case WrapperTaxable, WrapperTaxDeferred, WrapperTaxFree, WrapperExemptOther:
		return true
	}
	return false
}

// PropertyClass distinguishes rental property from a primary residence.
type PropertyClass string

const (
	PropertyRental  PropertyClass = "rental"
	PropertyPrimary PropertyClass = "primary"
)

// DepreciationMethod selects the straight-line recovery period for a rental
// property, or disables depreciation entirely.
type DepreciationMethod string

const (
	DepreciationResidential DepreciationMethod = "residential" // 27.5-year straight line
	DepreciationCommercial  DepreciationMethod = "commercial"  // 39-year straight line
	DepreciationNone        DepreciationMethod = "none"
)

// Holding is a tagged union: exactly one detail pointer matching Kind should
// be set. A holding whose detail record is missing degrades to a flat
// zero-effect balance rather than failing (partial historical data is
// expected).
type Holding struct {
	ID   string      `yaml:"id,omitempty" json:"id"`
	Name string      `yaml:"name" json:"name"`
	Kind HoldingKind `yaml:"kind" json:"kind"`

	Cash          *CashDetails          `yaml:"cash,omitempty" json:"cash,omitempty"`
	EquityAccount *EquityAccountDetails `yaml:"equity_account,omitempty" json:"equity_account,omitempty"`
	Security      *SecurityDetails      `yaml:"security,omitempty" json:"security,omitempty"`
	RealEstate    *RealEstateDetails    `yaml:"real_estate,omitempty" json:"real_estate,omitempty"`
	EquityGrant   *EquityGrantDetails   `yaml:"equity_grant,omitempty" json:"equity_grant,omitempty"`
}

// CashDetails is a plain balance with no growth of its own.
type CashDetails struct {
	Balance decimal.Decimal `yaml:"balance" json:"balance"`
}

// EquityAccountDetails describes a fund-style account (brokerage, IRA, Roth).
type EquityAccountDetails struct {
	Balance            decimal.Decimal `yaml:"balance" json:"balance"`
	ExpectedReturnRate decimal.Decimal `yaml:"expected_return_rate" json:"expected_return_rate"`
	FeeRate            decimal.Decimal `yaml:"fee_rate" json:"fee_rate"`
	AnnualContribution decimal.Decimal `yaml:"annual_contribution" json:"annual_contribution"`
	Wrapper            TaxWrapper      `yaml:"tax_wrapper" json:"tax_wrapper"`

	// CostBasis is meaningful for taxable accounts only; it drives the
	// pro-rata gain split on withdrawal.
	CostBasis decimal.Decimal `yaml:"cost_basis,omitempty" json:"cost_basis,omitempty"`
}

// SecurityDetails describes a directly held position in one ticker.
type SecurityDetails struct {
	Symbol           string          `yaml:"symbol" json:"symbol"`
	SharesOwned      decimal.Decimal `yaml:"shares_owned" json:"shares_owned"`
	CurrentPrice     decimal.Decimal `yaml:"current_price" json:"current_price"`
	AppreciationRate decimal.Decimal `yaml:"appreciation_rate" json:"appreciation_rate"`
	Wrapper          TaxWrapper      `yaml:"tax_wrapper" json:"tax_wrapper"`
	CostBasis        decimal.Decimal `yaml:"cost_basis,omitempty" json:"cost_basis,omitempty"`

	// FromVesting marks positions produced by grant vesting rather than
	// entered by the user.
	FromVesting bool `yaml:"from_vesting,omitempty" json:"from_vesting,omitempty"`
}

// RealEstateDetails describes a property, its mortgage, and its depreciation
// schedule.
type RealEstateDetails struct {
	MarketValue      decimal.Decimal `yaml:"market_value" json:"market_value"`
	AppreciationRate decimal.Decimal `yaml:"appreciation_rate" json:"appreciation_rate"`

	MortgageBalance      decimal.Decimal `yaml:"mortgage_balance" json:"mortgage_balance"`
	MortgageRate         decimal.Decimal `yaml:"mortgage_rate" json:"mortgage_rate"`
	MortgageTermYears    int             `yaml:"mortgage_term_years" json:"mortgage_term_years"`
	MortgageYearsElapsed int             `yaml:"mortgage_years_elapsed" json:"mortgage_years_elapsed"`
	InterestOnly         bool            `yaml:"interest_only" json:"interest_only"`

	AnnualRent decimal.Decimal `yaml:"annual_rent" json:"annual_rent"`

	PurchasePrice decimal.Decimal `yaml:"purchase_price" json:"purchase_price"`
	LandValue     decimal.Decimal `yaml:"land_value" json:"land_value"`

	DepreciationMethod      DepreciationMethod `yaml:"depreciation_method" json:"depreciation_method"`
	DepreciationStartYear   int                `yaml:"depreciation_start_year" json:"depreciation_start_year"`
	AccumulatedDepreciation decimal.Decimal    `yaml:"accumulated_depreciation" json:"accumulated_depreciation"`

	Classification PropertyClass `yaml:"classification" json:"classification"`

	// Occupancy window (ages, inclusive) used by the simplified 2-of-5-year
	// primary-residence exclusion test.
	OccupancyStartAge int `yaml:"occupancy_start_age,omitempty" json:"occupancy_start_age,omitempty"`
	OccupancyEndAge   int `yaml:"occupancy_end_age,omitempty" json:"occupancy_end_age,omitempty"`
}

// VestingTranche is one scheduled conversion of a grant fraction into owned
// shares.
type VestingTranche struct {
	Date     time.Time       `yaml:"date" json:"date"`
	Fraction decimal.Decimal `yaml:"fraction" json:"fraction"`
}

// EquityGrantDetails describes an RSU-style grant over an underlying
// security.
type EquityGrantDetails struct {
	Symbol string    `yaml:"symbol" json:"symbol"`
	// AppreciationRate is the assumed annual growth of the underlying
	// security's fair market value. A directly held Security holding with
	// the same symbol overrides it.
	AppreciationRate decimal.Decimal `yaml:"appreciation_rate" json:"appreciation_rate"`

	GrantDate  time.Time       `yaml:"grant_date" json:"grant_date"`
	GrantValue decimal.Decimal `yaml:"grant_value,omitempty" json:"grant_value,omitempty"`
	FMVAtGrant decimal.Decimal `yaml:"fmv_at_grant,omitempty" json:"fmv_at_grant,omitempty"`

	SharesGranted decimal.Decimal  `yaml:"shares_granted,omitempty" json:"shares_granted,omitempty"`
	Tranches      []VestingTranche `yaml:"vesting_tranches" json:"vesting_tranches"`
}

// trancheSumTolerance is the permitted deviation of tranche fractions from 1.0.
var trancheSumTolerance = decimal.New(1, -6)

// ResolveShares returns the total granted share count, deriving it from
// grant value and per-share FMV when not given directly.
func (g *EquityGrantDetails) ResolveShares() (decimal.Decimal, error) {
	if g.SharesGranted.IsPositive() {
		return g.SharesGranted, nil
	}
	if g.GrantValue.IsPositive() && g.FMVAtGrant.IsPositive() {
		return g.GrantValue.Div(g.FMVAtGrant), nil
	}
	return decimal.Zero, fmt.Errorf("grant %q needs shares_granted, or both grant_value and fmv_at_grant", g.Symbol)
}

// ResolveFMV returns the per-share fair market value at grant, deriving it
// from grant value and share count when not given directly.
func (g *EquityGrantDetails) ResolveFMV() (decimal.Decimal, error) {
	if g.FMVAtGrant.IsPositive() {
		return g.FMVAtGrant, nil
	}
	if g.GrantValue.IsPositive() && g.SharesGranted.IsPositive() {
		return g.GrantValue.Div(g.SharesGranted), nil
	}
	return decimal.Zero, fmt.Errorf("grant %q needs fmv_at_grant, or both grant_value and shares_granted", g.Symbol)
}

// ValidateTranches checks the sum-to-one invariant on vesting fractions.
func (g *EquityGrantDetails) ValidateTranches() error {
	if len(g.Tranches) == 0 {
		return fmt.Errorf("grant %q has no vesting tranches", g.Symbol)
	}
	sum := decimal.Zero
	for _, tr := range g.Tranches {
		if tr.Fraction.IsNegative() {
			return fmt.Errorf("grant %q has a negative vesting fraction", g.Symbol)
		}
		sum = sum.Add(tr.Fraction)
	}
	if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(trancheSumTolerance) {
		return fmt.Errorf("grant %q vesting fractions sum to %s, expected 1.0", g.Symbol, sum.String())
	}
	return nil
}

// Validate checks the holding's kind/detail consistency and kind-specific
// invariants. Missing detail records are permitted and degrade to a
// zero-effect default; present ones must be internally consistent.
func (h *Holding) Validate() error {
	switch h.Kind {
	case KindCash, KindEquityAccount, KindSecurity, KindRealEstate:
		// Optional details; validated below when present.
	case KindEquityGrant:
		if h.EquityGrant == nil {
			return fmt.Errorf("holding %q: equity grant requires detail record", h.Name)
		}
	default:
		return fmt.Errorf("holding %q: unrecognized kind %q", h.Name, h.Kind)
	}

	if h.EquityAccount != nil && h.EquityAccount.Wrapper != "" && !h.EquityAccount.Wrapper.Valid() {
		return fmt.Errorf("holding %q: unrecognized tax wrapper %q", h.Name, h.EquityAccount.Wrapper)
	}
	if h.Security != nil && h.Security.Wrapper != "" && !h.Security.Wrapper.Valid() {
		return fmt.Errorf("holding %q: unrecognized tax wrapper %q", h.Name, h.Security.Wrapper)
	}
	if h.EquityGrant != nil {
		if err := h.EquityGrant.ValidateTranches(); err != nil {
			return fmt.Errorf("holding %q: %w", h.Name, err)
		}
		if _, err := h.EquityGrant.ResolveShares(); err != nil {
			return fmt.Errorf("holding %q: %w", h.Name, err)
		}
		if _, err := h.EquityGrant.ResolveFMV(); err != nil {
			return fmt.Errorf("holding %q: %w", h.Name, err)
		}
	}
	return nil
}
