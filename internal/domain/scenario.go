package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FilingStatus identifies the federal/state filing status used for bracket
// and threshold lookups.
type FilingStatus string

const (
	FilingSingle            FilingStatus = "single"
	FilingMarriedJointly    FilingStatus = "married_filing_jointly"
	FilingMarriedSeparately FilingStatus = "married_filing_separately"
	FilingHeadOfHousehold   FilingStatus = "head_of_household"
)

// Valid reports whether the filing status is one of the recognized values.
func (fs FilingStatus) Valid() bool {
	switch fs {
	case FilingSingle, FilingMarriedJointly, FilingMarriedSeparately, FilingHeadOfHousehold:
		return true
	}
	return false
}

// IndexingPolicy controls how custom tax-table thresholds are carried from
// their base year to a projection year.
type IndexingPolicy string

const (
	IndexConstantNominal   IndexingPolicy = "constant_nominal"
	IndexScenarioInflation IndexingPolicy = "scenario_inflation"
	IndexCustomRate        IndexingPolicy = "custom_rate"
)

func (p IndexingPolicy) Valid() bool {
	switch p {
	case IndexConstantNominal, IndexScenarioInflation, IndexCustomRate:
		return true
	}
	return false
}

// Scenario holds the run-wide assumptions for one projection. It is immutable
// for the duration of a run; the engine never writes back to it.
type Scenario struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	CurrentAge    int `yaml:"current_age" json:"current_age"`
	RetirementAge int `yaml:"retirement_age" json:"retirement_age"`
	EndAge        int `yaml:"end_age" json:"end_age"`

	// BaseYear maps CurrentAge onto a calendar year, anchoring vesting dates
	// and tax-table lookups.
	BaseYear int `yaml:"base_year" json:"base_year"`

	InflationRate decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`

	FilingStatus FilingStatus `yaml:"filing_status" json:"filing_status"`
	State        string       `yaml:"state,omitempty" json:"state,omitempty"`

	AnnualContributionPreRetirement decimal.Decimal `yaml:"annual_contribution_pre_retirement" json:"annual_contribution_pre_retirement"`
	AnnualSpendingInRetirement      decimal.Decimal `yaml:"annual_spending_in_retirement" json:"annual_spending_in_retirement"`
}

// YearFor returns the calendar year corresponding to a simulated age.
func (s *Scenario) YearFor(age int) int {
	return s.BaseYear + (age - s.CurrentAge)
}

// ProjectionYears returns the number of simulated years, inclusive of both
// the current and end ages.
func (s *Scenario) ProjectionYears() int {
	return s.EndAge - s.CurrentAge + 1
}

// Validate checks the scenario-level invariants.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive")
	}
	if s.EndAge < s.CurrentAge {
		return fmt.Errorf("end age (%d) cannot be before current age (%d)", s.EndAge, s.CurrentAge)
	}
	if s.RetirementAge < 0 {
		return fmt.Errorf("retirement age cannot be negative")
	}
	if s.BaseYear < 1900 || s.BaseYear > 2200 {
		return fmt.Errorf("base year %d out of range", s.BaseYear)
	}
	if s.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) || s.InflationRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("inflation rate must be between -10%% and 20%%, got %s", s.InflationRate.String())
	}
	if !s.FilingStatus.Valid() {
		return fmt.Errorf("unrecognized filing status %q", s.FilingStatus)
	}
	if s.AnnualContributionPreRetirement.IsNegative() {
		return fmt.Errorf("annual contribution cannot be negative")
	}
	if s.AnnualSpendingInRetirement.IsNegative() {
		return fmt.Errorf("annual spending cannot be negative")
	}
	return nil
}
