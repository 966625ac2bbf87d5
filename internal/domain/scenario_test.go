package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validScenario() Scenario {
	return Scenario{
		Name:          "baseline",
		CurrentAge:    40,
		RetirementAge: 65,
		EndAge:        90,
		BaseYear:      2024,
		InflationRate: decimal.NewFromFloat(0.03),
		FilingStatus:  FilingMarriedJointly,
		State:         "CA",
	}
}

func TestScenarioYearFor(t *testing.T) {
	s := validScenario()

	assert.Equal(t, 2024, s.YearFor(40))
	assert.Equal(t, 2049, s.YearFor(65))
	assert.Equal(t, 2074, s.YearFor(90))
}

func TestScenarioProjectionYears(t *testing.T) {
	s := validScenario()
	assert.Equal(t, 51, s.ProjectionYears())

	s.EndAge = s.CurrentAge
	assert.Equal(t, 1, s.ProjectionYears())
}

func TestScenarioValidate(t *testing.T) {
	valid := validScenario()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"Missing name", func(s *Scenario) { s.Name = "" }},
		{"Non-positive current age", func(s *Scenario) { s.CurrentAge = 0 }},
		{"End age before current age", func(s *Scenario) { s.EndAge = 39 }},
		{"Base year out of range", func(s *Scenario) { s.BaseYear = 1492 }},
		{"Implausible inflation", func(s *Scenario) { s.InflationRate = decimal.NewFromFloat(0.50) }},
		{"Unknown filing status", func(s *Scenario) { s.FilingStatus = "widowed" }},
		{"Negative contribution", func(s *Scenario) { s.AnnualContributionPreRetirement = decimal.NewFromInt(-1) }},
		{"Negative spending", func(s *Scenario) { s.AnnualSpendingInRetirement = decimal.NewFromInt(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}
