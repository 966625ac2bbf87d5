package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SourceMode distinguishes the three behaviors of an income/drawdown record.
type SourceMode string

const (
	ModeIncome    SourceMode = "income"     // recurring income
	ModeDrawdown  SourceMode = "drawdown"   // withdrawal from one linked holding
	ModeAssetSale SourceMode = "asset_sale" // one-shot real-estate sale trigger
)

// IncomeType is the tax treatment of a recurring income source.
type IncomeType string

const (
	IncomeOrdinary       IncomeType = "ordinary"
	IncomeSocialSecurity IncomeType = "social_security"
	IncomeTaxExempt      IncomeType = "tax_exempt"
	IncomeDisability     IncomeType = "disability"
)

func (t IncomeType) Valid() bool {
	switch t {
	case IncomeOrdinary, IncomeSocialSecurity, IncomeTaxExempt, IncomeDisability:
		return true
	}
	return false
}

// IncomeSource is a declared income, drawdown, or sale-trigger rule, active
// between StartAge and EndAge inclusive.
type IncomeSource struct {
	ID   string `yaml:"id,omitempty" json:"id"`
	Name string `yaml:"name" json:"name"`

	Amount           decimal.Decimal `yaml:"amount" json:"amount"`
	StartAge         int             `yaml:"start_age" json:"start_age"`
	EndAge           int             `yaml:"end_age" json:"end_age"`
	AppreciationRate decimal.Decimal `yaml:"appreciation_rate" json:"appreciation_rate"`

	Mode SourceMode `yaml:"mode" json:"mode"`

	// IncomeType applies to ModeIncome only; drawdown taxation follows the
	// linked holding's tax wrapper instead.
	IncomeType IncomeType `yaml:"income_type,omitempty" json:"income_type,omitempty"`

	// LinkedHoldingID identifies the holding a drawdown depletes or the
	// property an asset sale liquidates.
	LinkedHoldingID string `yaml:"linked_holding_id,omitempty" json:"linked_holding_id,omitempty"`
}

// ActiveAt reports whether the source applies at the given simulated age.
func (s *IncomeSource) ActiveAt(age int) bool {
	return age >= s.StartAge && age <= s.EndAge
}

// NominalAmount grows the declared amount at the source's appreciation rate
// for the number of years since the source started.
func (s *IncomeSource) NominalAmount(age int) decimal.Decimal {
	years := age - s.StartAge
	if years <= 0 || s.AppreciationRate.IsZero() {
		return s.Amount
	}
	factor := decimal.NewFromInt(1).Add(s.AppreciationRate).Pow(decimal.NewFromInt(int64(years)))
	return s.Amount.Mul(factor)
}

// Validate checks the source's mode-specific requirements.
func (s *IncomeSource) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("income source name is required")
	}
	if s.EndAge < s.StartAge {
		return fmt.Errorf("source %q: end age before start age", s.Name)
	}
	switch s.Mode {
	case ModeIncome:
		if s.IncomeType != "" && !s.IncomeType.Valid() {
			return fmt.Errorf("source %q: unrecognized income type %q", s.Name, s.IncomeType)
		}
	case ModeDrawdown, ModeAssetSale:
		if s.LinkedHoldingID == "" {
			return fmt.Errorf("source %q: %s requires linked_holding_id", s.Name, s.Mode)
		}
	default:
		return fmt.Errorf("source %q: unrecognized mode %q", s.Name, s.Mode)
	}
	if s.Amount.IsNegative() {
		return fmt.Errorf("source %q: amount cannot be negative", s.Name)
	}
	return nil
}
