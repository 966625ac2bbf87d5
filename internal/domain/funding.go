package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FundingSource is one liquidation category in the tax funding order.
type FundingSource string

const (
	FundCash             FundingSource = "cash"
	FundTaxableBrokerage FundingSource = "taxable_brokerage"
	FundTaxDeferred      FundingSource = "tax_deferred"
	FundTaxFree          FundingSource = "tax_free"
)

func (f FundingSource) Valid() bool {
	switch f {
	case FundCash, FundTaxableBrokerage, FundTaxDeferred, FundTaxFree:
		return true
	}
	return false
}

// ShortfallPolicy selects what happens when the funding order cannot cover a
// tax bill.
type ShortfallPolicy string

const (
	// ShortfallRecord stops at the end of the priority order and records the
	// unmet amount.
	ShortfallRecord ShortfallPolicy = "fail_with_shortfall"
	// ShortfallLiquidateAll drains every eligible source before recording the
	// remainder.
	ShortfallLiquidateAll ShortfallPolicy = "liquidate_all"
)

func (p ShortfallPolicy) Valid() bool {
	return p == ShortfallRecord || p == ShortfallLiquidateAll
}

// TaxFundingSettings controls how each year's tax bill is paid.
type TaxFundingSettings struct {
	Order            []FundingSource `yaml:"order" json:"order"`
	AllowTaxDeferred bool            `yaml:"allow_tax_deferred" json:"allow_tax_deferred"`
	ShortfallPolicy  ShortfallPolicy `yaml:"shortfall_policy" json:"shortfall_policy"`

	// IndexingPolicy carries custom tax tables from their base year to each
	// projection year. CustomIndexRate is consulted for IndexCustomRate only.
	IndexingPolicy  IndexingPolicy   `yaml:"indexing_policy,omitempty" json:"indexing_policy,omitempty"`
	CustomIndexRate *decimal.Decimal `yaml:"custom_index_rate,omitempty" json:"custom_index_rate,omitempty"`
}

// DefaultTaxFundingSettings is the documented default used when a scenario
// supplies none: cash first, then taxable brokerage, tax-deferred, tax-free;
// tax-deferred withdrawals permitted; shortfalls recorded rather than forced.
func DefaultTaxFundingSettings() TaxFundingSettings {
	return TaxFundingSettings{
		Order:            []FundingSource{FundCash, FundTaxableBrokerage, FundTaxDeferred, FundTaxFree},
		AllowTaxDeferred: true,
		ShortfallPolicy:  ShortfallRecord,
		IndexingPolicy:   IndexConstantNominal,
	}
}

// Validate checks the funding order is recognized and duplicate-free and the
// policies are known values.
func (t *TaxFundingSettings) Validate() error {
	if len(t.Order) == 0 {
		return fmt.Errorf("tax funding order is empty")
	}
	seen := make(map[FundingSource]bool, len(t.Order))
	for _, src := range t.Order {
		if !src.Valid() {
			return fmt.Errorf("unrecognized funding source %q", src)
		}
		if seen[src] {
			return fmt.Errorf("duplicate funding source %q", src)
		}
		seen[src] = true
	}
	if !t.ShortfallPolicy.Valid() {
		return fmt.Errorf("unrecognized shortfall policy %q", t.ShortfallPolicy)
	}
	if t.IndexingPolicy != "" && !t.IndexingPolicy.Valid() {
		return fmt.Errorf("unrecognized indexing policy %q", t.IndexingPolicy)
	}
	if t.IndexingPolicy == IndexCustomRate && t.CustomIndexRate == nil {
		return fmt.Errorf("custom_index_rate is required for the %s indexing policy", IndexCustomRate)
	}
	return nil
}

// TaxBracket is one progressive band: income up to UpTo is taxed at Rate.
// A nil UpTo marks the unbounded top band.
type TaxBracket struct {
	UpTo *decimal.Decimal `yaml:"up_to" json:"up_to"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

// TaxTable is a bracket schedule plus its standard deduction for one
// jurisdiction, filing status, and base year.
type TaxTable struct {
	Brackets          []TaxBracket    `yaml:"brackets" json:"brackets"`
	StandardDeduction decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
}

// CustomTaxTable is a user-supplied table overriding the built-in schedule
// for one jurisdiction and filing status, anchored at a base year.
type CustomTaxTable struct {
	Jurisdiction string       `yaml:"jurisdiction" json:"jurisdiction"` // "FED" or a state code
	FilingStatus FilingStatus `yaml:"filing_status" json:"filing_status"`
	YearBase     int          `yaml:"year_base" json:"year_base"`
	Table        TaxTable     `yaml:",inline" json:"table"`
}

// Validate checks bracket ordering and the table's identity fields.
func (c *CustomTaxTable) Validate() error {
	if c.Jurisdiction == "" {
		return fmt.Errorf("custom tax table jurisdiction is required")
	}
	if !c.FilingStatus.Valid() {
		return fmt.Errorf("custom tax table: unrecognized filing status %q", c.FilingStatus)
	}
	if len(c.Table.Brackets) == 0 {
		return fmt.Errorf("custom tax table %s/%s has no brackets", c.Jurisdiction, c.FilingStatus)
	}
	prev := decimal.Zero
	for i, b := range c.Table.Brackets {
		if b.UpTo == nil {
			if i != len(c.Table.Brackets)-1 {
				return fmt.Errorf("custom tax table %s/%s: unbounded bracket must be last", c.Jurisdiction, c.FilingStatus)
			}
			continue
		}
		if b.UpTo.LessThanOrEqual(prev) {
			return fmt.Errorf("custom tax table %s/%s: bracket thresholds must be strictly increasing", c.Jurisdiction, c.FilingStatus)
		}
		prev = *b.UpTo
	}
	return nil
}
