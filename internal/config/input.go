package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/nwgo/networth-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ScenarioFile is the on-disk YAML layout: one scenario with its holdings,
// income sources, and optional tax settings.
type ScenarioFile struct {
	Scenario      domain.Scenario            `yaml:"scenario" json:"scenario"`
	Holdings      []domain.Holding           `yaml:"holdings" json:"holdings"`
	IncomeSources []domain.IncomeSource      `yaml:"income_sources,omitempty" json:"income_sources,omitempty"`
	Funding       *domain.TaxFundingSettings `yaml:"tax_funding,omitempty" json:"tax_funding,omitempty"`
	TaxTables     []domain.CustomTaxTable    `yaml:"tax_tables,omitempty" json:"tax_tables,omitempty"`
}

// FundingSettings returns the file's funding settings, or the defaults when
// the section is omitted.
func (sf *ScenarioFile) FundingSettings() domain.TaxFundingSettings {
	if sf.Funding != nil {
		return *sf.Funding
	}
	return domain.DefaultTaxFundingSettings()
}

// InputParser handles parsing of scenario configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario file from YAML, validates it, and assigns
// identifiers to holdings and sources that omit them.
func (ip *InputParser) LoadFromFile(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.AssignIdentifiers(&file)

	if err := ip.Validate(&file); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &file, nil
}

// AssignIdentifiers gives every holding and income source a stable ID when
// the file omits one. Link references must use explicit IDs, so generated
// ones only matter for output series keys.
func (ip *InputParser) AssignIdentifiers(file *ScenarioFile) {
	for i := range file.Holdings {
		if file.Holdings[i].ID == "" {
			file.Holdings[i].ID = uuid.NewString()
		}
	}
	for i := range file.IncomeSources {
		if file.IncomeSources[i].ID == "" {
			file.IncomeSources[i].ID = uuid.NewString()
		}
	}
}

// Validate checks the whole file: scenario bounds, each holding and source,
// funding settings, custom tables, and cross-references from sources to
// holdings.
func (ip *InputParser) Validate(file *ScenarioFile) error {
	if err := file.Scenario.Validate(); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}

	if len(file.Holdings) == 0 {
		return fmt.Errorf("no holdings provided")
	}

	byID := make(map[string]*domain.Holding, len(file.Holdings))
	for i := range file.Holdings {
		h := &file.Holdings[i]
		if err := h.Validate(); err != nil {
			return err
		}
		if _, dup := byID[h.ID]; dup {
			return fmt.Errorf("duplicate holding id %q", h.ID)
		}
		byID[h.ID] = h
	}

	for i := range file.IncomeSources {
		src := &file.IncomeSources[i]
		if err := src.Validate(); err != nil {
			return err
		}
		if src.LinkedHoldingID == "" {
			continue
		}
		linked, ok := byID[src.LinkedHoldingID]
		if !ok {
			return fmt.Errorf("source %q links to unknown holding %q", src.Name, src.LinkedHoldingID)
		}
		if src.Mode == domain.ModeAssetSale && linked.Kind != domain.KindRealEstate {
			return fmt.Errorf("source %q: asset sale must link to a real estate holding, got %q", src.Name, linked.Kind)
		}
		if src.Mode == domain.ModeDrawdown && linked.Kind == domain.KindRealEstate {
			return fmt.Errorf("source %q: drawdown cannot link to real estate; use an asset sale", src.Name)
		}
		if src.Mode == domain.ModeDrawdown && linked.Kind == domain.KindEquityGrant {
			return fmt.Errorf("source %q: drawdown cannot link to an unvested grant", src.Name)
		}
	}

	settings := file.FundingSettings()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("tax funding settings: %w", err)
	}

	for i := range file.TaxTables {
		if err := file.TaxTables[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// evenTranches splits a vesting schedule evenly across the given dates.
func evenTranches(dates []time.Time) []domain.VestingTranche {
	fraction := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(dates))))
	tranches := make([]domain.VestingTranche, 0, len(dates))
	for _, d := range dates {
		tranches = append(tranches, domain.VestingTranche{Date: d, Fraction: fraction})
	}
	return tranches
}

// CreateExampleScenario builds a complete scenario file demonstrating every
// holding kind and source mode.
func (ip *InputParser) CreateExampleScenario() *ScenarioFile {
	grantDate := time.Date(time.Now().Year(), 3, 1, 0, 0, 0, 0, time.UTC)

	return &ScenarioFile{
		Scenario: domain.Scenario{
			Name:          "example",
			Description:   "One household, every holding kind",
			CurrentAge:    45,
			RetirementAge: 65,
			EndAge:        90,
			BaseYear:      time.Now().Year(),
			InflationRate: decimal.NewFromFloat(0.03),
			FilingStatus:  domain.FilingMarriedJointly,
			State:         "CA",

			AnnualContributionPreRetirement: decimal.NewFromInt(10000),
			AnnualSpendingInRetirement:      decimal.NewFromInt(90000),
		},
		Holdings: []domain.Holding{
			{
				ID:   "checking",
				Name: "Checking & savings",
				Kind: domain.KindCash,
				Cash: &domain.CashDetails{Balance: decimal.NewFromInt(50000)},
			},
			{
				ID:   "brokerage",
				Name: "Taxable brokerage",
				Kind: domain.KindEquityAccount,
				EquityAccount: &domain.EquityAccountDetails{
					Balance:            decimal.NewFromInt(300000),
					ExpectedReturnRate: decimal.NewFromFloat(0.06),
					FeeRate:            decimal.NewFromFloat(0.001),
					AnnualContribution: decimal.NewFromInt(12000),
					Wrapper:            domain.WrapperTaxable,
					CostBasis:          decimal.NewFromInt(200000),
				},
			},
			{
				ID:   "traditional-401k",
				Name: "Traditional 401(k)",
				Kind: domain.KindEquityAccount,
				EquityAccount: &domain.EquityAccountDetails{
					Balance:            decimal.NewFromInt(450000),
					ExpectedReturnRate: decimal.NewFromFloat(0.06),
					AnnualContribution: decimal.NewFromInt(23000),
					Wrapper:            domain.WrapperTaxDeferred,
				},
			},
			{
				ID:   "roth-ira",
				Name: "Roth IRA",
				Kind: domain.KindEquityAccount,
				EquityAccount: &domain.EquityAccountDetails{
					Balance:            decimal.NewFromInt(120000),
					ExpectedReturnRate: decimal.NewFromFloat(0.06),
					Wrapper:            domain.WrapperTaxFree,
				},
			},
			{
				ID:   "acme-shares",
				Name: "ACME stock",
				Kind: domain.KindSecurity,
				Security: &domain.SecurityDetails{
					Symbol:           "ACME",
					SharesOwned:      decimal.NewFromInt(500),
					CurrentPrice:     decimal.NewFromInt(200),
					AppreciationRate: decimal.NewFromFloat(0.07),
					Wrapper:          domain.WrapperTaxable,
					CostBasis:        decimal.NewFromInt(60000),
				},
			},
			{
				ID:   "rental-duplex",
				Name: "Rental duplex",
				Kind: domain.KindRealEstate,
				RealEstate: &domain.RealEstateDetails{
					MarketValue:        decimal.NewFromInt(650000),
					AppreciationRate:   decimal.NewFromFloat(0.035),
					MortgageBalance:    decimal.NewFromInt(320000),
					MortgageRate:       decimal.NewFromFloat(0.0425),
					MortgageTermYears:  30,
					AnnualRent:         decimal.NewFromInt(42000),
					PurchasePrice:      decimal.NewFromInt(480000),
					LandValue:          decimal.NewFromInt(120000),
					DepreciationMethod: domain.DepreciationResidential,
					Classification:     domain.PropertyRental,
				},
			},
			{
				ID:   "acme-rsu",
				Name: "ACME RSU grant",
				Kind: domain.KindEquityGrant,
				EquityGrant: &domain.EquityGrantDetails{
					Symbol:           "ACME",
					AppreciationRate: decimal.NewFromFloat(0.07),
					GrantDate:        grantDate,
					SharesGranted:    decimal.NewFromInt(400),
					FMVAtGrant:       decimal.NewFromInt(200),
					Tranches:         evenTranches(dateutil.AnnualDates(grantDate.AddDate(1, 0, 0), 4)),
				},
			},
		},
		IncomeSources: []domain.IncomeSource{
			{
				ID:               "salary",
				Name:             "Salary",
				Amount:           decimal.NewFromInt(220000),
				StartAge:         45,
				EndAge:           64,
				AppreciationRate: decimal.NewFromFloat(0.03),
				Mode:             domain.ModeIncome,
				IncomeType:       domain.IncomeOrdinary,
			},
			{
				ID:               "social-security",
				Name:             "Social Security",
				Amount:           decimal.NewFromInt(40000),
				StartAge:         67,
				EndAge:           90,
				AppreciationRate: decimal.NewFromFloat(0.02),
				Mode:             domain.ModeIncome,
				IncomeType:       domain.IncomeSocialSecurity,
			},
			{
				ID:              "401k-drawdown",
				Name:            "401(k) drawdown",
				Amount:          decimal.NewFromInt(60000),
				StartAge:        65,
				EndAge:          90,
				Mode:            domain.ModeDrawdown,
				LinkedHoldingID: "traditional-401k",
			},
			{
				ID:              "sell-duplex",
				Name:            "Sell the duplex",
				Amount:          decimal.Zero,
				StartAge:        75,
				EndAge:          75,
				Mode:            domain.ModeAssetSale,
				LinkedHoldingID: "rental-duplex",
			},
		},
	}
}
