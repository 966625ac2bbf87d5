package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeScenarioFile(t *testing.T, file *ScenarioFile) string {
	t.Helper()
	data, err := yaml.Marshal(file)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCreateExampleScenarioIsValid(t *testing.T) {
	parser := NewInputParser()
	example := parser.CreateExampleScenario()

	assert.NoError(t, parser.Validate(example))
}

func TestLoadFromFileRoundTrip(t *testing.T) {
	parser := NewInputParser()
	path := writeScenarioFile(t, parser.CreateExampleScenario())

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "example", loaded.Scenario.Name)
	assert.Len(t, loaded.Holdings, 7)
	assert.Len(t, loaded.IncomeSources, 4)

	duplex := loaded.Holdings[5]
	require.NotNil(t, duplex.RealEstate)
	assert.True(t, duplex.RealEstate.MarketValue.Equal(decimal.NewFromInt(650000)))
	assert.Equal(t, domain.DepreciationResidential, duplex.RealEstate.DepreciationMethod)

	grant := loaded.Holdings[6]
	require.NotNil(t, grant.EquityGrant)
	assert.Len(t, grant.EquityGrant.Tranches, 4)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenario: [not a map"), 0o644))

	_, err := NewInputParser().LoadFromFile(path)
	assert.Error(t, err)
}

func TestAssignIdentifiers(t *testing.T) {
	parser := NewInputParser()
	file := &ScenarioFile{
		Holdings: []domain.Holding{
			{ID: "keep-me", Name: "first", Kind: domain.KindCash},
			{Name: "second", Kind: domain.KindCash},
		},
		IncomeSources: []domain.IncomeSource{
			{Name: "salary", Mode: domain.ModeIncome, StartAge: 40, EndAge: 64},
		},
	}

	parser.AssignIdentifiers(file)

	assert.Equal(t, "keep-me", file.Holdings[0].ID)
	assert.NotEmpty(t, file.Holdings[1].ID)
	assert.NotEmpty(t, file.IncomeSources[0].ID)
	assert.NotEqual(t, file.Holdings[1].ID, file.IncomeSources[0].ID)
}

func TestValidateCrossReferences(t *testing.T) {
	parser := NewInputParser()

	base := func() *ScenarioFile {
		file := parser.CreateExampleScenario()
		parser.AssignIdentifiers(file)
		return file
	}

	t.Run("No holdings", func(t *testing.T) {
		file := base()
		file.Holdings = nil
		assert.Error(t, parser.Validate(file))
	})

	t.Run("Duplicate holding IDs", func(t *testing.T) {
		file := base()
		file.Holdings[1].ID = file.Holdings[0].ID
		assert.Error(t, parser.Validate(file))
	})

	t.Run("Source links to unknown holding", func(t *testing.T) {
		file := base()
		file.IncomeSources[2].LinkedHoldingID = "no-such-holding"
		err := parser.Validate(file)
		assert.ErrorContains(t, err, "no-such-holding")
	})

	t.Run("Asset sale must link to real estate", func(t *testing.T) {
		file := base()
		file.IncomeSources[3].LinkedHoldingID = "brokerage"
		assert.Error(t, parser.Validate(file))
	})

	t.Run("Drawdown cannot link to real estate", func(t *testing.T) {
		file := base()
		file.IncomeSources[2].LinkedHoldingID = "rental-duplex"
		assert.Error(t, parser.Validate(file))
	})

	t.Run("Drawdown cannot link to an unvested grant", func(t *testing.T) {
		file := base()
		file.IncomeSources[2].LinkedHoldingID = "acme-rsu"
		err := parser.Validate(file)
		assert.ErrorContains(t, err, "unvested grant")
	})

	t.Run("Bad custom table", func(t *testing.T) {
		file := base()
		file.TaxTables = []domain.CustomTaxTable{{Jurisdiction: "FED"}}
		assert.Error(t, parser.Validate(file))
	})
}

func TestFundingSettingsDefaulting(t *testing.T) {
	file := &ScenarioFile{}
	assert.Equal(t, domain.DefaultTaxFundingSettings(), file.FundingSettings())

	custom := domain.DefaultTaxFundingSettings()
	custom.AllowTaxDeferred = false
	file.Funding = &custom
	assert.False(t, file.FundingSettings().AllowTaxDeferred)
}

func TestEvenTranches(t *testing.T) {
	example := NewInputParser().CreateExampleScenario()
	tranches := example.Holdings[6].EquityGrant.Tranches

	sum := decimal.Zero
	for _, tr := range tranches {
		sum = sum.Add(tr.Fraction)
	}
	assert.True(t, sum.Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.NewFromFloat(0.000001)),
		"fractions sum to %s", sum.String())

	for i := 1; i < len(tranches); i++ {
		assert.Equal(t, 1, tranches[i].Date.Year()-tranches[i-1].Date.Year())
	}
}
