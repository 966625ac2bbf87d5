package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *domain.ProjectionResult {
	d := func(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

	return &domain.ProjectionResult{
		ScenarioName: "sample",
		Ages:         []int{45, 46},
		Years:        []int{2024, 2025},

		BalanceNominal:              []decimal.Decimal{d(1000000), d(1060000)},
		BalanceReal:                 []decimal.Decimal{d(1000000), d(1029126.21)},
		ContributionNominal:         []decimal.Decimal{d(15000), d(15450)},
		SpendingNominal:             []decimal.Decimal{d(0), d(0)},
		NetCashFlow:                 []decimal.Decimal{d(80000), d(82000)},
		CumulativeUncoveredSpending: []decimal.Decimal{d(0), d(0)},

		HoldingSeries: map[string][]decimal.Decimal{
			"checking":  {d(50000), d(52000)},
			"brokerage": {d(950000), d(1008000)},
		},
		VestedPoolSeries: map[string][]decimal.Decimal{
			"ACME": {d(0), d(20000)},
		},
		SourceRealizedSeries: map[string][]decimal.Decimal{
			"salary": {d(220000), d(226600)},
		},
		MortgageSeries:        map[string][]decimal.Decimal{},
		RentalNetIncomeSeries: map[string][]decimal.Decimal{},

		Tax: domain.TaxSeries{
			FederalTax:    []decimal.Decimal{d(30000), d(31000)},
			StateTax:      []decimal.Decimal{d(12000), d(12400)},
			TotalTax:      []decimal.Decimal{d(42000), d(43400)},
			EffectiveRate: []decimal.Decimal{d(0.19), d(0.1915)},
			Shortfall:     []decimal.Decimal{d(0), d(0)},
		},
	}
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"console", "console"},
		{"text", "console"},
		{"table", "console"},
		{"csv", "csv"},
		{"csv-summary", "csv"},
		{"detailed-csv", "detailed-csv"},
		{"csv-detailed", "detailed-csv"},
		{"json", "json"},
		{"json-pretty", "json"},
		{"  JSON  ", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.expected, f.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("pdf"))
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"console", "csv", "detailed-csv", "json"}, AvailableFormatterNames())
}

func TestCSVSummarizer(t *testing.T) {
	data, err := CSVSummarizer{}.Format(sampleResult())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per year")

	assert.Equal(t, "Age", records[0][0])
	assert.Equal(t, "EffectiveRate", records[0][11])

	assert.Equal(t, "45", records[1][0])
	assert.Equal(t, "2024", records[1][1])
	assert.Equal(t, "1000000.00", records[1][2])
	assert.Equal(t, "0.1900", records[1][11])
	assert.Equal(t, "43400.00", records[2][10])
}

func TestCSVDetailedExporter(t *testing.T) {
	data, err := CSVDetailedExporter{}.Format(sampleResult())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, []string{
		"Age", "Year", "BalanceNominal",
		"holding:brokerage", "holding:checking",
		"vested:ACME",
		"source:salary",
		"TotalTax", "TaxShortfall",
	}, header)

	assert.Equal(t, "950000.00", records[1][3])
	assert.Equal(t, "20000.00", records[2][5])
	assert.Equal(t, "226600.00", records[2][6])
}

func TestCSVDetailedPadsShortSeries(t *testing.T) {
	result := sampleResult()
	// A pool that only has one recorded year still yields a cell for year two.
	result.VestedPoolSeries["ACME"] = result.VestedPoolSeries["ACME"][:1]

	data, err := CSVDetailedExporter{}.Format(result)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "0.00", records[2][5])
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	data, err := JSONFormatter{}.Format(sampleResult())
	require.NoError(t, err)

	var decoded domain.ProjectionResult
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "sample", decoded.ScenarioName)
	assert.Equal(t, []int{45, 46}, decoded.Ages)
	assert.True(t, decoded.BalanceNominal[1].Equal(decimal.NewFromInt(1060000)))
	assert.True(t, decoded.Tax.TotalTax[0].Equal(decimal.NewFromInt(42000)))
}

func TestConsoleFormatter(t *testing.T) {
	data, err := ConsoleFormatter{}.Format(sampleResult())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "NET WORTH PROJECTION: sample")
	assert.Contains(t, text, "Years simulated:  2 (ages 45-46)")
	assert.Contains(t, text, "$1,060,000.00")
	assert.Contains(t, text, "$85,400.00", "total tax paid across both years")
	assert.Contains(t, text, "19.00%")
	assert.NotContains(t, text, "YEAR-BY-YEAR TRACE")
}

func TestConsoleFormatterTrace(t *testing.T) {
	result := sampleResult()
	result.Trace = []domain.YearTrace{{
		Age: 45, Year: 2024,
		AssetsStart: decimal.NewFromInt(990000),
		AssetsEnd:   decimal.NewFromInt(1000000),
		Funding: []domain.FundingStep{{
			Source:    domain.FundCash,
			HoldingID: "checking",
			Amount:    decimal.NewFromInt(42000),
		}},
	}}

	data, err := ConsoleFormatter{}.Format(result)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "YEAR-BY-YEAR TRACE")
	assert.Contains(t, text, "Age 45 (2024)")
	assert.Contains(t, text, "$42,000.00 cash from checking")
}

func TestConsoleFormatterEmptyResult(t *testing.T) {
	data, err := ConsoleFormatter{}.Format(&domain.ProjectionResult{ScenarioName: "empty"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "(empty projection)")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", FormatCurrency(decimal.NewFromFloat(1234567.89)))
	assert.Equal(t, "-$0.50", FormatCurrency(decimal.NewFromFloat(-0.5)))
	assert.Equal(t, "19.25%", FormatPercentage(decimal.NewFromFloat(0.1925)))

	series := []decimal.Decimal{decimal.NewFromInt(10)}
	assert.Equal(t, "10.00", seriesAt(series, 0))
	assert.Equal(t, "0.00", seriesAt(series, 1))
	assert.Equal(t, "0.00", seriesAt(series, -1))
}

func TestFormatterFunc(t *testing.T) {
	ff := FormatterFunc{
		ID: "upper",
		F: func(r *domain.ProjectionResult) ([]byte, error) {
			return []byte(strings.ToUpper(r.ScenarioName)), nil
		},
	}

	data, err := ff.Format(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "SAMPLE", string(data))
	assert.Equal(t, "upper", ff.Name())
}
