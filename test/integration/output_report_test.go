package integration

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/nwgo/networth-calculator/internal/domain"
	"github.com/nwgo/networth-calculator/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormattersOnRealProjection(t *testing.T) {
	_, result := loadAndRun(t)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			formatter := output.GetFormatterByName(name)
			require.NotNil(t, formatter)

			data, err := formatter.Format(result)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestCSVReportShape(t *testing.T) {
	_, result := loadAndRun(t)

	data, err := output.GetFormatterByName("csv").Format(result)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, len(result.Ages)+1, "header plus one row per year")
}

func TestDetailedCSVCoversEverySeries(t *testing.T) {
	file, result := loadAndRun(t)

	data, err := output.GetFormatterByName("detailed-csv").Format(result)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	header := records[0]
	for _, h := range file.Holdings {
		assert.Contains(t, header, "holding:"+h.ID)
	}
	for _, src := range file.IncomeSources {
		assert.Contains(t, header, "source:"+src.ID)
	}
	assert.Contains(t, header, "vested:ACME")
}

func TestJSONReportRoundTrips(t *testing.T) {
	_, result := loadAndRun(t)

	data, err := output.GetFormatterByName("json").Format(result)
	require.NoError(t, err)

	var decoded domain.ProjectionResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.ScenarioName, decoded.ScenarioName)
	assert.Equal(t, result.Ages, decoded.Ages)
	assert.True(t, decoded.FinalBalance().Equal(result.FinalBalance()))
}

func TestConsoleReportSummarizesRun(t *testing.T) {
	_, result := loadAndRun(t)

	data, err := output.GetFormatterByName("console").Format(result)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "NET WORTH PROJECTION: integration baseline")
	assert.Contains(t, text, "Years simulated:  46 (ages 45-90)")
	assert.Contains(t, text, "Total tax paid:")
}
