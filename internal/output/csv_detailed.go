package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/nwgo/networth-calculator/internal/domain"
)

// CSVDetailedExporter emits one row per year with a column per holding,
// vested pool, and income source, for spreadsheet digging.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(result *domain.ProjectionResult) ([]byte, error) {
	holdingKeys := sortedKeys(result.HoldingSeries)
	poolKeys := sortedKeys(result.VestedPoolSeries)
	sourceKeys := sortedKeys(result.SourceRealizedSeries)

	header := []string{"Age", "Year", "BalanceNominal"}
	for _, k := range holdingKeys {
		header = append(header, "holding:"+k)
	}
	for _, k := range poolKeys {
		header = append(header, "vested:"+k)
	}
	for _, k := range sourceKeys {
		header = append(header, "source:"+k)
	}
	header = append(header, "TotalTax", "TaxShortfall")

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range result.Ages {
		row := []string{
			strconv.Itoa(result.Ages[i]),
			strconv.Itoa(result.Years[i]),
			result.BalanceNominal[i].StringFixed(2),
		}
		for _, k := range holdingKeys {
			row = append(row, seriesAt(result.HoldingSeries[k], i))
		}
		for _, k := range poolKeys {
			row = append(row, seriesAt(result.VestedPoolSeries[k], i))
		}
		for _, k := range sourceKeys {
			row = append(row, seriesAt(result.SourceRealizedSeries[k], i))
		}
		row = append(row, result.Tax.TotalTax[i].StringFixed(2), result.Tax.Shortfall[i].StringFixed(2))
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
