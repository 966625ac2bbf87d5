package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/nwgo/networth-calculator/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per simulated year).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Age", "Year", "BalanceNominal", "BalanceReal", "Contribution", "Spending", "NetCashFlow", "CumulativeUncovered", "FederalTax", "StateTax", "TotalTax", "EffectiveRate", "TaxShortfall"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range result.Ages {
		row := []string{
			strconv.Itoa(result.Ages[i]),
			strconv.Itoa(result.Years[i]),
			result.BalanceNominal[i].StringFixed(2),
			result.BalanceReal[i].StringFixed(2),
			result.ContributionNominal[i].StringFixed(2),
			result.SpendingNominal[i].StringFixed(2),
			result.NetCashFlow[i].StringFixed(2),
			result.CumulativeUncoveredSpending[i].StringFixed(2),
			result.Tax.FederalTax[i].StringFixed(2),
			result.Tax.StateTax[i].StringFixed(2),
			result.Tax.TotalTax[i].StringFixed(2),
			result.Tax.EffectiveRate[i].StringFixed(4),
			result.Tax.Shortfall[i].StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
