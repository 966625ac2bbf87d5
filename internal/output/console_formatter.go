package output

import (
	"bytes"
	"fmt"

	"github.com/nwgo/networth-calculator/internal/domain"
)

// ConsoleFormatter renders a human-readable projection summary with a
// per-year table. Verbose runs get an extra trace section per year.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "NET WORTH PROJECTION: %s\n", result.ScenarioName)
	fmt.Fprintln(&buf, "========================================")
	if len(result.Ages) == 0 {
		fmt.Fprintln(&buf, "(empty projection)")
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "Years simulated:  %d (ages %d-%d)\n", len(result.Ages), result.Ages[0], result.Ages[len(result.Ages)-1])
	fmt.Fprintf(&buf, "Final balance:    %s nominal / %s real\n",
		FormatCurrency(result.FinalBalance()),
		FormatCurrency(result.BalanceReal[len(result.BalanceReal)-1]))
	fmt.Fprintf(&buf, "Total tax paid:   %s\n", FormatCurrency(result.TotalTaxPaid()))
	if shortfall := result.TotalShortfall(); shortfall.IsPositive() {
		fmt.Fprintf(&buf, "Tax shortfall:    %s (bills the portfolio could not cover)\n", FormatCurrency(shortfall))
	}
	if uncovered := result.CumulativeUncoveredSpending[len(result.CumulativeUncoveredSpending)-1]; uncovered.IsPositive() {
		fmt.Fprintf(&buf, "Uncovered spend:  %s cumulative\n", FormatCurrency(uncovered))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-4s %-6s %16s %16s %14s %14s %12s\n",
		"Age", "Year", "Balance", "Balance(real)", "NetCashFlow", "TotalTax", "EffRate")
	for i := range result.Ages {
		fmt.Fprintf(&buf, "%-4d %-6d %16s %16s %14s %14s %12s\n",
			result.Ages[i],
			result.Years[i],
			result.BalanceNominal[i].StringFixed(0),
			result.BalanceReal[i].StringFixed(0),
			result.NetCashFlow[i].StringFixed(0),
			result.Tax.TotalTax[i].StringFixed(0),
			FormatPercentage(result.Tax.EffectiveRate[i]))
	}

	if len(result.Trace) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "YEAR-BY-YEAR TRACE")
		fmt.Fprintln(&buf, "========================================")
		for _, tr := range result.Trace {
			writeYearTrace(&buf, tr)
		}
	}
	return buf.Bytes(), nil
}

func writeYearTrace(buf *bytes.Buffer, tr domain.YearTrace) {
	fmt.Fprintf(buf, "\nAge %d (%d)\n", tr.Age, tr.Year)
	fmt.Fprintf(buf, "  assets  %s -> %s\n", FormatCurrency(tr.AssetsStart), FormatCurrency(tr.AssetsEnd))
	fmt.Fprintf(buf, "  cash    %s -> %s\n", FormatCurrency(tr.CashStart), FormatCurrency(tr.CashEnd))
	fmt.Fprintf(buf, "  income  gross=%s ordinary=%s ss=%s ltcg=%s exempt=%s noncash=%s\n",
		FormatCurrency(tr.Income.GrossTotal),
		FormatCurrency(tr.Income.Ordinary),
		FormatCurrency(tr.Income.SocialSecurity),
		FormatCurrency(tr.Income.LongTermGains),
		FormatCurrency(tr.Income.TaxExempt),
		FormatCurrency(tr.Income.NonCashIncome))
	fmt.Fprintf(buf, "  tax     fed=%s (gains %s) state=%s total=%s funded=%s iterations=%d\n",
		FormatCurrency(tr.Tax.FederalOrdinary),
		FormatCurrency(tr.Tax.FederalGains),
		FormatCurrency(tr.Tax.State),
		FormatCurrency(tr.Tax.Total),
		FormatCurrency(tr.Tax.Funded),
		tr.Tax.Iterations)
	if tr.Tax.Shortfall.IsPositive() {
		fmt.Fprintf(buf, "  tax     SHORTFALL %s\n", FormatCurrency(tr.Tax.Shortfall))
	}
	for _, v := range tr.Vesting {
		fmt.Fprintf(buf, "  vest    %s: %s sh @ %s = %s (pool now %s sh / %s)\n",
			v.Symbol,
			v.SharesVested.StringFixed(2),
			FormatCurrency(v.FMVAtVest),
			FormatCurrency(v.VestedValue),
			v.PoolSharesEnd.StringFixed(2),
			FormatCurrency(v.PoolValueEnd))
	}
	for _, step := range tr.Funding {
		fmt.Fprintf(buf, "  fund    %s %s from %s (gain %s, ordinary %s)\n",
			FormatCurrency(step.Amount),
			step.Source,
			step.HoldingID,
			FormatCurrency(step.GainPart),
			FormatCurrency(step.OrdinaryPart))
	}
}
