package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nwgo/networth-calculator/internal/calculation"
	"github.com/nwgo/networth-calculator/internal/config"
)

// Runs a scenario file with the verbose trace enabled and dumps only the
// funding steps, for debugging tax-funding convergence.
func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: debug_funding <scenario.yaml>")
		os.Exit(2)
	}

	parser := config.NewInputParser()
	file, err := parser.LoadFromFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	engine := calculation.NewEngine()
	engine.Verbose = true

	result, err := engine.RunScenario(context.Background(), &file.Scenario, file.Holdings,
		file.IncomeSources, file.FundingSettings(), file.TaxTables)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, tr := range result.Trace {
		if len(tr.Funding) == 0 && tr.Tax.Shortfall.IsZero() {
			continue
		}
		fmt.Printf("age %d (%d): tax %s, funded %s in %d iterations\n",
			tr.Age, tr.Year, tr.Tax.Total.StringFixed(2), tr.Tax.Funded.StringFixed(2), tr.Tax.Iterations)
		for _, step := range tr.Funding {
			fmt.Printf("  %-18s %-24s %12s (gain %s, ordinary %s)\n",
				step.Source, step.HoldingID, step.Amount.StringFixed(2),
				step.GainPart.StringFixed(2), step.OrdinaryPart.StringFixed(2))
		}
		if tr.Tax.Shortfall.IsPositive() {
			fmt.Printf("  SHORTFALL %s\n", tr.Tax.Shortfall.StringFixed(2))
		}
	}
}
