package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nwgo/networth-calculator/internal/calculation"
	"github.com/nwgo/networth-calculator/internal/config"
	"github.com/nwgo/networth-calculator/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagFormat string
	flagOutput string
)

var projectCmd = &cobra.Command{
	Use:   "project <scenario.yaml>",
	Short: "Run the projection for a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		file, err := parser.LoadFromFile(args[0])
		if err != nil {
			return err
		}

		engine := calculation.NewEngine()
		engine.SetLogger(logrusAdapter{log: log})
		engine.Verbose = flagVerbose

		result, err := engine.RunScenario(cmd.Context(), &file.Scenario, file.Holdings,
			file.IncomeSources, file.FundingSettings(), file.TaxTables)
		if err != nil {
			return err
		}

		formatter := output.GetFormatterByName(flagFormat)
		if formatter == nil {
			return fmt.Errorf("unknown format %q (available: %s; aliases: %s)",
				flagFormat,
				strings.Join(output.AvailableFormatterNames(), ", "),
				strings.Join(output.AvailableFormatAliases(), ", "))
		}

		data, err := formatter.Format(result)
		if err != nil {
			return err
		}

		if flagOutput != "" {
			if err := os.WriteFile(flagOutput, data, 0644); err != nil {
				return err
			}
			log.Infof("wrote %s", flagOutput)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	projectCmd.Flags().StringVarP(&flagFormat, "format", "f", "console", "output format (console, csv, detailed-csv, json)")
	projectCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write output to a file instead of stdout")
}
