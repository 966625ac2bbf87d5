package main

import (
	"os"

	"github.com/nwgo/networth-calculator/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagExampleOutput string

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Emit a complete example scenario file",
	Long:  "Writes a YAML scenario demonstrating every holding kind and income source mode.",
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		data, err := yaml.Marshal(parser.CreateExampleScenario())
		if err != nil {
			return err
		}

		if flagExampleOutput != "" {
			if err := os.WriteFile(flagExampleOutput, data, 0644); err != nil {
				return err
			}
			log.Infof("wrote %s", flagExampleOutput)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	exampleCmd.Flags().StringVarP(&flagExampleOutput, "output", "o", "", "write the example to a file instead of stdout")
}
