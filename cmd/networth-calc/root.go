package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDebug   bool
	flagVerbose bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "networth-calc",
	Short: "Household net worth, cash flow, and tax projection",
	Long: `networth-calc simulates a household's net worth year by year from a
YAML scenario file: holding growth, equity vesting, income and drawdowns,
federal and state taxes, and the liquidations needed to pay them.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		if flagDebug {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "include the per-year trace in output")
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(exampleCmd)
}

// logrusAdapter feeds the engine's Logger interface into logrus.
type logrusAdapter struct {
	log *logrus.Logger
}

func (a logrusAdapter) Debugf(format string, args ...any) { a.log.Debugf(format, args...) }
func (a logrusAdapter) Infof(format string, args ...any)  { a.log.Infof(format, args...) }
func (a logrusAdapter) Warnf(format string, args ...any)  { a.log.Warnf(format, args...) }
func (a logrusAdapter) Errorf(format string, args ...any) { a.log.Errorf(format, args...) }
