// Package root contains the root command for the application
package root

import (
	"hkim/sales-report/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "sales-report",
		Short: "A CLI tool to classify sales exports and build category performance reports.",
		Long: `sales-report ingests tabular sales-transaction exports, classifies each
line item into a two-level category taxonomy, and aggregates net performance
metrics hierarchically for single-period and multi-period comparison.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to sales-report!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()
		},
	}
)

// Shared flags for the analyze command
var (
	Output    string
	Format    string
	SortKey   string
	Direction string
	Search    string
)

// Flags for the classify command
var (
	ProductName string
	UseAI       bool
)

// Init initializes the root command's persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&Output, "output", "o", "", "Output file (default: stdout)")
}
