package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finhealth",
	Short: "SME financial health assessment",
	Long: `finhealth ingests SME financial statements (CSV, XLSX, HTML, PDF),
computes ratios, credit and health scores, forecasts and cost advice,
and optionally adds LLM commentary.

Usage:
  go run ./cmd/finhealth [command]

Examples:
  go run ./cmd/finhealth migrate
  go run ./cmd/finhealth api
  go run ./cmd/finhealth worker start
  go run ./cmd/finhealth assess profit_loss_2024.csv --industry retail
  go run ./cmd/finhealth batch portfolio.yaml`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
