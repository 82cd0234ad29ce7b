package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fairvalue",
	Short: "Multi-method intrinsic stock valuation engine",
	Long: `fairvalue - confidence-weighted stock valuation

Classifies a company, selects the valuation methods its data can support,
derives CAPM/WACC discount rates, runs every selected method, and folds
the estimates into one ranged, confidence-scored fair value.

Usage:
  go run ./cmd/fairvalue [command]

Examples:
  go run ./cmd/fairvalue api
  go run ./cmd/fairvalue value --file snapshot.json
  go run ./cmd/fairvalue status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
