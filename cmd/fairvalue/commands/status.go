package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fairvalue/backend/internal/marketdata"
	"github.com/wonny/fairvalue/backend/pkg/config"
	"github.com/wonny/fairvalue/backend/pkg/database"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check configuration and external dependencies",
	Long: `Loads the configuration, pings the database when one is configured,
and fetches the current market inputs.

Example:
  go run ./cmd/fairvalue status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	fmt.Println("=== fairvalue status ===")
	fmt.Printf("env:            %s\n", cfg.Env)
	fmt.Printf("port:           %s\n", cfg.Port)
	fmt.Printf("rate source:    %s\n", cfg.MarketData.RateSourceURL)
	fmt.Printf("rate cache ttl: %s\n", cfg.MarketData.RateCacheTTL)

	if cfg.HasDatabase() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		db, err := database.Connect(ctx, cfg)
		cancel()
		if err != nil {
			fmt.Printf("database:       FAILED (%v)\n", err)
		} else {
			defer db.Close()
			fmt.Println("database:       ok")
		}
	} else {
		fmt.Println("database:       not configured")
	}

	provider := marketdata.NewProvider(cfg, log)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MarketData.FetchTimeout)
	defer cancel()
	inputs := provider.GetMarketInputs(ctx, "")
	fmt.Printf("risk-free rate: %.4f (%s)\n", inputs.RiskFreeRate, inputs.Source)

	return nil
}
