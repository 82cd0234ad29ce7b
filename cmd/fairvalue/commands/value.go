package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/internal/engine"
	"github.com/wonny/fairvalue/backend/internal/marketdata"
	"github.com/wonny/fairvalue/backend/pkg/config"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// valueCmd represents the value command
var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Run a valuation for a snapshot file",
	Long: `Runs the full valuation pipeline for one company snapshot and
prints the result as JSON.

The snapshot file is a flat JSON object of fundamentals, the same shape
POST /api/valuation accepts.

Example:
  go run ./cmd/fairvalue value --snapshot snapshot.json`,
	RunE: runValue,
}

var (
	snapshotFile   string
	tickerOverride string
)

func init() {
	rootCmd.AddCommand(valueCmd)

	valueCmd.Flags().StringVar(&snapshotFile, "snapshot", "", "snapshot JSON file (required)")
	valueCmd.Flags().StringVar(&tickerOverride, "ticker", "", "override the ticker in the snapshot")
	valueCmd.MarkFlagRequired("snapshot")
}

func runValue(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	data, err := os.ReadFile(snapshotFile)
	if err != nil {
		return fmt.Errorf("read snapshot file: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("parse snapshot json: %w", err)
	}

	snapshot := contracts.SnapshotFromMap(fields)
	if tickerOverride != "" {
		snapshot.Ticker = tickerOverride
	}
	if snapshot.Ticker == "" {
		return fmt.Errorf("snapshot has no ticker")
	}

	marketProvider := marketdata.NewProvider(cfg, log)
	peerProvider := marketdata.NewPeerProvider(cfg.PeerMultiplesFile, log)
	eng := engine.New(log, marketProvider, peerProvider)

	result := eng.Value(context.Background(), snapshot)

	out, err := json.MarshalIndent(result.ToMap(), "", "  ")
	if err != nil {
		return fmt.Errorf("serialize result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
