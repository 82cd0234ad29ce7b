package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fairvalue/backend/internal/api"
	"github.com/wonny/fairvalue/backend/internal/api/handlers"
	"github.com/wonny/fairvalue/backend/internal/engine"
	"github.com/wonny/fairvalue/backend/internal/marketdata"
	"github.com/wonny/fairvalue/backend/internal/scheduler"
	"github.com/wonny/fairvalue/backend/internal/scheduler/jobs"
	"github.com/wonny/fairvalue/backend/internal/store"
	"github.com/wonny/fairvalue/backend/pkg/config"
	"github.com/wonny/fairvalue/backend/pkg/database"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the valuation API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                          - Health check
  POST /api/valuation                   - Run a valuation for a snapshot
  GET  /api/valuation/{ticker}/latest   - Latest stored valuation
  GET  /api/valuation/{ticker}/history  - Stored valuation history
  GET  /api/market                      - Current market inputs and peer table

Example:
  go run ./cmd/fairvalue api
  go run ./cmd/fairvalue api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database when configured
	var repo *store.ValuationRepository
	if cfg.HasDatabase() {
		db, err := database.Connect(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		repo = store.NewValuationRepository(db.Pool)
		log.Info("Connected to database")
	} else {
		log.Warn("No database configured, valuation history disabled")
	}

	// 4. Create providers and engine
	marketProvider := marketdata.NewProvider(cfg, log.Component("marketdata"))
	peerProvider := marketdata.NewPeerProvider(cfg.PeerMultiplesFile, log)
	eng := engine.New(log, marketProvider, peerProvider)

	// 5. Create handlers and router
	valuationHandler := handlers.NewValuationHandler(eng, repo, log)
	marketHandler := handlers.NewMarketHandler(marketProvider, peerProvider, log)
	router := api.NewRouter(valuationHandler, marketHandler, log)

	// 6. Background jobs
	sched := scheduler.New(log.Component("scheduler"))
	if err := sched.AddJob(jobs.NewMarketRefreshJob(marketProvider, log)); err != nil {
		return fmt.Errorf("schedule market refresh: %w", err)
	}
	if repo != nil {
		if err := sched.AddJob(jobs.NewHistoryPruneJob(repo, log)); err != nil {
			return fmt.Errorf("schedule history prune: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	// 7. Start server with graceful shutdown
	server := api.New(cfg, log, router)
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
