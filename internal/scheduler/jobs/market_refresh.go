package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/fairvalue/backend/internal/marketdata"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// MarketRefreshJob refreshes the risk-free-rate cache ahead of expiry so
// interactive valuation requests rarely pay the fetch latency
type MarketRefreshJob struct {
	provider *marketdata.Provider
	logger   *logger.Logger
}

// NewMarketRefreshJob creates a new market refresh job
func NewMarketRefreshJob(provider *marketdata.Provider, log *logger.Logger) *MarketRefreshJob {
	return &MarketRefreshJob{provider: provider, logger: log}
}

// Name returns the job name
func (j *MarketRefreshJob) Name() string {
	return "market_rate_refresh"
}

// Schedule runs hourly at minute 50, just inside the 60 minute cache window
func (j *MarketRefreshJob) Schedule() string {
	return "0 50 * * * *"
}

// Run refreshes the rate cache
func (j *MarketRefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Refreshing market rate cache")

	if err := j.provider.Refresh(ctx); err != nil {
		return fmt.Errorf("market rate refresh: %w", err)
	}
	return nil
}
