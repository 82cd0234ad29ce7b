package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/fairvalue/backend/internal/store"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// Valuations older than this are deleted by the nightly prune
const historyRetention = 365 * 24 * time.Hour

// HistoryPruneJob deletes stale valuation history. Only scheduled when the
// server runs with a database.
type HistoryPruneJob struct {
	repo   *store.ValuationRepository
	logger *logger.Logger
}

// NewHistoryPruneJob creates a new history prune job
func NewHistoryPruneJob(repo *store.ValuationRepository, log *logger.Logger) *HistoryPruneJob {
	return &HistoryPruneJob{repo: repo, logger: log}
}

// Name returns the job name
func (j *HistoryPruneJob) Name() string {
	return "valuation_history_prune"
}

// Schedule runs nightly at 03:30
func (j *HistoryPruneJob) Schedule() string {
	return "0 30 3 * * *"
}

// Run deletes valuations past the retention window
func (j *HistoryPruneJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-historyRetention)

	deleted, err := j.repo.Prune(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune valuation history: %w", err)
	}

	j.logger.WithField("deleted", deleted).Info("Pruned valuation history")
	return nil
}
