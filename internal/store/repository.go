package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fairvalue/backend/internal/contracts"
)

// HistoryRecord is one persisted valuation, the summary columns plus the
// full serialized result
type HistoryRecord struct {
	ID            int64           `json:"id"`
	Ticker        string          `json:"ticker"`
	ValuationDate time.Time       `json:"valuation_date"`
	FairValue     float64         `json:"fair_value"`
	CurrentPrice  float64         `json:"current_price"`
	Status        string          `json:"valuation_status"`
	Confidence    float64         `json:"overall_confidence"`
	Result        json.RawMessage `json:"result"`
}

// ValuationRepository persists valuation results for trend queries and
// audit. The engine itself never touches it; only the API and scheduler do.
type ValuationRepository struct {
	pool *pgxpool.Pool
}

// NewValuationRepository creates a new valuation history repository
func NewValuationRepository(pool *pgxpool.Pool) *ValuationRepository {
	return &ValuationRepository{pool: pool}
}

// Save writes one valuation result. The full result is stored as JSONB so
// the schema never chases the result shape.
func (r *ValuationRepository) Save(ctx context.Context, result *contracts.ValuationResult) error {
	payload, err := json.Marshal(result.ToMap())
	if err != nil {
		return fmt.Errorf("serialize valuation result: %w", err)
	}

	query := `
		INSERT INTO valuations (ticker, valuation_date, fair_value, current_price, valuation_status, overall_confidence, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query,
		result.Ticker,
		result.ValuationDate,
		contracts.Round2(result.FairValue),
		contracts.Round2(result.CurrentPrice),
		string(result.Status),
		contracts.Round2(result.OverallConfidence),
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert valuation for %s: %w", result.Ticker, err)
	}
	return nil
}

// Latest returns the most recent valuation stored for a ticker
func (r *ValuationRepository) Latest(ctx context.Context, ticker string) (*HistoryRecord, error) {
	query := `
		SELECT id, ticker, valuation_date, fair_value, current_price, valuation_status, overall_confidence, result
		FROM valuations
		WHERE ticker = $1
		ORDER BY valuation_date DESC
		LIMIT 1
	`

	var rec HistoryRecord
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&rec.ID, &rec.Ticker, &rec.ValuationDate, &rec.FairValue,
		&rec.CurrentPrice, &rec.Status, &rec.Confidence, &rec.Result,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// History returns up to limit valuations for a ticker, newest first
func (r *ValuationRepository) History(ctx context.Context, ticker string, limit int) ([]*HistoryRecord, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, ticker, valuation_date, fair_value, current_price, valuation_status, overall_confidence, result
		FROM valuations
		WHERE ticker = $1
		ORDER BY valuation_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		if err := rows.Scan(
			&rec.ID, &rec.Ticker, &rec.ValuationDate, &rec.FairValue,
			&rec.CurrentPrice, &rec.Status, &rec.Confidence, &rec.Result,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Prune deletes valuations older than the retention window
func (r *ValuationRepository) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM valuations WHERE valuation_date < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("prune valuations: %w", err)
	}
	return tag.RowsAffected(), nil
}
