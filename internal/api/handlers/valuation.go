package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/internal/engine"
	"github.com/wonny/fairvalue/backend/internal/store"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// historyStore is the slice of the repository the handler needs. Nil when
// the server runs without a database.
type historyStore interface {
	Save(ctx context.Context, result *contracts.ValuationResult) error
	Latest(ctx context.Context, ticker string) (*store.HistoryRecord, error)
	History(ctx context.Context, ticker string, limit int) ([]*store.HistoryRecord, error)
}

// ValuationHandler handles valuation API endpoints
type ValuationHandler struct {
	engine  *engine.Engine
	history historyStore
	logger  *logger.Logger
}

// NewValuationHandler creates a new valuation handler. Pass a nil repository
// to run without persistence.
func NewValuationHandler(eng *engine.Engine, repo *store.ValuationRepository, log *logger.Logger) *ValuationHandler {
	h := &ValuationHandler{engine: eng, logger: log}
	if repo != nil {
		h.history = repo
	}
	return h
}

// Value runs a valuation for the snapshot in the request body
// POST /api/valuation
func (h *ValuationHandler) Value(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snapshot := contracts.SnapshotFromMap(fields)
	if snapshot.Ticker == "" {
		respondError(w, http.StatusBadRequest, "Field 'ticker' is required")
		return
	}

	result := h.engine.Value(ctx, snapshot)

	if h.history != nil {
		if err := h.history.Save(ctx, result); err != nil {
			// Persistence is best effort, the caller still gets the result
			h.logger.WithError(err).Warn("Failed to persist valuation result")
		}
	}

	respondJSON(w, http.StatusOK, result.ToMap())
}

// Latest returns the most recent stored valuation for a ticker
// GET /api/valuation/{ticker}/latest
func (h *ValuationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusNotImplemented, "Valuation history requires a database")
		return
	}

	ticker := mux.Vars(r)["ticker"]
	record, err := h.history.Latest(r.Context(), ticker)
	if err != nil {
		if err == pgx.ErrNoRows {
			respondError(w, http.StatusNotFound, "No valuation stored for "+ticker)
			return
		}
		h.logger.WithError(err).Error("Failed to load latest valuation")
		respondError(w, http.StatusInternalServerError, "Failed to load valuation")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// History returns stored valuations for a ticker, newest first
// GET /api/valuation/{ticker}/history?limit=30
func (h *ValuationHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusNotImplemented, "Valuation history requires a database")
		return
	}

	ticker := mux.Vars(r)["ticker"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.history.History(r.Context(), ticker, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load valuation history")
		respondError(w, http.StatusInternalServerError, "Failed to load valuation history")
		return
	}
	if records == nil {
		records = []*store.HistoryRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":     ticker,
		"valuations": records,
	})
}
