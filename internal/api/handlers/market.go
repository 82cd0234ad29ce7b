package handlers

import (
	"net/http"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// MarketHandler exposes the market inputs the engine would use
type MarketHandler struct {
	market contracts.MarketInputsProvider
	peers  contracts.PeerMultiplesProvider
	logger *logger.Logger
}

// NewMarketHandler creates a new market data handler
func NewMarketHandler(market contracts.MarketInputsProvider, peers contracts.PeerMultiplesProvider, log *logger.Logger) *MarketHandler {
	return &MarketHandler{market: market, peers: peers, logger: log}
}

// GetInputs returns current market rates and the peer table for a sector
// GET /api/market?sector=technology
func (h *MarketHandler) GetInputs(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")

	inputs := h.market.GetMarketInputs(r.Context(), sector)
	multiples := h.peers.GetPeerMultiples(sector)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"market_inputs":  inputs,
		"peer_multiples": multiples,
	})
}
