package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/internal/engine"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

type stubMarket struct{}

func (stubMarket) GetMarketInputs(_ context.Context, _ string) contracts.MarketInputs {
	return contracts.MarketInputs{
		RiskFreeRate:      0.045,
		EquityRiskPremium: 0.055,
		Source:            "stub",
		Quality:           contracts.QualityMedium,
	}
}

type stubPeers struct{}

func (stubPeers) GetPeerMultiples(_ string) contracts.PeerMultiples {
	return contracts.PeerMultiples{
		Sector:   "technology",
		PE:       contracts.MultipleBand{Median: 18, Low: 12, High: 25},
		PB:       contracts.MultipleBand{Median: 2.5, Low: 1.5, High: 4},
		PS:       contracts.MultipleBand{Median: 2, Low: 1, High: 4},
		EVEBITDA: contracts.MultipleBand{Median: 12, Low: 8, High: 16},
	}
}

func newHandler() *ValuationHandler {
	eng := engine.New(logger.Nop(), stubMarket{}, stubPeers{})
	return NewValuationHandler(eng, nil, logger.Nop())
}

func TestValueEndpoint(t *testing.T) {
	h := newHandler()

	body, _ := json.Marshal(map[string]interface{}{
		"ticker":               "ACME",
		"sector":               "Technology",
		"current_price":        50,
		"shares_outstanding":   100e6,
		"eps":                  3.2,
		"book_value_per_share": 18,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/valuation", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Value(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ACME", resp["ticker"])
	assert.Greater(t, resp["fair_value"].(float64), 0.0)
	assert.NotEmpty(t, resp["valuation_status"])
	assert.NotEmpty(t, resp["method_results"])
}

func TestValueEndpointMissingTicker(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/valuation",
		bytes.NewReader([]byte(`{"current_price": 50}`)))
	rec := httptest.NewRecorder()

	h.Value(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValueEndpointBadBody(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/valuation",
		bytes.NewReader([]byte(`{not json`)))
	rec := httptest.NewRecorder()

	h.Value(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryWithoutDatabase(t *testing.T) {
	h := newHandler()

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/api/valuation/ACME/latest", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/valuation/ACME/history", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestMarketEndpoint(t *testing.T) {
	h := NewMarketHandler(stubMarket{}, stubPeers{}, logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/market?sector=technology", nil)
	rec := httptest.NewRecorder()

	h.GetInputs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "market_inputs")
	assert.Contains(t, resp, "peer_multiples")
}
