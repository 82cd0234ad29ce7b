package ratios

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/fairvalue/backend/internal/contracts"
)

func TestCAGR(t *testing.T) {
	// Doubling over five years is about 14.9% a year
	assert.InDelta(t, 0.1487, CAGR(100, 200, 5), 0.0001)
	assert.Equal(t, 0.0, CAGR(0, 200, 5))
	assert.Equal(t, 0.0, CAGR(100, -50, 5))
	assert.Equal(t, 0.0, CAGR(100, 200, 0))
}

func TestProfitabilityRatios(t *testing.T) {
	assert.InDelta(t, 0.25, ROE(100, 900, 500), 1e-9)
	assert.Equal(t, 0.0, ROE(100, 400, 500))

	assert.InDelta(t, 0.10, ROA(100, 1000), 1e-9)
	assert.Equal(t, 0.0, ROA(100, 0))

	assert.InDelta(t, 0.40, GrossMargin(400, 1000), 1e-9)
	assert.InDelta(t, 0.20, OperatingMargin(200, 1000), 1e-9)
	assert.InDelta(t, 0.12, NetMargin(120, 1000), 1e-9)
	assert.Equal(t, 0.0, NetMargin(120, 0))
}

func TestLiquidityRatios(t *testing.T) {
	assert.InDelta(t, 2.0, CurrentRatio(400, 200), 1e-9)
	assert.InDelta(t, 1.5, QuickRatio(400, 100, 200), 1e-9)
	assert.Equal(t, 0.0, CurrentRatio(400, 0))
}

func TestLeverageRatios(t *testing.T) {
	assert.InDelta(t, 0.75, DebtToEquity(300, 900, 500), 1e-9)
	assert.Equal(t, 0.0, DebtToEquity(300, 400, 500))

	assert.InDelta(t, 8.0, InterestCoverage(400, 50), 1e-9)
	assert.Equal(t, 0.0, InterestCoverage(400, 0))
}

func TestAltmanZ(t *testing.T) {
	s := contracts.CompanySnapshot{
		TotalAssets:        1000,
		TotalLiabilities:   500,
		CurrentAssets:      400,
		CurrentLiabilities: 200,
		RetainedEarnings:   300,
		EBIT:               150,
		MarketCap:          1500,
		Revenue:            800,
	}

	// A=0.2, B=0.3, C=0.15, D=3.0, E=0.8
	// Z = 0.24 + 0.42 + 0.495 + 1.8 + 0.8 = 3.755
	assert.InDelta(t, 3.755, AltmanZ(s), 1e-9)
}

func TestAltmanZNoLiabilities(t *testing.T) {
	s := contracts.CompanySnapshot{
		TotalAssets: 1000,
		Revenue:     500,
		MarketCap:   2000,
	}

	// D fixed at 2.0: Z = 0.6*2.0 + 1.0*0.5 = 1.7
	assert.InDelta(t, 1.7, AltmanZ(s), 1e-9)
	assert.Equal(t, 0.0, AltmanZ(contracts.CompanySnapshot{}))
}

func TestAltmanZWorkingCapitalField(t *testing.T) {
	s := contracts.CompanySnapshot{
		TotalAssets:        1000,
		TotalLiabilities:   500,
		WorkingCapital:     300, // explicit value beats the derivation
		CurrentAssets:      900,
		CurrentLiabilities: 100,
		MarketCap:          500,
	}

	// A=0.3, D=1.0: Z = 0.36 + 0.6 = 0.96
	assert.InDelta(t, 0.96, AltmanZ(s), 1e-9)
}

func TestDistressZone(t *testing.T) {
	assert.Equal(t, "safe", DistressZone(3.5))
	assert.Equal(t, "grey", DistressZone(2.5))
	assert.Equal(t, "distress", DistressZone(1.81))
	assert.Equal(t, "distress", DistressZone(0.5))
}
