package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

func newClassifier() *Classifier {
	return NewClassifier(logger.Nop())
}

func TestClassify_Total(t *testing.T) {
	// Even a fully empty snapshot must classify
	result := newClassifier().Classify(contracts.CompanySnapshot{})

	assert.Equal(t, contracts.TypeMatureGrowth, result.Type)
	assert.Equal(t, 0.50, result.Confidence)
	require.NotEmpty(t, result.Reasons)
}

func TestClassify_SectorKeywords(t *testing.T) {
	tests := []struct {
		name       string
		snapshot   contracts.CompanySnapshot
		wantType   contracts.CompanyType
		wantConf   float64
	}{
		{
			name:     "REIT by sector",
			snapshot: contracts.CompanySnapshot{Sector: "Real Estate", Industry: "REIT - Retail"},
			wantType: contracts.TypeREIT,
			wantConf: 0.95,
		},
		{
			name:     "REIT by quote type",
			snapshot: contracts.CompanySnapshot{QuoteType: "REIT", Sector: "Real Estate"},
			wantType: contracts.TypeREIT,
			wantConf: 0.95,
		},
		{
			name:     "bank",
			snapshot: contracts.CompanySnapshot{Sector: "Financial Services", Industry: "Banks - Regional"},
			wantType: contracts.TypeBank,
			wantConf: 0.95,
		},
		{
			name:     "insurance",
			snapshot: contracts.CompanySnapshot{Sector: "Financial Services", Industry: "Insurance - Life"},
			wantType: contracts.TypeInsurance,
			wantConf: 0.90,
		},
		{
			name:     "utility",
			snapshot: contracts.CompanySnapshot{Sector: "Utilities", Industry: "Utilities - Regulated Electric"},
			wantType: contracts.TypeUtility,
			wantConf: 0.90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newClassifier().Classify(tt.snapshot)
			assert.Equal(t, tt.wantType, result.Type)
			assert.Equal(t, tt.wantConf, result.Confidence)
			assert.NotEmpty(t, result.Reasons)
		})
	}
}

func TestClassify_SectorBeatsDistress(t *testing.T) {
	// A distressed REIT still classifies REIT: keyword match runs first and
	// later checks never override it.
	snapshot := contracts.CompanySnapshot{
		Sector:           "Real Estate Investment Trust",
		TotalAssets:      1000,
		TotalLiabilities: 950,
		WorkingCapital:   -200,
		RetainedEarnings: -400,
		EBIT:             -50,
		MarketCap:        100,
		Revenue:          80,
	}
	require.Less(t, ZScoreProxy(snapshot), 1.81)

	result := newClassifier().Classify(snapshot)
	assert.Equal(t, contracts.TypeREIT, result.Type)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestClassify_Distressed(t *testing.T) {
	snapshot := contracts.CompanySnapshot{
		Sector:           "Consumer Cyclical",
		Industry:         "Department Stores",
		TotalAssets:      1000,
		TotalLiabilities: 900,
		WorkingCapital:   -150,
		RetainedEarnings: -300,
		EBIT:             -80,
		MarketCap:        120,
		Revenue:          400,
	}
	require.Less(t, ZScoreProxy(snapshot), 1.81)

	result := newClassifier().Classify(snapshot)
	assert.Equal(t, contracts.TypeDistressed, result.Type)
	assert.Equal(t, 0.85, result.Confidence)
}

func TestClassify_DistressSkippedWithoutAssets(t *testing.T) {
	// Zero total assets: Z check skipped entirely, falls to later rules
	snapshot := contracts.CompanySnapshot{
		Sector:        "Technology",
		RevenueGrowth: 0.35,
		ProfitMargin:  0.10,
	}

	result := newClassifier().Classify(snapshot)
	assert.Equal(t, contracts.TypeHighGrowth, result.Type)
}

func TestClassify_CyclicalAndCommodity(t *testing.T) {
	healthyBase := contracts.CompanySnapshot{
		TotalAssets:      1000,
		TotalLiabilities: 300,
		WorkingCapital:   300,
		RetainedEarnings: 400,
		EBIT:             150,
		MarketCap:        2000,
		Revenue:          900,
	}

	cyclical := healthyBase
	cyclical.Sector = "Consumer Cyclical"
	cyclical.Industry = "Auto Manufacturers"
	result := newClassifier().Classify(cyclical)
	assert.Equal(t, contracts.TypeCyclical, result.Type)
	assert.Equal(t, 0.75, result.Confidence)

	commodity := healthyBase
	commodity.Sector = "Energy"
	commodity.Industry = "Exploration"
	result = newClassifier().Classify(commodity)
	assert.Equal(t, contracts.TypeCommodity, result.Type)
	assert.Equal(t, 0.75, result.Confidence)
}

func TestClassify_GrowthBoundary(t *testing.T) {
	base := contracts.CompanySnapshot{Sector: "Technology", ProfitMargin: 0.10}

	// Exactly 20% does NOT trigger high growth (strict >)
	at := base
	at.RevenueGrowth = 0.20
	result := newClassifier().Classify(at)
	assert.NotEqual(t, contracts.TypeHighGrowth, result.Type)
	assert.Equal(t, contracts.TypeMatureGrowth, result.Type) // 5% < g <= 20%, margin > 5%

	// Just above does
	above := base
	above.RevenueGrowth = 0.200001
	result = newClassifier().Classify(above)
	assert.Equal(t, contracts.TypeHighGrowth, result.Type)
	assert.Equal(t, 0.80, result.Confidence)

	// Unprofitable high growth gets higher classification confidence
	unprofitable := base
	unprofitable.RevenueGrowth = 0.40
	unprofitable.ProfitMargin = -0.15
	result = newClassifier().Classify(unprofitable)
	assert.Equal(t, contracts.TypeHighGrowth, result.Type)
	assert.Equal(t, 0.85, result.Confidence)
}

func TestClassify_DividendPayer(t *testing.T) {
	sustainable := contracts.CompanySnapshot{
		Sector:        "Consumer Defensive",
		DividendYield: 0.035,
		PayoutRatio:   0.55,
	}
	result := newClassifier().Classify(sustainable)
	assert.Equal(t, contracts.TypeDividendPayer, result.Type)
	assert.Equal(t, 0.85, result.Confidence)

	stretched := sustainable
	stretched.PayoutRatio = 1.20
	result = newClassifier().Classify(stretched)
	assert.Equal(t, contracts.TypeDividendPayer, result.Type)
	assert.Equal(t, 0.70, result.Confidence)

	// No payout data at all: dividend rule does not fire
	noPayout := sustainable
	noPayout.PayoutRatio = 0
	result = newClassifier().Classify(noPayout)
	assert.NotEqual(t, contracts.TypeDividendPayer, result.Type)
}

func TestClassify_Value(t *testing.T) {
	cheap := contracts.CompanySnapshot{
		Sector:      "Industrials", // not cyclical-keyword matched
		TrailingPE:  12.0,
		PriceToBook: 1.1,
	}
	result := newClassifier().Classify(cheap)
	assert.Equal(t, contracts.TypeValue, result.Type)
	assert.Equal(t, 0.70, result.Confidence)

	slowProfitable := contracts.CompanySnapshot{
		Sector:        "Industrials",
		RevenueGrowth: 0.02,
		TrailingPE:    16.0,
		PriceToBook:   2.5, // fails the first value rule
		ProfitMargin:  0.08,
	}
	result = newClassifier().Classify(slowProfitable)
	assert.Equal(t, contracts.TypeValue, result.Type)
	assert.Equal(t, 0.65, result.Confidence)
}

func TestZScoreProxy(t *testing.T) {
	s := contracts.CompanySnapshot{
		TotalAssets:      1000,
		WorkingCapital:   200,
		RetainedEarnings: 300,
		EBIT:             100,
		MarketCap:        1500,
		TotalLiabilities: 500,
		Revenue:          800,
	}

	// 1.2*0.2 + 1.4*0.3 + 3.3*0.1 + 0.6*3.0 + 1.0*0.8 = 3.59
	assert.InDelta(t, 3.59, ZScoreProxy(s), 1e-9)
}

func TestZScoreProxy_DefaultLeverageTerm(t *testing.T) {
	s := contracts.CompanySnapshot{
		TotalAssets:      1000,
		WorkingCapital:   200,
		RetainedEarnings: 300,
		EBIT:             100,
		MarketCap:        1500,
		TotalLiabilities: 0, // unusable: D term defaults to 2.0
		Revenue:          800,
	}

	// 1.2*0.2 + 1.4*0.3 + 3.3*0.1 + 0.6*2.0 + 1.0*0.8 = 2.99
	assert.InDelta(t, 2.99, ZScoreProxy(s), 1e-9)
}

func TestZScoreProxy_WorkingCapitalFallback(t *testing.T) {
	s := contracts.CompanySnapshot{
		TotalAssets:        1000,
		CurrentAssets:      500,
		CurrentLiabilities: 300, // working capital derives to 200
		RetainedEarnings:   300,
		EBIT:               100,
		MarketCap:          1500,
		TotalLiabilities:   500,
		Revenue:            800,
	}

	assert.InDelta(t, 3.59, ZScoreProxy(s), 1e-9)
}
