package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

var market = contracts.MarketInputs{
	RiskFreeRate:      0.045,
	EquityRiskPremium: 0.055,
}

func TestCalculate_CAPM(t *testing.T) {
	calc := NewCalculator(logger.Nop())

	s := contracts.CompanySnapshot{
		Ticker:    "ACME",
		Beta:      1.2,
		MarketCap: 300e9, // largest tier: no size premium
	}

	rates := calc.Calculate(s, market)

	// re = 0.045 + 1.2*0.055 + 0 + 0 = 0.111
	assert.InDelta(t, 0.111, rates.CostOfEquity, 1e-9)
	assert.Equal(t, 1.2, rates.Beta)
	assert.Equal(t, 0.0, rates.SizePremium)
}

func TestNormalizeBeta(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"missing beta defaults", 0, 1.0},
		{"negative beta defaults", -0.8, 1.0},
		{"below floor clamps", 0.2, 0.5},
		{"above ceiling clamps", 4.5, 3.0},
		{"in range passes", 1.35, 1.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeBeta(tt.in))
		})
	}
}

func TestSizePremium_DescendingScan(t *testing.T) {
	tests := []struct {
		marketCap float64
		want      float64
	}{
		{250e9, 0.0},
		{200e9, 0.0}, // floor inclusive
		{120e9, 0.0025},
		{60e9, 0.005},
		{15e9, 0.01},
		{3e9, 0.015},
		{1.2e9, 0.02},
		{600e6, 0.03},
		{300e6, 0.04},
		{100e6, 0.05},
		{0, 0.05}, // unknown market cap
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sizePremium(tt.marketCap), "market cap %v", tt.marketCap)
	}
}

func TestSyntheticRating_DescendingScan(t *testing.T) {
	tests := []struct {
		coverage   float64
		wantRating string
	}{
		{20.0, "AAA"},
		{12.5, "AAA"}, // floor inclusive
		{10.0, "AA"},
		{8.0, "A+"},
		{6.5, "A"},
		{5.7, "A-"},
		{5.0, "BBB"}, // the default-coverage landing spot
		{4.2, "BB+"},
		{3.7, "BB"},
		{3.2, "B+"},
		{2.7, "B"},
		{2.2, "B-"},
		{1.7, "CCC"},
		{1.3, "CC"},
		{1.0, "C"},
		{0.5, "D"},
		{-3.0, "D"},
	}

	for _, tt := range tests {
		rating, spread := syntheticRating(tt.coverage)
		assert.Equal(t, tt.wantRating, rating, "coverage %v", tt.coverage)
		assert.Greater(t, spread, 0.0)
	}
}

func TestCostOfDebt_NoDebt(t *testing.T) {
	calc := NewCalculator(logger.Nop())

	rates := calc.Calculate(contracts.CompanySnapshot{MarketCap: 10e9}, market)

	assert.Equal(t, "N/A", rates.CreditRating)
	assert.Equal(t, 0.0, rates.CreditSpread)
	assert.Equal(t, market.RiskFreeRate, rates.CostOfDebt)
	assert.Equal(t, 1.0, rates.WeightEquity)
}

func TestCostOfDebt_DefaultCoverage(t *testing.T) {
	calc := NewCalculator(logger.Nop())

	// Debt exists but EBIT/interest are unusable: default coverage 5.0 -> BBB
	s := contracts.CompanySnapshot{
		MarketCap: 10e9,
		TotalDebt: 2e9,
	}
	rates := calc.Calculate(s, market)

	assert.Equal(t, "BBB", rates.CreditRating)
	assert.InDelta(t, market.RiskFreeRate+0.0171, rates.CostOfDebt, 1e-9)
}

func TestCostOfDebt_FromCoverage(t *testing.T) {
	calc := NewCalculator(logger.Nop())

	s := contracts.CompanySnapshot{
		MarketCap:       10e9,
		TotalDebt:       2e9,
		EBIT:            800e6,
		InterestExpense: 100e6, // coverage 8.0 -> A+
	}
	rates := calc.Calculate(s, market)

	assert.Equal(t, "A+", rates.CreditRating)
	assert.InDelta(t, market.RiskFreeRate+0.0107, rates.CostOfDebt, 1e-9)
}

func TestWACC(t *testing.T) {
	calc := NewCalculator(logger.Nop())

	s := contracts.CompanySnapshot{
		Beta:         1.0,
		MarketCap:    8e9, // weight 0.8, size premium 0.015
		TotalDebt:    2e9, // weight 0.2, default coverage -> BBB
		EffectiveTax: 0.25,
	}
	rates := calc.Calculate(s, market)

	wantEquity := 0.045 + 1.0*0.055 + 0.015 // 0.115
	wantDebt := 0.045 + 0.0171              // 0.0621
	wantWACC := 0.8*wantEquity + 0.2*wantDebt*(1-0.25)

	assert.InDelta(t, wantEquity, rates.CostOfEquity, 1e-9)
	assert.InDelta(t, wantWACC, rates.WACC, 1e-9)
	assert.InDelta(t, 0.8, rates.WeightEquity, 1e-9)
	assert.InDelta(t, 0.2, rates.WeightDebt, 1e-9)
	assert.Equal(t, 0.25, rates.TaxRate)
}

func TestWACC_AllEquityWhenNoCapital(t *testing.T) {
	equity, debt := capitalWeights(0, 0)
	assert.Equal(t, 1.0, equity)
	assert.Equal(t, 0.0, debt)
}
