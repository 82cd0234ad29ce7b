package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/backend/internal/contracts"
)

func method(m contracts.ValuationMethod, fv, conf, weight float64) contracts.MethodResult {
	return contracts.MethodResult{
		Method:       m,
		FairValue:    fv,
		Confidence:   conf,
		Quality:      contracts.QualityMedium,
		LowEstimate:  fv * 0.9,
		HighEstimate: fv * 1.1,
		Weight:       weight,
	}
}

func TestAggregateOutlierDampening(t *testing.T) {
	eng := newTestEngine()

	// A 6x-price estimate at weight 0.30 and confidence 80 is dampened to
	// an effective weight of 0.30 * 0.80 * (1 - 0.1) = 0.216
	r := &contracts.ValuationResult{
		CurrentPrice: 100,
		MethodResults: []contracts.MethodResult{
			method(contracts.MethodDCFFCFF, 600, 80, 0.30),
			method(contracts.MethodPE, 100, 50, 0.70),
		},
	}

	eng.aggregate(r)

	// Second method contributes 0.70 * 0.50 = 0.35 effective weight
	expected := (0.30*0.80*0.9*600 + 0.35*100) / (0.30*0.80*0.9 + 0.35)
	assert.InDelta(t, expected, r.FairValue, 1e-9)
	assert.NotEmpty(t, r.DataWarnings)
}

func TestAggregateConfidenceGate(t *testing.T) {
	eng := newTestEngine()

	r := &contracts.ValuationResult{
		CurrentPrice: 100,
		MethodResults: []contracts.MethodResult{
			method(contracts.MethodPE, 120, 30, 0.50), // exactly at the gate: excluded
			method(contracts.MethodPB, 80, 60, 0.50),
		},
	}

	eng.aggregate(r)

	assert.InDelta(t, 80.0, r.FairValue, 1e-9)
	assert.Equal(t, contracts.MethodPB, r.PrimaryMethod)
}

func TestAggregateNothingPassesGate(t *testing.T) {
	eng := newTestEngine()

	r := &contracts.ValuationResult{
		CurrentPrice: 100,
		MethodResults: []contracts.MethodResult{
			method(contracts.MethodPE, 120, 25, 1.0),
		},
	}

	eng.aggregate(r)

	assert.Equal(t, contracts.StatusInsufficientData, r.Status)
	assert.Equal(t, 20.0, r.OverallConfidence)
	assert.Equal(t, contracts.QualityInsufficient, r.OverallQuality)
}

func TestAggregateBandMean(t *testing.T) {
	eng := newTestEngine()

	a := method(contracts.MethodPE, 100, 70, 0.5)
	a.LowEstimate, a.HighEstimate = 80, 120
	b := method(contracts.MethodPB, 110, 70, 0.5)
	b.LowEstimate, b.HighEstimate = 90, 140

	r := &contracts.ValuationResult{
		CurrentPrice:  100,
		MethodResults: []contracts.MethodResult{a, b},
	}

	eng.aggregate(r)

	assert.InDelta(t, 85.0, r.FairValueLow, 1e-9)
	assert.InDelta(t, 130.0, r.FairValueHigh, 1e-9)
}

func TestAggregateBandFallback(t *testing.T) {
	eng := newTestEngine()

	a := method(contracts.MethodPE, 100, 70, 1.0)
	a.LowEstimate, a.HighEstimate = 0, 0

	r := &contracts.ValuationResult{
		CurrentPrice:  100,
		MethodResults: []contracts.MethodResult{a},
	}

	eng.aggregate(r)

	assert.InDelta(t, 85.0, r.FairValueLow, 1e-9)
	assert.InDelta(t, 120.0, r.FairValueHigh, 1e-9)
}

func TestAggregatePrimaryMethod(t *testing.T) {
	eng := newTestEngine()

	r := &contracts.ValuationResult{
		CurrentPrice: 100,
		MethodResults: []contracts.MethodResult{
			method(contracts.MethodDCFFCFF, 105, 60, 0.40), // 24.0
			method(contracts.MethodPE, 95, 90, 0.30),       // 27.0
			method(contracts.MethodPB, 100, 70, 0.30),      // 21.0
		},
	}

	eng.aggregate(r)

	assert.Equal(t, contracts.MethodPE, r.PrimaryMethod)
}

func TestDetermineStatusThresholds(t *testing.T) {
	eng := newTestEngine()

	tests := []struct {
		name      string
		fairValue float64
		status    contracts.ValuationStatus
	}{
		{"significantly undervalued", 130, contracts.StatusSignificantlyUndervalued},
		{"undervalued", 115, contracts.StatusUndervalued},
		{"fairly valued high side", 105, contracts.StatusFairlyValued},
		{"fairly valued low side", 92, contracts.StatusFairlyValued},
		{"overvalued", 85, contracts.StatusOvervalued},
		{"significantly overvalued", 70, contracts.StatusSignificantlyOvervalued},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &contracts.ValuationResult{CurrentPrice: 100, FairValue: tt.fairValue}
			eng.determineStatus(r)
			assert.Equal(t, tt.status, r.Status)
		})
	}
}

func TestMarginOfSafety(t *testing.T) {
	eng := newTestEngine()

	under := &contracts.ValuationResult{CurrentPrice: 80, FairValue: 100}
	eng.determineStatus(under)
	assert.InDelta(t, 20.0, under.MarginOfSafety, 1e-9)

	over := &contracts.ValuationResult{CurrentPrice: 120, FairValue: 100}
	eng.determineStatus(over)
	assert.Equal(t, 0.0, over.MarginOfSafety)
}

func TestOverallConfidence(t *testing.T) {
	eng := newTestEngine()

	contributing := []contracts.MethodResult{
		method(contracts.MethodPE, 100, 80, 0.5),
		method(contracts.MethodPB, 102, 60, 0.5),
	}
	r := &contracts.ValuationResult{MissingData: []string{"beta", "free_cash_flow"}}

	// avg 70, missing penalty 6, count penalty 10 (<3), agreement +10
	got := eng.overallConfidence(r, contributing)
	assert.InDelta(t, 64.0, got, 1e-9)
}

func TestOverallConfidenceClamped(t *testing.T) {
	eng := newTestEngine()

	one := []contracts.MethodResult{method(contracts.MethodPE, 100, 30, 1.0)}
	r := &contracts.ValuationResult{
		MissingData: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
	}

	// 30 - 20 - 15 would be negative: clamped to the floor
	assert.Equal(t, 20.0, eng.overallConfidence(r, one))
}

func TestAgreementBonus(t *testing.T) {
	tight := []contracts.MethodResult{
		method(contracts.MethodPE, 100, 70, 0.5),
		method(contracts.MethodPB, 104, 70, 0.5),
	}
	assert.Equal(t, 10.0, agreementBonus(tight))

	loose := []contracts.MethodResult{
		method(contracts.MethodPE, 100, 70, 0.5),
		method(contracts.MethodPB, 145, 70, 0.5),
	}
	assert.Equal(t, 5.0, agreementBonus(loose))

	scattered := []contracts.MethodResult{
		method(contracts.MethodPE, 100, 70, 0.5),
		method(contracts.MethodPB, 200, 70, 0.5),
	}
	assert.Equal(t, 0.0, agreementBonus(scattered))

	require.Equal(t, 0.0, agreementBonus(tight[:1]))
}
