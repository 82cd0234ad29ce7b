package methods

import (
	"fmt"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// Rule of 40 score tiers mapped to multiple adjustments, scanned top down
type ruleOf40Tier struct {
	MinScore   float64
	Adjustment float64
}

var ruleOf40Tiers = []ruleOf40Tier{
	{60, 1.3},
	{40, 1.1},
	{25, 0.9},
	{10, 0.7},
}

// weakRuleOf40Adjustment applies below the lowest tier, with a warning
const weakRuleOf40Adjustment = 0.5

// Growth-tiered default EV/Revenue base multiples when no peer median exists
type growthMultipleTier struct {
	MinGrowth float64
	Multiple  float64
}

var defaultEVRevenueTiers = []growthMultipleTier{
	{0.40, 8.0},
	{0.25, 6.0},
	{0.10, 4.0},
	{0, 2.0},
}

// EV/ARR growth tiers with a low/high multiple range each, scanned top down
type arrTier struct {
	MinGrowth float64
	Low       float64
	High      float64
}

var evARRTiers = []arrTier{
	{0.50, 10.0, 15.0},
	{0.30, 7.0, 10.0},
	{0.20, 5.0, 7.0},
	{0.10, 3.0, 5.0},
	{-1e18, 1.0, 3.0},
}

const (
	evARRMultipleFloor   = 1.0
	evARRMultipleCeiling = 20.0
)

// RuleOf40Input scores growth-efficiency and turns it into a revenue multiple
type RuleOf40Input struct {
	Revenue       float64
	RevenueGrowth float64 // decimal
	ProfitMargin  float64 // decimal, FCF margin where available
	PeerEVRevenue contracts.MultipleBand
	NetDebt       float64
	Shares        float64
}

// EVARRInput values recurring-revenue companies off the ARR base
type EVARRInput struct {
	ARR                 float64 // falls back to revenue upstream
	ARRIsProxy          bool    // true when ARR was proxied from revenue
	RevenueGrowth       float64
	NetRevenueRetention float64 // 0 = unknown
	GrossMargin         float64 // 0 = unknown
	NetDebt             float64
	Shares              float64
}

// GrowthCalculator holds the growth-company heuristics
type GrowthCalculator struct {
	logger *logger.Logger
}

// NewGrowthCalculator creates a new growth-company calculator
func NewGrowthCalculator(log *logger.Logger) *GrowthCalculator {
	return &GrowthCalculator{logger: log}
}

// RuleOf40 maps the growth+margin score to a multiple adjustment applied to
// a base EV/Revenue multiple, then bridges enterprise value to equity.
func (c *GrowthCalculator) RuleOf40(in RuleOf40Input) contracts.MethodResult {
	if in.Shares <= 0 {
		return contracts.InsufficientResult(contracts.MethodRuleOf40, "shares outstanding unavailable")
	}
	if in.Revenue <= 0 {
		return contracts.InsufficientResult(contracts.MethodRuleOf40, "revenue is not positive")
	}

	warnings := make([]string, 0)

	score := in.RevenueGrowth*100 + in.ProfitMargin*100

	adjustment := weakRuleOf40Adjustment
	matched := false
	for _, tier := range ruleOf40Tiers {
		if score >= tier.MinScore {
			adjustment = tier.Adjustment
			matched = true
			break
		}
	}
	if !matched {
		warnings = append(warnings,
			fmt.Sprintf("rule-of-40 score %.1f signals weak growth efficiency", score))
	}

	baseMultiple := in.PeerEVRevenue.Median
	if baseMultiple <= 0 {
		baseMultiple = defaultEVRevenueMultiple(in.RevenueGrowth)
	}

	enterpriseValue := in.Revenue * baseMultiple * adjustment
	equity := enterpriseValue - in.NetDebt

	fairValue := equity / in.Shares
	confidence := 60.0
	quality := contracts.QualityMedium
	if equity <= 0 {
		warnings = append(warnings, "net debt exceeds enterprise value, equity floored at zero")
		fairValue = 0
		confidence = 20
		quality = contracts.QualityLow
	}

	return contracts.MethodResult{
		Method:       contracts.MethodRuleOf40,
		FairValue:    fairValue,
		Confidence:   confidence,
		Quality:      quality,
		LowEstimate:  fairValue * 0.80,
		HighEstimate: fairValue * 1.25,
		Assumptions: map[string]float64{
			"rule_of_40_score":    score,
			"multiple_adjustment": adjustment,
			"base_ev_revenue":     baseMultiple,
		},
		CalculationDetails: map[string]float64{
			"enterprise_value": enterpriseValue,
		},
		Warnings: warnings,
	}
}

// EVARR picks a multiple range from the growth tier, adjusts the midpoint
// for net revenue retention and gross margin, and bridges to equity. Each
// adjustment is independently clamped.
func (c *GrowthCalculator) EVARR(in EVARRInput) contracts.MethodResult {
	if in.Shares <= 0 {
		return contracts.InsufficientResult(contracts.MethodEVARR, "shares outstanding unavailable")
	}
	if in.ARR <= 0 {
		return contracts.InsufficientResult(contracts.MethodEVARR, "annual recurring revenue is not positive")
	}

	warnings := make([]string, 0)
	if in.ARRIsProxy {
		warnings = append(warnings, "ARR proxied from total revenue")
	}

	tier := evARRTiers[len(evARRTiers)-1]
	for _, t := range evARRTiers {
		if in.RevenueGrowth >= t.MinGrowth {
			tier = t
			break
		}
	}

	multiple := (tier.Low + tier.High) / 2

	multiple *= nrrAdjustment(in.NetRevenueRetention)
	multiple *= grossMarginAdjustment(in.GrossMargin)

	if multiple < evARRMultipleFloor {
		multiple = evARRMultipleFloor
	} else if multiple > evARRMultipleCeiling {
		multiple = evARRMultipleCeiling
	}

	bridge := func(m float64) float64 {
		equity := in.ARR*m - in.NetDebt
		if equity < 0 {
			equity = 0
		}
		return equity / in.Shares
	}

	fairValue := bridge(multiple)
	confidence := 55.0
	quality := contracts.QualityMedium
	if fairValue == 0 {
		warnings = append(warnings, "net debt exceeds enterprise value, equity floored at zero")
		confidence = 20
		quality = contracts.QualityLow
	}
	if in.ARRIsProxy && quality > contracts.QualityLow {
		quality = contracts.QualityLow
		confidence -= 10
	}

	return contracts.MethodResult{
		Method:       contracts.MethodEVARR,
		FairValue:    fairValue,
		Confidence:   confidence,
		Quality:      quality,
		LowEstimate:  bridge(tier.Low),
		HighEstimate: bridge(tier.High),
		Assumptions: map[string]float64{
			"ev_arr_multiple": multiple,
			"tier_low":        tier.Low,
			"tier_high":       tier.High,
		},
		CalculationDetails: map[string]float64{
			"arr": in.ARR,
		},
		Warnings: warnings,
	}
}

func defaultEVRevenueMultiple(growth float64) float64 {
	for _, tier := range defaultEVRevenueTiers {
		if growth >= tier.MinGrowth {
			return tier.Multiple
		}
	}
	return defaultEVRevenueTiers[len(defaultEVRevenueTiers)-1].Multiple
}

// nrrAdjustment rewards strong net revenue retention, clamped to [0.8, 1.2]
func nrrAdjustment(nrr float64) float64 {
	if nrr == 0 {
		return 1.0
	}
	adj := 1.0 + (nrr-1.0)
	if adj < 0.8 {
		return 0.8
	}
	if adj > 1.2 {
		return 1.2
	}
	return adj
}

// grossMarginAdjustment scales around a 70% software-margin baseline,
// clamped to [0.85, 1.15]
func grossMarginAdjustment(gm float64) float64 {
	if gm == 0 {
		return 1.0
	}
	adj := 1.0 + (gm-0.70)*0.5
	if adj < 0.85 {
		return 0.85
	}
	if adj > 1.15 {
		return 1.15
	}
	return adj
}
