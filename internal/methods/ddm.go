package methods

import (
	"fmt"
	"math"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

const (
	// Forced spreads when growth crowds the discount rate
	gordonGrowthSpread  = 0.03
	twoStageTerminalGap = 0.02

	defaultDividendGrowth  = 0.03
	defaultHighGrowth      = 0.08
	defaultHighGrowthYears = 5

	ddmRangeLow  = 0.85
	ddmRangeHigh = 1.15
)

// GordonInput is the constant-growth dividend discount input
type GordonInput struct {
	Dividend     float64 // D0, most recent annual dividend per share
	GrowthRate   float64 // expected dividend growth, default 3%
	CostOfEquity float64
}

// TwoStageInput adds an explicit high-growth phase before the terminal stage
type TwoStageInput struct {
	Dividend        float64
	HighGrowth      float64 // default 8%
	HighGrowthYears int     // default 5
	TerminalGrowth  float64 // default 3%
	CostOfEquity    float64
}

// HModelInput assumes growth declines linearly from initial to terminal
// over twice the half-life H
type HModelInput struct {
	Dividend       float64
	InitialGrowth  float64
	TerminalGrowth float64
	HalfLifeYears  float64 // H, default 5
	CostOfEquity   float64
}

// DDMCalculator values dividend payers from discounted dividend streams
type DDMCalculator struct {
	logger *logger.Logger
}

// NewDDMCalculator creates a new dividend discount calculator
func NewDDMCalculator(log *logger.Logger) *DDMCalculator {
	return &DDMCalculator{logger: log}
}

// Gordon applies the constant-growth model P = D0*(1+g)/(re-g).
// When re <= g the growth rate is forced to re - 3% with a warning rather
// than letting the denominator blow up.
func (c *DDMCalculator) Gordon(in GordonInput) contracts.MethodResult {
	if in.Dividend <= 0 {
		return contracts.InsufficientResult(contracts.MethodDDMGordon, "no dividend to discount")
	}

	warnings := make([]string, 0)

	growth := in.GrowthRate
	if growth == 0 {
		growth = defaultDividendGrowth
	}

	re := in.CostOfEquity
	if re <= growth {
		growth = re - gordonGrowthSpread
		warnings = append(warnings,
			fmt.Sprintf("dividend growth at or above cost of equity, forced to %.2f%%", growth*100))
	}

	fairValue := in.Dividend * (1 + growth) / (re - growth)
	if fairValue < 0 {
		warnings = append(warnings, "model produced a negative value, floored at zero")
		fairValue = 0
	}

	confidence := 70.0 - 10*float64(len(warnings))
	if confidence < 20 {
		confidence = 20
	}
	quality := contracts.QualityHigh
	if len(warnings) > 0 {
		quality = contracts.QualityMedium
	}

	return contracts.MethodResult{
		Method:       contracts.MethodDDMGordon,
		FairValue:    fairValue,
		Confidence:   confidence,
		Quality:      quality,
		LowEstimate:  fairValue * ddmRangeLow,
		HighEstimate: fairValue * ddmRangeHigh,
		Assumptions: map[string]float64{
			"dividend_growth": growth,
			"cost_of_equity":  re,
		},
		CalculationDetails: map[string]float64{
			"d0": in.Dividend,
		},
		Warnings: warnings,
	}
}

// TwoStage discounts an explicit high-growth dividend phase, then a Gordon
// terminal stage. Terminal growth is forced 2% below the cost of equity
// when it crowds it.
func (c *DDMCalculator) TwoStage(in TwoStageInput) contracts.MethodResult {
	if in.Dividend <= 0 {
		return contracts.InsufficientResult(contracts.MethodDDMTwoStage, "no dividend to discount")
	}

	warnings := make([]string, 0)

	highGrowth := in.HighGrowth
	if highGrowth <= 0 {
		highGrowth = defaultHighGrowth
	}
	years := in.HighGrowthYears
	if years <= 0 {
		years = defaultHighGrowthYears
	}
	terminalGrowth := in.TerminalGrowth
	if terminalGrowth == 0 {
		terminalGrowth = defaultDividendGrowth
	}

	re := in.CostOfEquity
	if terminalGrowth >= re {
		terminalGrowth = re - twoStageTerminalGap
		warnings = append(warnings,
			fmt.Sprintf("terminal growth at or above cost of equity, forced to %.2f%%", terminalGrowth*100))
	}

	// Explicit phase
	dividend := in.Dividend
	pvSum := 0.0
	for year := 1; year <= years; year++ {
		dividend *= 1 + highGrowth
		pvSum += dividend / math.Pow(1+re, float64(year))
	}

	// Terminal stage at the end of the explicit phase
	terminalDividend := dividend * (1 + terminalGrowth)
	terminalValue := terminalDividend / (re - terminalGrowth)
	pvTerminal := terminalValue / math.Pow(1+re, float64(years))

	fairValue := pvSum + pvTerminal
	if fairValue < 0 {
		warnings = append(warnings, "model produced a negative value, floored at zero")
		fairValue = 0
	}

	confidence := 65.0 - 10*float64(len(warnings))
	if confidence < 20 {
		confidence = 20
	}
	quality := contracts.QualityMedium
	if len(warnings) == 0 {
		quality = contracts.QualityHigh
	}

	return contracts.MethodResult{
		Method:       contracts.MethodDDMTwoStage,
		FairValue:    fairValue,
		Confidence:   confidence,
		Quality:      quality,
		LowEstimate:  fairValue * ddmRangeLow,
		HighEstimate: fairValue * ddmRangeHigh,
		Assumptions: map[string]float64{
			"high_growth":       highGrowth,
			"high_growth_years": float64(years),
			"terminal_growth":   terminalGrowth,
			"cost_of_equity":    re,
		},
		CalculationDetails: map[string]float64{
			"pv_explicit": pvSum,
			"pv_terminal": pvTerminal,
		},
		Warnings: warnings,
	}
}

// HModel blends a declining-growth phase into a stable terminal stage:
//
//	P = (D0*(1+gt) + D0*H*(gi-gt)) / (re - gt)
//
// When initial growth does not exceed terminal growth there is nothing to
// decline from, so the calculation falls back to Gordon.
func (c *DDMCalculator) HModel(in HModelInput) contracts.MethodResult {
	if in.Dividend <= 0 {
		return contracts.InsufficientResult(contracts.MethodDDMHModel, "no dividend to discount")
	}

	terminalGrowth := in.TerminalGrowth
	if terminalGrowth == 0 {
		terminalGrowth = defaultDividendGrowth
	}

	if in.InitialGrowth <= terminalGrowth {
		result := c.Gordon(GordonInput{
			Dividend:     in.Dividend,
			GrowthRate:   terminalGrowth,
			CostOfEquity: in.CostOfEquity,
		})
		result.Method = contracts.MethodDDMHModel
		result.Warnings = append(result.Warnings,
			"initial growth does not exceed terminal growth, fell back to constant-growth model")
		return result
	}

	warnings := make([]string, 0)

	halfLife := in.HalfLifeYears
	if halfLife <= 0 {
		halfLife = float64(defaultHighGrowthYears)
	}

	re := in.CostOfEquity
	if terminalGrowth >= re {
		terminalGrowth = re - twoStageTerminalGap
		warnings = append(warnings,
			fmt.Sprintf("terminal growth at or above cost of equity, forced to %.2f%%", terminalGrowth*100))
	}

	stableComponent := in.Dividend * (1 + terminalGrowth)
	decliningComponent := in.Dividend * halfLife * (in.InitialGrowth - terminalGrowth)
	fairValue := (stableComponent + decliningComponent) / (re - terminalGrowth)
	if fairValue < 0 {
		warnings = append(warnings, "model produced a negative value, floored at zero")
		fairValue = 0
	}

	confidence := 65.0 - 10*float64(len(warnings))
	if confidence < 20 {
		confidence = 20
	}
	quality := contracts.QualityMedium
	if len(warnings) == 0 {
		quality = contracts.QualityHigh
	}

	return contracts.MethodResult{
		Method:       contracts.MethodDDMHModel,
		FairValue:    fairValue,
		Confidence:   confidence,
		Quality:      quality,
		LowEstimate:  fairValue * ddmRangeLow,
		HighEstimate: fairValue * ddmRangeHigh,
		Assumptions: map[string]float64{
			"initial_growth":  in.InitialGrowth,
			"terminal_growth": terminalGrowth,
			"half_life_years": halfLife,
			"cost_of_equity":  re,
		},
		CalculationDetails: map[string]float64{
			"stable_component":    stableComponent,
			"declining_component": decliningComponent,
		},
		Warnings: warnings,
	}
}
