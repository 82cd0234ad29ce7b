package methods

import (
	"fmt"
	"math"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

const (
	defaultProjectionYears = 5
	terminalGrowthCap      = 0.04
	defaultTerminalGrowth  = 0.025

	// Discount-rate floors keep the terminal value out of singular territory
	waccFloor         = 0.08
	costOfEquityFloor = 0.10
	minGrowthSpread   = 0.04

	// Fixed reporting band for DCF point estimates
	dcfRangeLow  = 0.85
	dcfRangeHigh = 1.20
)

// autoGrowthRate is the fallback projection schedule when the snapshot
// carries no growth estimates: 10% years 1-2, 7% years 3-4, 4% after.
func autoGrowthRate(year int) float64 {
	switch {
	case year <= 2:
		return 0.10
	case year <= 4:
		return 0.07
	default:
		return 0.04
	}
}

// DCFInput carries everything a discounted cash flow run needs
type DCFInput struct {
	BaseCashFlow   float64   // most recent FCFF or FCFE
	GrowthRates    []float64 // explicit per-year schedule; empty = auto
	Years          int       // projection horizon, default 5
	DiscountRate   float64   // WACC for FCFF, cost of equity for FCFE
	TerminalGrowth float64   // default 2.5%, capped at 4%
	NetDebt        float64   // FCFF only: enterprise -> equity bridge
	Shares         float64
}

// DCFCalculator values companies from projected free cash flow
type DCFCalculator struct {
	logger *logger.Logger
}

// NewDCFCalculator creates a new DCF calculator
func NewDCFCalculator(log *logger.Logger) *DCFCalculator {
	return &DCFCalculator{logger: log}
}

// FCFF values the whole firm from free cash flow to firm, discounted at
// WACC, then bridges to equity by subtracting net debt.
func (c *DCFCalculator) FCFF(in DCFInput) contracts.MethodResult {
	return c.discount(contracts.MethodDCFFCFF, in, waccFloor, true)
}

// FCFE values equity directly from free cash flow to equity, discounted at
// the cost of equity. No debt bridge.
func (c *DCFCalculator) FCFE(in DCFInput) contracts.MethodResult {
	in.NetDebt = 0
	return c.discount(contracts.MethodDCFFCFE, in, costOfEquityFloor, false)
}

func (c *DCFCalculator) discount(method contracts.ValuationMethod, in DCFInput, rateFloor float64, bridgeDebt bool) contracts.MethodResult {
	if in.Shares <= 0 {
		return contracts.InsufficientResult(method, "shares outstanding unavailable")
	}
	if in.BaseCashFlow <= 0 {
		return contracts.InsufficientResult(method, "base cash flow is not positive")
	}

	warnings := make([]string, 0)
	assumptions := map[string]float64{}
	details := map[string]float64{}

	years := in.Years
	if years <= 0 {
		years = defaultProjectionYears
	}

	terminalGrowth := in.TerminalGrowth
	if terminalGrowth == 0 {
		terminalGrowth = defaultTerminalGrowth
	}
	if terminalGrowth > terminalGrowthCap {
		warnings = append(warnings,
			fmt.Sprintf("terminal growth %.1f%% capped at %.1f%%", terminalGrowth*100, terminalGrowthCap*100))
		terminalGrowth = terminalGrowthCap
	}

	rate := in.DiscountRate
	if rate < rateFloor {
		warnings = append(warnings,
			fmt.Sprintf("discount rate %.2f%% below floor, using %.2f%%", rate*100, rateFloor*100))
		rate = rateFloor
	}
	if rate-terminalGrowth < minGrowthSpread {
		rate = terminalGrowth + minGrowthSpread
		warnings = append(warnings,
			fmt.Sprintf("growth/discount spread too narrow, discount rate raised to %.2f%%", rate*100))
	}

	autoGrowth := len(in.GrowthRates) == 0

	// Project and discount the explicit horizon
	cashFlow := in.BaseCashFlow
	pvSum := 0.0
	for year := 1; year <= years; year++ {
		cashFlow *= 1 + c.growthForYear(in.GrowthRates, year)
		pvSum += cashFlow / math.Pow(1+rate, float64(year))
	}

	// Terminal value via Gordon growth on the final projected cash flow
	terminalValue := cashFlow * (1 + terminalGrowth) / (rate - terminalGrowth)
	pvTerminal := terminalValue / math.Pow(1+rate, float64(years))

	enterpriseValue := pvSum + pvTerminal
	equityValue := enterpriseValue
	if bridgeDebt {
		equityValue -= in.NetDebt
	}

	floored := false
	if equityValue <= 0 {
		warnings = append(warnings, "net debt exceeds discounted cash flow value, equity floored at zero")
		equityValue = 0
		floored = true
	}

	fairValue := equityValue / in.Shares

	assumptions["discount_rate"] = rate
	assumptions["terminal_growth"] = terminalGrowth
	assumptions["projection_years"] = float64(years)
	details["pv_explicit"] = pvSum
	details["pv_terminal"] = pvTerminal
	details["enterprise_value"] = enterpriseValue
	details["equity_value"] = equityValue

	confidence := 70.0
	quality := contracts.QualityHigh
	if autoGrowth {
		confidence = 65.0
		quality = contracts.QualityMedium
		assumptions["auto_growth_schedule"] = 1
	}
	confidence -= 5 * float64(len(warnings))
	if floored {
		confidence = 20
		quality = contracts.QualityLow
	}
	if confidence < 20 {
		confidence = 20
	}

	c.logger.WithFields(map[string]interface{}{
		"method":     method,
		"fair_value": fairValue,
		"rate":       rate,
	}).Debug("Calculated DCF valuation")

	return contracts.MethodResult{
		Method:             method,
		FairValue:          fairValue,
		Confidence:         confidence,
		Quality:            quality,
		LowEstimate:        fairValue * dcfRangeLow,
		HighEstimate:       fairValue * dcfRangeHigh,
		Assumptions:        assumptions,
		CalculationDetails: details,
		Warnings:           warnings,
	}
}

// growthForYear reads the explicit schedule, repeating its last entry past
// the end, or falls back to the auto schedule.
func (c *DCFCalculator) growthForYear(schedule []float64, year int) float64 {
	if len(schedule) == 0 {
		return autoGrowthRate(year)
	}
	if year-1 < len(schedule) {
		return schedule[year-1]
	}
	return schedule[len(schedule)-1]
}
