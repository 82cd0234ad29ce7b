package methods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

func TestFCFFFlatGrowth(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	// Zero growth, 10% discount, 2.5% terminal: annuity of 100 plus the
	// Gordon terminal value, 1227.67 enterprise value over 10 shares.
	res := calc.FCFF(DCFInput{
		BaseCashFlow:   100,
		GrowthRates:    []float64{0},
		Years:          5,
		DiscountRate:   0.10,
		TerminalGrowth: 0.025,
		Shares:         10,
	})

	require.Equal(t, contracts.MethodDCFFCFF, res.Method)
	assert.InDelta(t, 122.767, res.FairValue, 0.01)
	assert.InDelta(t, 1227.672, res.CalculationDetails["enterprise_value"], 0.05)
	assert.Equal(t, 70.0, res.Confidence)
	assert.Equal(t, contracts.QualityHigh, res.Quality)
	assert.InDelta(t, res.FairValue*0.85, res.LowEstimate, 1e-9)
	assert.InDelta(t, res.FairValue*1.20, res.HighEstimate, 1e-9)
	assert.Empty(t, res.Warnings)
}

func TestFCFFNetDebtBridge(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	base := calc.FCFF(DCFInput{
		BaseCashFlow: 100,
		GrowthRates:  []float64{0},
		DiscountRate: 0.10,
		Shares:       10,
	})
	levered := calc.FCFF(DCFInput{
		BaseCashFlow: 100,
		GrowthRates:  []float64{0},
		DiscountRate: 0.10,
		NetDebt:      500,
		Shares:       10,
	})

	assert.InDelta(t, base.FairValue-50, levered.FairValue, 1e-9)
}

func TestFCFENoDebtBridge(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	// FCFE must ignore net debt even when the caller passes it
	plain := calc.FCFE(DCFInput{
		BaseCashFlow: 100,
		GrowthRates:  []float64{0},
		DiscountRate: 0.11,
		Shares:       10,
	})
	withDebt := calc.FCFE(DCFInput{
		BaseCashFlow: 100,
		GrowthRates:  []float64{0},
		DiscountRate: 0.11,
		NetDebt:      500,
		Shares:       10,
	})

	assert.Equal(t, plain.FairValue, withDebt.FairValue)
}

func TestDCFInsufficientInputs(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	noShares := calc.FCFF(DCFInput{BaseCashFlow: 100, DiscountRate: 0.10})
	assert.False(t, noShares.Executable())
	assert.Equal(t, contracts.QualityInsufficient, noShares.Quality)

	negative := calc.FCFF(DCFInput{BaseCashFlow: -50, DiscountRate: 0.10, Shares: 10})
	assert.False(t, negative.Executable())
}

func TestDCFTerminalGrowthCap(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	res := calc.FCFF(DCFInput{
		BaseCashFlow:   100,
		GrowthRates:    []float64{0.05},
		DiscountRate:   0.12,
		TerminalGrowth: 0.06,
		Shares:         10,
	})

	assert.Equal(t, 0.04, res.Assumptions["terminal_growth"])
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 65.0, res.Confidence)
}

func TestDCFRateFloors(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	// FCFF floors WACC at 8%
	fcff := calc.FCFF(DCFInput{
		BaseCashFlow: 100,
		GrowthRates:  []float64{0.02},
		DiscountRate: 0.05,
		Shares:       10,
	})
	assert.Equal(t, 0.08, fcff.Assumptions["discount_rate"])
	assert.NotEmpty(t, fcff.Warnings)

	// FCFE floors the cost of equity at 10%
	fcfe := calc.FCFE(DCFInput{
		BaseCashFlow: 100,
		GrowthRates:  []float64{0.02},
		DiscountRate: 0.09,
		Shares:       10,
	})
	assert.Equal(t, 0.10, fcfe.Assumptions["discount_rate"])
}

func TestDCFTerminalGrowthSpread(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	// Even at the aggressive corner the cap and floors guarantee the
	// denominator spread never narrows below 4%
	res := calc.FCFF(DCFInput{
		BaseCashFlow:   100,
		GrowthRates:    []float64{0.03},
		DiscountRate:   0.085,
		TerminalGrowth: 0.055,
		Shares:         10,
	})

	assert.Equal(t, 0.04, res.Assumptions["terminal_growth"])
	assert.GreaterOrEqual(t, res.Assumptions["discount_rate"]-res.Assumptions["terminal_growth"], 0.04-1e-9)
	assert.NotEmpty(t, res.Warnings)
}

func TestDCFAutoGrowthSchedule(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	res := calc.FCFF(DCFInput{
		BaseCashFlow: 100,
		DiscountRate: 0.10,
		Shares:       10,
	})

	assert.Equal(t, 65.0, res.Confidence)
	assert.Equal(t, contracts.QualityMedium, res.Quality)
	assert.Equal(t, 1.0, res.Assumptions["auto_growth_schedule"])
}

func TestDCFEquityFloor(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	res := calc.FCFF(DCFInput{
		BaseCashFlow: 10,
		GrowthRates:  []float64{0},
		DiscountRate: 0.10,
		NetDebt:      1e9,
		Shares:       10,
	})

	assert.Equal(t, 0.0, res.FairValue)
	assert.Equal(t, 20.0, res.Confidence)
	assert.Equal(t, contracts.QualityLow, res.Quality)
}

func TestGrowthForYearRepeatsLastEntry(t *testing.T) {
	calc := NewDCFCalculator(logger.Nop())

	schedule := []float64{0.10, 0.06}
	assert.Equal(t, 0.10, calc.growthForYear(schedule, 1))
	assert.Equal(t, 0.06, calc.growthForYear(schedule, 2))
	assert.Equal(t, 0.06, calc.growthForYear(schedule, 5))
}
