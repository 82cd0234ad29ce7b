package methods

import (
	"fmt"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// Per-method bounds on the target multiple. Peer medians outside these bands
// are clamped: sector tables can carry bubble-era or depressed readings that
// would otherwise flow straight into the fair value.
type multipleBounds struct {
	Min float64
	Max float64
}

var relativeBounds = map[contracts.ValuationMethod]multipleBounds{
	contracts.MethodPE:        {5.0, 50.0},
	contracts.MethodPB:        {0.3, 10.0},
	contracts.MethodPS:        {0.5, 15.0},
	contracts.MethodEVEBITDA:  {3.0, 25.0},
	contracts.MethodEVRevenue: {0.5, 20.0},
}

const (
	relativeFallbackLow  = 0.85
	relativeFallbackHigh = 1.20

	relativeConfidenceWithBand = 75.0
	relativeConfidenceDefault  = 60.0
)

// RelativeInput drives one multiple-based valuation
type RelativeInput struct {
	Metric           float64 // per-share for price multiples, absolute for EV multiples
	Peers            contracts.MultipleBand
	AdjustmentFactor float64 // growth/margin/ROE differential, 0 = no adjustment
	PeersAreDefault  bool    // true when the band came from the default table

	// EV methods only
	NetDebt float64
	Shares  float64
}

// RelativeCalculator values companies against peer multiples
type RelativeCalculator struct {
	logger *logger.Logger
}

// NewRelativeCalculator creates a new relative valuation calculator
func NewRelativeCalculator(log *logger.Logger) *RelativeCalculator {
	return &RelativeCalculator{logger: log}
}

// PE values equity per share as EPS x target P/E
func (c *RelativeCalculator) PE(in RelativeInput) contracts.MethodResult {
	return c.priceMultiple(contracts.MethodPE, "eps", in)
}

// PB values equity per share as book value per share x target P/B
func (c *RelativeCalculator) PB(in RelativeInput) contracts.MethodResult {
	return c.priceMultiple(contracts.MethodPB, "book value per share", in)
}

// PS values equity per share as revenue per share x target P/S
func (c *RelativeCalculator) PS(in RelativeInput) contracts.MethodResult {
	return c.priceMultiple(contracts.MethodPS, "revenue per share", in)
}

// EVEBITDA values the firm as EBITDA x target EV/EBITDA, then bridges to
// equity through net debt and shares
func (c *RelativeCalculator) EVEBITDA(in RelativeInput) contracts.MethodResult {
	return c.enterpriseMultiple(contracts.MethodEVEBITDA, "ebitda", in)
}

// EVRevenue values the firm as revenue x target EV/Revenue with the same bridge
func (c *RelativeCalculator) EVRevenue(in RelativeInput) contracts.MethodResult {
	return c.enterpriseMultiple(contracts.MethodEVRevenue, "revenue", in)
}

// priceMultiple handles the direct per-share multiples (P/E, P/B, P/S)
func (c *RelativeCalculator) priceMultiple(method contracts.ValuationMethod, metricName string, in RelativeInput) contracts.MethodResult {
	if in.Metric <= 0 {
		return contracts.InsufficientResult(method, fmt.Sprintf("%s is not positive", metricName))
	}
	if !in.Peers.Valid() {
		return contracts.InsufficientResult(method, "no usable peer multiple")
	}

	target, warnings := c.targetMultiple(method, in)

	fairValue := in.Metric * target

	low, high, bandUsed := c.valueRange(in, fairValue, func(multiple float64) float64 {
		return in.Metric * multiple
	})

	return c.finish(method, in, fairValue, low, high, target, bandUsed, warnings)
}

// enterpriseMultiple handles EV/EBITDA and EV/Revenue with the net-debt bridge
func (c *RelativeCalculator) enterpriseMultiple(method contracts.ValuationMethod, metricName string, in RelativeInput) contracts.MethodResult {
	if in.Metric <= 0 {
		return contracts.InsufficientResult(method, fmt.Sprintf("%s is not positive", metricName))
	}
	if in.Shares <= 0 {
		return contracts.InsufficientResult(method, "shares outstanding unavailable")
	}
	if !in.Peers.Valid() {
		return contracts.InsufficientResult(method, "no usable peer multiple")
	}

	target, warnings := c.targetMultiple(method, in)

	bridge := func(multiple float64) float64 {
		equity := in.Metric*multiple - in.NetDebt
		if equity < 0 {
			equity = 0
		}
		return equity / in.Shares
	}

	fairValue := bridge(target)
	if fairValue == 0 {
		warnings = append(warnings, "net debt exceeds enterprise value at the target multiple, equity floored at zero")
	}

	low, high, bandUsed := c.valueRange(in, fairValue, bridge)

	return c.finish(method, in, fairValue, low, high, target, bandUsed, warnings)
}

// targetMultiple applies the adjustment factor to the peer median and clamps
// the result to the method's bounds
func (c *RelativeCalculator) targetMultiple(method contracts.ValuationMethod, in RelativeInput) (float64, []string) {
	warnings := make([]string, 0)

	adjustment := in.AdjustmentFactor
	if adjustment == 0 {
		adjustment = 1.0
	}

	target := in.Peers.Median * adjustment

	bounds := relativeBounds[method]
	if target < bounds.Min {
		warnings = append(warnings,
			fmt.Sprintf("target multiple %.2f below bound, clamped to %.2f", target, bounds.Min))
		target = bounds.Min
	} else if target > bounds.Max {
		warnings = append(warnings,
			fmt.Sprintf("target multiple %.2f above bound, clamped to %.2f", target, bounds.Max))
		target = bounds.Max
	}

	return target, warnings
}

// valueRange uses the peer low/high band when present, else fixed offsets
func (c *RelativeCalculator) valueRange(in RelativeInput, fairValue float64, apply func(float64) float64) (low, high float64, bandUsed bool) {
	if in.Peers.Low > 0 && in.Peers.High > 0 {
		return apply(in.Peers.Low), apply(in.Peers.High), true
	}
	return fairValue * relativeFallbackLow, fairValue * relativeFallbackHigh, false
}

func (c *RelativeCalculator) finish(method contracts.ValuationMethod, in RelativeInput, fairValue, low, high, target float64, bandUsed bool, warnings []string) contracts.MethodResult {
	confidence := relativeConfidenceWithBand
	quality := contracts.QualityHigh
	if !bandUsed || in.PeersAreDefault {
		confidence = relativeConfidenceDefault
		quality = contracts.QualityMedium
	}
	confidence -= 5 * float64(len(warnings))
	if confidence < 20 {
		confidence = 20
	}

	c.logger.WithFields(map[string]interface{}{
		"method":     method,
		"target":     target,
		"fair_value": fairValue,
	}).Debug("Calculated relative valuation")

	return contracts.MethodResult{
		Method:       method,
		FairValue:    fairValue,
		Confidence:   confidence,
		Quality:      quality,
		LowEstimate:  low,
		HighEstimate: high,
		Assumptions: map[string]float64{
			"target_multiple": target,
			"peer_median":     in.Peers.Median,
		},
		CalculationDetails: map[string]float64{
			"metric": in.Metric,
		},
		Warnings: warnings,
	}
}
