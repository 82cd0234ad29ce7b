package engine

import (
	"fmt"
	"math"

	"github.com/wonny/fairvalue/backend/internal/contracts"
)

const (
	// Methods below this confidence are excluded from the composite
	compositeConfidenceGate = 30.0

	// Outlier dampening kicks in when a method's fair value exceeds this
	// multiple of the current price
	outlierPriceMultiple = 5.0
	outlierPenaltyCap    = 0.8

	// Fallback band around the composite when no method reported a range
	fallbackBandLow  = 0.85
	fallbackBandHigh = 1.20

	confidenceFloor   = 20.0
	confidenceCeiling = 95.0
)

// aggregate folds the executed method results into the composite fair
// value, verdict, and overall confidence. It mutates only the result.
func (e *Engine) aggregate(r *contracts.ValuationResult) {
	type contribution struct {
		result    contracts.MethodResult
		effective float64
	}

	contributing := make([]contribution, 0, len(r.MethodResults))
	for _, mr := range r.MethodResults {
		if !mr.Executable() || mr.Confidence <= compositeConfidenceGate {
			continue
		}

		effective := mr.Weight * (mr.Confidence / 100)

		// Dampen estimates wildly above the market price: they are more
		// often a data artifact than a genuine 5x mispricing
		if contracts.Usable(r.CurrentPrice) {
			multiple := mr.FairValue / r.CurrentPrice
			if multiple > outlierPriceMultiple {
				penalty := math.Min(outlierPenaltyCap, (multiple-outlierPriceMultiple)/10)
				effective *= 1 - penalty
				r.DataWarnings = append(r.DataWarnings, fmt.Sprintf(
					"%s: fair value %.1fx current price, weight dampened by %.0f%%",
					mr.Method, multiple, penalty*100))
			}
		}

		contributing = append(contributing, contribution{mr, effective})
	}

	if len(contributing) == 0 {
		r.Status = contracts.StatusInsufficientData
		r.OverallQuality = contracts.QualityInsufficient
		r.OverallConfidence = confidenceFloor
		r.DataWarnings = append(r.DataWarnings, "no method result passed the confidence gate")
		return
	}

	// Weighted composite fair value by effective weight
	totalEffective := 0.0
	weightedSum := 0.0
	for _, c := range contributing {
		totalEffective += c.effective
		weightedSum += c.effective * c.result.FairValue
	}
	r.FairValue = weightedSum / totalEffective

	// Band: arithmetic mean of the contributing estimates' ranges, or a
	// fixed spread around the composite when none carries one
	lowSum, highSum, bandCount := 0.0, 0.0, 0
	for _, c := range contributing {
		if c.result.LowEstimate > 0 && c.result.HighEstimate > 0 {
			lowSum += c.result.LowEstimate
			highSum += c.result.HighEstimate
			bandCount++
		}
	}
	if bandCount > 0 {
		r.FairValueLow = lowSum / float64(bandCount)
		r.FairValueHigh = highSum / float64(bandCount)
	} else {
		r.FairValueLow = r.FairValue * fallbackBandLow
		r.FairValueHigh = r.FairValue * fallbackBandHigh
	}

	// Primary method maximizes weight x confidence before dampening
	best := contributing[0].result
	bestScore := best.Weight * best.Confidence
	for _, c := range contributing[1:] {
		if score := c.result.Weight * c.result.Confidence; score > bestScore {
			best = c.result
			bestScore = score
		}
	}
	r.PrimaryMethod = best.Method

	e.determineStatus(r)

	results := make([]contracts.MethodResult, 0, len(contributing))
	for _, c := range contributing {
		results = append(results, c.result)
	}
	r.OverallConfidence = e.overallConfidence(r, results)
	r.OverallQuality = overallQuality(len(contributing), len(r.MissingData))
}

// determineStatus sets upside, verdict, and margin of safety from the
// composite fair value against the current price
func (e *Engine) determineStatus(r *contracts.ValuationResult) {
	if !contracts.Usable(r.CurrentPrice) {
		r.Status = contracts.StatusInsufficientData
		return
	}

	r.UpsidePotential = (r.FairValue - r.CurrentPrice) / r.CurrentPrice * 100

	switch {
	case r.UpsidePotential > 25:
		r.Status = contracts.StatusSignificantlyUndervalued
	case r.UpsidePotential > 10:
		r.Status = contracts.StatusUndervalued
	case r.UpsidePotential > -10:
		r.Status = contracts.StatusFairlyValued
	case r.UpsidePotential > -20:
		r.Status = contracts.StatusOvervalued
	default:
		r.Status = contracts.StatusSignificantlyOvervalued
	}

	if r.FairValue > r.CurrentPrice {
		r.MarginOfSafety = (r.FairValue - r.CurrentPrice) / r.FairValue * 100
	}
}

// overallConfidence averages the contributing method confidences, then
// applies the missing-data and method-count penalties and the agreement
// bonus, clamped to [20, 95].
func (e *Engine) overallConfidence(r *contracts.ValuationResult, contributing []contracts.MethodResult) float64 {
	sum := 0.0
	for _, mr := range contributing {
		sum += mr.Confidence
	}
	confidence := sum / float64(len(contributing))

	confidence -= math.Min(20, 3*float64(len(r.MissingData)))

	switch {
	case len(contributing) < 2:
		confidence -= 15
	case len(contributing) < 3:
		confidence -= 10
	}

	confidence += agreementBonus(contributing)

	if confidence < confidenceFloor {
		confidence = confidenceFloor
	} else if confidence > confidenceCeiling {
		confidence = confidenceCeiling
	}
	return confidence
}

// agreementBonus rewards tight clustering of the method fair values,
// measured by coefficient of variation
func agreementBonus(contributing []contracts.MethodResult) float64 {
	if len(contributing) < 2 {
		return 0
	}

	mean := 0.0
	for _, mr := range contributing {
		mean += mr.FairValue
	}
	mean /= float64(len(contributing))
	if mean <= 0 {
		return 0
	}

	variance := 0.0
	for _, mr := range contributing {
		d := mr.FairValue - mean
		variance += d * d
	}
	variance /= float64(len(contributing))

	cv := math.Sqrt(variance) / mean
	switch {
	case cv < 0.15:
		return 10
	case cv < 0.25:
		return 5
	default:
		return 0
	}
}

// overallQuality grades the result by how many methods contributed and how
// much of the snapshot was populated
func overallQuality(methodCount, missingCount int) contracts.DataQuality {
	switch {
	case methodCount >= 3 && missingCount <= 4:
		return contracts.QualityHigh
	case methodCount >= 2 && missingCount <= 8:
		return contracts.QualityMedium
	default:
		return contracts.QualityLow
	}
}
