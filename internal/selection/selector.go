package selection

import (
	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// Selector picks the valuation methods for a company type that the available
// data can actually support, and renormalizes their weights.
type Selector struct {
	logger *logger.Logger
}

// NewSelector creates a new method selector
func NewSelector(log *logger.Logger) *Selector {
	return &Selector{logger: log}
}

// Select filters the company type's base weight table by data availability
// and renormalizes the surviving weights to sum to 1.0. An empty return
// means no method is executable. Dropped methods are diagnostic only: they
// are logged, never surfaced as errors.
func (s *Selector) Select(companyType contracts.CompanyType, availability map[string]bool) []MethodWeight {
	base := BaseWeights(companyType)

	selected := make([]MethodWeight, 0, len(base))
	dropped := make([]contracts.ValuationMethod, 0)
	totalWeight := 0.0

	for _, mw := range base {
		if canExecute(mw.Method, availability) {
			selected = append(selected, mw)
			totalWeight += mw.Weight
		} else {
			dropped = append(dropped, mw.Method)
		}
	}

	if len(dropped) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"company_type": companyType,
			"dropped":      dropped,
		}).Debug("Dropped methods with insufficient data")
	}

	if len(selected) == 0 || totalWeight <= 0 {
		return nil
	}

	// Renormalize surviving weights to sum to 1.0
	for i := range selected {
		selected[i].Weight /= totalWeight
	}

	return selected
}

// canExecute checks every required field of a method against availability
func canExecute(method contracts.ValuationMethod, availability map[string]bool) bool {
	for _, field := range requiredFields[method] {
		if !availability[field] {
			return false
		}
	}
	return true
}
