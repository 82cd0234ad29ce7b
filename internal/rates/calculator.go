package rates

import (
	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// Beta handling bounds for CAPM
const (
	minBeta     = 0.5
	maxBeta     = 3.0
	defaultBeta = 1.0
)

// defaultCoverage stands in for interest coverage when EBIT or interest
// expense is unusable but the company carries debt (lands on BBB).
const defaultCoverage = 5.0

// defaultTaxRate applies when the snapshot has no usable effective tax rate
const defaultTaxRate = 0.21

// DiscountRates is the full cost-of-capital picture for one company
type DiscountRates struct {
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"`
	WACC         float64 `json:"wacc"`

	Beta         float64 `json:"beta"`
	SizePremium  float64 `json:"size_premium"`
	CreditRating string  `json:"credit_rating"`
	CreditSpread float64 `json:"credit_spread"`
	TaxRate      float64 `json:"tax_rate"`
	WeightEquity float64 `json:"weight_equity"`
	WeightDebt   float64 `json:"weight_debt"`
}

// Calculator derives cost of equity (CAPM), cost of debt (synthetic credit
// rating from interest coverage), and WACC.
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new discount rate calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log}
}

// Calculate derives all discount rates for a company
func (c *Calculator) Calculate(s contracts.CompanySnapshot, market contracts.MarketInputs) DiscountRates {
	beta := normalizeBeta(s.Beta)
	premium := sizePremium(s.MarketCap)

	costOfEquity := market.RiskFreeRate +
		beta*market.EquityRiskPremium +
		premium +
		market.SectorPremium

	rating, spread, costOfDebt := c.costOfDebt(s, market.RiskFreeRate)

	taxRate := s.EffectiveTax
	if taxRate <= 0 || taxRate >= 1 {
		taxRate = defaultTaxRate
	}

	weightEquity, weightDebt := capitalWeights(s.MarketCap, s.TotalDebt)

	wacc := weightEquity*costOfEquity + weightDebt*costOfDebt*(1-taxRate)

	result := DiscountRates{
		CostOfEquity: costOfEquity,
		CostOfDebt:   costOfDebt,
		WACC:         wacc,
		Beta:         beta,
		SizePremium:  premium,
		CreditRating: rating,
		CreditSpread: spread,
		TaxRate:      taxRate,
		WeightEquity: weightEquity,
		WeightDebt:   weightDebt,
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":         s.Ticker,
		"cost_of_equity": costOfEquity,
		"cost_of_debt":   costOfDebt,
		"wacc":           wacc,
		"rating":         rating,
	}).Debug("Calculated discount rates")

	return result
}

// costOfDebt derives the synthetic rating and pre-tax cost of debt.
// No debt: cost of debt is the risk-free rate, rating "N/A", zero spread.
func (c *Calculator) costOfDebt(s contracts.CompanySnapshot, riskFree float64) (string, float64, float64) {
	if s.TotalDebt <= 0 {
		return "N/A", 0, riskFree
	}

	coverage := defaultCoverage
	if contracts.Usable(s.EBIT) && s.InterestExpense > 0 {
		coverage = s.EBIT / s.InterestExpense
	}

	rating, spread := syntheticRating(coverage)
	return rating, spread, riskFree + spread
}

// normalizeBeta clamps positive betas to [0.5, 3.0] and defaults
// non-positive or missing betas to 1.0
func normalizeBeta(beta float64) float64 {
	if beta <= 0 {
		return defaultBeta
	}
	if beta < minBeta {
		return minBeta
	}
	if beta > maxBeta {
		return maxBeta
	}
	return beta
}

// capitalWeights splits the capital structure between equity and debt.
// When neither side is usable the company is treated as all-equity.
func capitalWeights(marketCap, totalDebt float64) (equity, debt float64) {
	if marketCap < 0 {
		marketCap = 0
	}
	if totalDebt < 0 {
		totalDebt = 0
	}

	total := marketCap + totalDebt
	if total <= 0 {
		return 1.0, 0.0
	}

	return marketCap / total, totalDebt / total
}
