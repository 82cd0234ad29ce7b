package contracts

import (
	"math"
	"time"
)

// Classification is the output of the company classifier
type Classification struct {
	Type       CompanyType `json:"type"`
	Confidence float64     `json:"confidence"` // 0.0 - 1.0
	Reasons    []string    `json:"reasons"`
}

// MethodResult is the output of a single valuation method. It is a value
// object: once a calculator returns it, nothing mutates it except the
// aggregation step assigning Weight.
type MethodResult struct {
	Method             ValuationMethod    `json:"method"`
	FairValue          float64            `json:"fair_value"`          // per share, >= 0
	Confidence         float64            `json:"confidence"`          // 0 - 100
	Quality            DataQuality        `json:"data_quality"`
	LowEstimate        float64            `json:"low_estimate"`
	HighEstimate       float64            `json:"high_estimate"`
	Assumptions        map[string]float64 `json:"assumptions"`
	CalculationDetails map[string]float64 `json:"calculation_details"`
	Warnings           []string           `json:"warnings"`
	Weight             float64            `json:"weight"`              // assigned by aggregation
}

// InsufficientResult builds the canonical "cannot value" result: zero fair
// value, zero confidence, one warning explaining why.
func InsufficientResult(method ValuationMethod, warning string) MethodResult {
	return MethodResult{
		Method:             method,
		Quality:            QualityInsufficient,
		Assumptions:        map[string]float64{},
		CalculationDetails: map[string]float64{},
		Warnings:           []string{warning},
	}
}

// Executable reports whether the result can contribute to the composite
func (r MethodResult) Executable() bool {
	return r.Quality > QualityInsufficient && r.FairValue > 0
}

// ValuationResult is the aggregate root produced once per valuation request.
// It is never mutated after return and never persisted by the engine itself.
type ValuationResult struct {
	Ticker        string    `json:"ticker"`
	ValuationDate time.Time `json:"valuation_date"`

	Classification Classification `json:"classification"`

	CurrentPrice      float64 `json:"current_price"`
	SharesOutstanding float64 `json:"shares_outstanding"`

	FairValue       float64         `json:"fair_value"`
	FairValueLow    float64         `json:"fair_value_low"`
	FairValueHigh   float64         `json:"fair_value_high"`
	UpsidePotential float64         `json:"upside_potential"` // percent
	Status          ValuationStatus `json:"valuation_status"`
	MarginOfSafety  float64         `json:"margin_of_safety"` // percent

	MethodResults []MethodResult  `json:"method_results"`
	PrimaryMethod ValuationMethod `json:"primary_method"`

	OverallQuality    DataQuality `json:"overall_data_quality"`
	MissingData       []string    `json:"missing_data"`
	DataWarnings      []string    `json:"data_warnings"`
	OverallConfidence float64     `json:"overall_confidence"` // 20 - 95

	WACC         float64      `json:"wacc"`
	CostOfEquity float64      `json:"cost_of_equity"`
	MarketInputs MarketInputs `json:"market_inputs"`

	DataSources map[string]string `json:"data_sources"`
}

// Round2 rounds monetary figures for external presentation
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds rates for external presentation
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// ToMap serializes the result to the nested map shape the API exposes,
// rounding monetary figures to 2 decimals and rates to 4.
func (r *ValuationResult) ToMap() map[string]interface{} {
	methods := make([]map[string]interface{}, 0, len(r.MethodResults))
	for _, m := range r.MethodResults {
		methods = append(methods, m.toMap())
	}

	missing := r.MissingData
	if missing == nil {
		missing = []string{}
	}
	warnings := r.DataWarnings
	if warnings == nil {
		warnings = []string{}
	}

	return map[string]interface{}{
		"ticker":         r.Ticker,
		"valuation_date": r.ValuationDate.Format(time.RFC3339),
		"company_type":   string(r.Classification.Type),
		"classification": map[string]interface{}{
			"type":       string(r.Classification.Type),
			"confidence": Round2(r.Classification.Confidence),
			"reasons":    r.Classification.Reasons,
		},
		"current_price":        Round2(r.CurrentPrice),
		"shares_outstanding":   r.SharesOutstanding,
		"fair_value":           Round2(r.FairValue),
		"fair_value_low":       Round2(r.FairValueLow),
		"fair_value_high":      Round2(r.FairValueHigh),
		"upside_potential":     Round2(r.UpsidePotential),
		"valuation_status":     string(r.Status),
		"margin_of_safety":     Round2(r.MarginOfSafety),
		"method_results":       methods,
		"primary_method":       string(r.PrimaryMethod),
		"overall_data_quality": r.OverallQuality.String(),
		"missing_data":         missing,
		"data_warnings":        warnings,
		"overall_confidence":   Round2(r.OverallConfidence),
		"wacc":                 Round4(r.WACC),
		"cost_of_equity":       Round4(r.CostOfEquity),
		"market_inputs": map[string]interface{}{
			"risk_free_rate":        Round4(r.MarketInputs.RiskFreeRate),
			"equity_risk_premium":   Round4(r.MarketInputs.EquityRiskPremium),
			"implied_market_return": Round4(r.MarketInputs.ImpliedMarketReturn),
			"sector_premium":        Round4(r.MarketInputs.SectorPremium),
			"source":                r.MarketInputs.Source,
			"quality":               r.MarketInputs.Quality.String(),
		},
		"data_sources": r.DataSources,
	}
}

func (m MethodResult) toMap() map[string]interface{} {
	assumptions := make(map[string]float64, len(m.Assumptions))
	for k, v := range m.Assumptions {
		assumptions[k] = Round4(v)
	}
	details := make(map[string]float64, len(m.CalculationDetails))
	for k, v := range m.CalculationDetails {
		details[k] = Round2(v)
	}
	warnings := m.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return map[string]interface{}{
		"method":              string(m.Method),
		"fair_value":          Round2(m.FairValue),
		"confidence":          Round2(m.Confidence),
		"data_quality":        m.Quality.String(),
		"low_estimate":        Round2(m.LowEstimate),
		"high_estimate":       Round2(m.HighEstimate),
		"assumptions":         assumptions,
		"calculation_details": details,
		"warnings":            warnings,
		"weight":              Round4(m.Weight),
	}
}
