package methods

import (
	"fmt"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

const (
	defaultCapRate = 0.07
	capRateSaneMax = 0.15
	capRateFloor   = 0.04
	capRateCeiling = 0.12

	liquidationCostRate = 0.05
)

// Recovery rates per asset class, orderly vs forced sale
var (
	orderlyRecovery = recoveryRates{
		Cash:        1.00,
		Marketable:  0.95,
		Receivables: 0.80,
		Inventory:   0.60,
		PPE:         0.50,
		Other:       0.30,
	}
	forcedRecovery = recoveryRates{
		Cash:        1.00,
		Marketable:  0.95,
		Receivables: 0.60,
		Inventory:   0.40,
		PPE:         0.30,
		Other:       0.15,
	}
)

type recoveryRates struct {
	Cash        float64
	Marketable  float64
	Receivables float64
	Inventory   float64
	PPE         float64
	Other       float64
}

// BookValueInput values common equity straight off the balance sheet
type BookValueInput struct {
	TotalAssets      float64
	TotalLiabilities float64
	PreferredEquity  float64
	Shares           float64
}

// NAVInput capitalizes net operating income into a property value
type NAVInput struct {
	NetOperatingIncome float64
	CapRate            float64 // default 7%, clamped into [4%, 12%] when out of range
	OtherAssets        float64 // cash and non-operating assets
	TotalDebt          float64
	Shares             float64
}

// LiquidationInput applies recovery haircuts per asset class
type LiquidationInput struct {
	Cash                 float64
	MarketableSecurities float64
	Receivables          float64
	Inventory            float64
	NetPPE               float64
	TotalAssets          float64
	TotalLiabilities     float64
	Shares               float64
}

// AssetCalculator values companies from their balance sheet
type AssetCalculator struct {
	logger *logger.Logger
}

// NewAssetCalculator creates a new asset-based calculator
func NewAssetCalculator(log *logger.Logger) *AssetCalculator {
	return &AssetCalculator{logger: log}
}

// BookValue returns common equity per share
func (c *AssetCalculator) BookValue(in BookValueInput) contracts.MethodResult {
	if in.Shares <= 0 {
		return contracts.InsufficientResult(contracts.MethodBookValue, "shares outstanding unavailable")
	}
	if in.TotalAssets <= 0 {
		return contracts.InsufficientResult(contracts.MethodBookValue, "total assets unavailable")
	}

	warnings := make([]string, 0)

	equity := in.TotalAssets - in.TotalLiabilities - in.PreferredEquity

	confidence := 60.0
	quality := contracts.QualityMedium
	fairValue := equity / in.Shares
	if equity < 0 {
		warnings = append(warnings, "common equity is negative, value floored at zero")
		fairValue = 0
		confidence = 20
		quality = contracts.QualityLow
	}

	return contracts.MethodResult{
		Method:       contracts.MethodBookValue,
		FairValue:    fairValue,
		Confidence:   confidence,
		Quality:      quality,
		LowEstimate:  fairValue * 0.90,
		HighEstimate: fairValue * 1.10,
		Assumptions:  map[string]float64{},
		CalculationDetails: map[string]float64{
			"common_equity": equity,
		},
		Warnings: warnings,
	}
}

// NAV capitalizes NOI at the cap rate, adds non-operating assets, and
// subtracts debt. The REIT workhorse.
func (c *AssetCalculator) NAV(in NAVInput) contracts.MethodResult {
	if in.Shares <= 0 {
		return contracts.InsufficientResult(contracts.MethodNAV, "shares outstanding unavailable")
	}
	if in.NetOperatingIncome <= 0 {
		return contracts.InsufficientResult(contracts.MethodNAV, "net operating income is not positive")
	}

	warnings := make([]string, 0)

	capRate := in.CapRate
	if capRate == 0 {
		capRate = defaultCapRate
	}
	if capRate < 0 || capRate > capRateSaneMax {
		clamped := capRate
		if clamped < capRateFloor {
			clamped = capRateFloor
		} else if clamped > capRateCeiling {
			clamped = capRateCeiling
		}
		warnings = append(warnings,
			fmt.Sprintf("cap rate %.2f%% out of range, clamped to %.2f%%", capRate*100, clamped*100))
		capRate = clamped
	}

	propertyValue := in.NetOperatingIncome / capRate
	nav := propertyValue + in.OtherAssets - in.TotalDebt

	fairValue := nav / in.Shares
	confidence := 65.0
	quality := contracts.QualityMedium
	if nav < 0 {
		warnings = append(warnings, "debt exceeds property value, NAV floored at zero")
		fairValue = 0
		confidence = 20
		quality = contracts.QualityLow
	}

	return contracts.MethodResult{
		Method:       contracts.MethodNAV,
		FairValue:    fairValue,
		Confidence:   confidence,
		Quality:      quality,
		LowEstimate:  fairValue * 0.85,
		HighEstimate: fairValue * 1.15,
		Assumptions: map[string]float64{
			"cap_rate": capRate,
		},
		CalculationDetails: map[string]float64{
			"property_value": propertyValue,
			"nav":            nav,
		},
		Warnings: warnings,
	}
}

// Liquidation estimates what an orderly wind-down would return to equity.
// The point estimate uses orderly recovery rates; the low estimate uses
// forced-sale rates. A 5% liquidation cost comes off gross proceeds.
func (c *AssetCalculator) Liquidation(in LiquidationInput) contracts.MethodResult {
	if in.Shares <= 0 {
		return contracts.InsufficientResult(contracts.MethodLiquidation, "shares outstanding unavailable")
	}
	if in.TotalAssets <= 0 {
		return contracts.InsufficientResult(contracts.MethodLiquidation, "total assets unavailable")
	}

	warnings := make([]string, 0)

	// Anything not in a named class recovers at the weakest rate
	otherAssets := in.TotalAssets - in.Cash - in.MarketableSecurities - in.Receivables - in.Inventory - in.NetPPE
	if otherAssets < 0 {
		otherAssets = 0
	}

	orderly := c.recover(in, otherAssets, orderlyRecovery)
	forced := c.recover(in, otherAssets, forcedRecovery)

	fairValue := orderly / in.Shares
	lowEstimate := forced / in.Shares
	confidence := 55.0
	quality := contracts.QualityMedium
	if orderly <= 0 {
		warnings = append(warnings, "liabilities exceed recoverable assets, liquidation value floored at zero")
		fairValue = 0
		confidence = 20
		quality = contracts.QualityLow
	}
	if lowEstimate < 0 {
		lowEstimate = 0
	}

	return contracts.MethodResult{
		Method:       contracts.MethodLiquidation,
		FairValue:    fairValue,
		Confidence:   confidence,
		Quality:      quality,
		LowEstimate:  lowEstimate,
		HighEstimate: fairValue * 1.10,
		Assumptions: map[string]float64{
			"liquidation_cost_rate": liquidationCostRate,
		},
		CalculationDetails: map[string]float64{
			"orderly_net": orderly,
			"forced_net":  forced,
		},
		Warnings: warnings,
	}
}

// recover applies one recovery schedule and nets out liabilities plus the
// liquidation cost haircut on gross proceeds
func (c *AssetCalculator) recover(in LiquidationInput, otherAssets float64, rates recoveryRates) float64 {
	gross := in.Cash*rates.Cash +
		in.MarketableSecurities*rates.Marketable +
		in.Receivables*rates.Receivables +
		in.Inventory*rates.Inventory +
		in.NetPPE*rates.PPE +
		otherAssets*rates.Other

	return gross - in.TotalLiabilities - gross*liquidationCostRate
}
