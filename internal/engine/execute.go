package engine

import (
	"fmt"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/internal/methods"
	"github.com/wonny/fairvalue/backend/internal/rates"
)

// Projection schedule bounds when deriving explicit growth from the snapshot
const (
	scheduleGrowthFloor   = -0.10
	scheduleGrowthCeiling = 0.30
	scheduleTerminalFade  = 0.04
	scheduleYears         = 5
)

// Adjustment factor bounds for relative multiples
const (
	adjustmentFloor   = 0.80
	adjustmentCeiling = 1.20
)

// runMethod dispatches one selected method with its inputs derived from the
// snapshot. A panic inside a calculator is recovered and converted to an
// insufficient result so one bad method never takes down the request.
func (e *Engine) runMethod(method contracts.ValuationMethod, s contracts.CompanySnapshot, dr rates.DiscountRates, pm contracts.PeerMultiples) (result contracts.MethodResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(map[string]interface{}{
				"ticker": s.Ticker,
				"method": method,
				"panic":  fmt.Sprint(r),
			}).Error("Valuation method panicked")
			result = contracts.InsufficientResult(method,
				fmt.Sprintf("calculation failed: %v", r))
		}
	}()

	switch method {
	case contracts.MethodDCFFCFF:
		return e.dcf.FCFF(methods.DCFInput{
			BaseCashFlow: s.FreeCashFlow,
			GrowthRates:  e.growthSchedule(s),
			DiscountRate: dr.WACC,
			NetDebt:      s.NetDebt(),
			Shares:       s.SharesOutstanding,
		})
	case contracts.MethodDCFFCFE:
		return e.dcf.FCFE(methods.DCFInput{
			BaseCashFlow: s.FreeCashFlow,
			GrowthRates:  e.growthSchedule(s),
			DiscountRate: dr.CostOfEquity,
			Shares:       s.SharesOutstanding,
		})

	case contracts.MethodDDMGordon:
		return e.ddm.Gordon(methods.GordonInput{
			Dividend:     s.DividendPerShare,
			GrowthRate:   dividendGrowth(s),
			CostOfEquity: dr.CostOfEquity,
		})
	case contracts.MethodDDMTwoStage:
		return e.ddm.TwoStage(methods.TwoStageInput{
			Dividend:     s.DividendPerShare,
			HighGrowth:   dividendGrowth(s),
			CostOfEquity: dr.CostOfEquity,
		})
	case contracts.MethodDDMHModel:
		return e.ddm.HModel(methods.HModelInput{
			Dividend:      s.DividendPerShare,
			InitialGrowth: dividendGrowth(s),
			CostOfEquity:  dr.CostOfEquity,
		})

	case contracts.MethodPE:
		return e.relative.PE(methods.RelativeInput{
			Metric:           s.EPS,
			Peers:            pm.PE,
			AdjustmentFactor: growthAdjustment(s.EarningsGrowth, 0.10),
			PeersAreDefault:  pm.IsDefault,
		})
	case contracts.MethodPB:
		return e.relative.PB(methods.RelativeInput{
			Metric:           s.BookValuePerShare,
			Peers:            pm.PB,
			AdjustmentFactor: growthAdjustment(s.ROE, 0.12),
			PeersAreDefault:  pm.IsDefault,
		})
	case contracts.MethodPS:
		return e.relative.PS(methods.RelativeInput{
			Metric:           s.Revenue / s.SharesOutstanding,
			Peers:            pm.PS,
			AdjustmentFactor: growthAdjustment(s.ProfitMargin, 0.08),
			PeersAreDefault:  pm.IsDefault,
		})
	case contracts.MethodEVEBITDA:
		return e.relative.EVEBITDA(methods.RelativeInput{
			Metric:          s.EBITDA,
			Peers:           pm.EVEBITDA,
			PeersAreDefault: pm.IsDefault,
			NetDebt:         s.NetDebt(),
			Shares:          s.SharesOutstanding,
		})
	case contracts.MethodEVRevenue:
		return e.relative.EVRevenue(methods.RelativeInput{
			Metric:          s.Revenue,
			Peers:           pm.EVRevenue,
			PeersAreDefault: pm.IsDefault,
			NetDebt:         s.NetDebt(),
			Shares:          s.SharesOutstanding,
		})

	case contracts.MethodBookValue:
		return e.asset.BookValue(methods.BookValueInput{
			TotalAssets:      s.TotalAssets,
			TotalLiabilities: s.TotalLiabilities,
			PreferredEquity:  s.PreferredEquity,
			Shares:           s.SharesOutstanding,
		})
	case contracts.MethodNAV:
		noi := s.NetOperatingIncome
		if !contracts.Usable(noi) {
			noi = s.EBITDA
		}
		return e.asset.NAV(methods.NAVInput{
			NetOperatingIncome: noi,
			CapRate:            s.CapRate,
			OtherAssets:        s.Cash + s.MarketableSecurities,
			TotalDebt:          s.TotalDebt,
			Shares:             s.SharesOutstanding,
		})
	case contracts.MethodLiquidation:
		return e.asset.Liquidation(methods.LiquidationInput{
			Cash:                 s.Cash,
			MarketableSecurities: s.MarketableSecurities,
			Receivables:          s.Receivables,
			Inventory:            s.Inventory,
			NetPPE:               s.NetPPE,
			TotalAssets:          s.TotalAssets,
			TotalLiabilities:     s.TotalLiabilities,
			Shares:               s.SharesOutstanding,
		})

	case contracts.MethodRuleOf40:
		return e.growth.RuleOf40(methods.RuleOf40Input{
			Revenue:       s.Revenue,
			RevenueGrowth: s.RevenueGrowth,
			ProfitMargin:  s.ProfitMargin,
			PeerEVRevenue: pm.EVRevenue,
			NetDebt:       s.NetDebt(),
			Shares:        s.SharesOutstanding,
		})
	case contracts.MethodEVARR:
		arr := s.ARR
		proxy := false
		if !contracts.Usable(arr) {
			arr = s.Revenue
			proxy = true
		}
		return e.growth.EVARR(methods.EVARRInput{
			ARR:                 arr,
			ARRIsProxy:          proxy,
			RevenueGrowth:       s.RevenueGrowth,
			NetRevenueRetention: s.NetRevenueRetention,
			GrossMargin:         s.GrossMargin,
			NetDebt:             s.NetDebt(),
			Shares:              s.SharesOutstanding,
		})
	}

	return contracts.InsufficientResult(method, "unknown valuation method")
}

// growthSchedule derives an explicit DCF projection from observed revenue
// growth, fading linearly to the terminal-neighborhood rate over the
// horizon. Returns nil when the snapshot has no usable growth, which lets
// the calculator fall back to its auto schedule.
func (e *Engine) growthSchedule(s contracts.CompanySnapshot) []float64 {
	if !contracts.Usable(s.RevenueGrowth) {
		return nil
	}

	start := s.RevenueGrowth
	if start < scheduleGrowthFloor {
		start = scheduleGrowthFloor
	} else if start > scheduleGrowthCeiling {
		start = scheduleGrowthCeiling
	}

	schedule := make([]float64, scheduleYears)
	for i := range schedule {
		fraction := float64(i) / float64(scheduleYears-1)
		schedule[i] = start + (scheduleTerminalFade-start)*fraction
	}
	return schedule
}

// dividendGrowth prefers observed dividend growth, then earnings growth,
// then lets the calculator default
func dividendGrowth(s contracts.CompanySnapshot) float64 {
	if contracts.Usable(s.DividendGrowth) {
		return s.DividendGrowth
	}
	if contracts.Usable(s.EarningsGrowth) {
		return s.EarningsGrowth
	}
	return 0
}

// growthAdjustment scales a peer multiple by how far a fundamental sits
// from its sector-neutral baseline, clamped to [0.8, 1.2]. Unusable inputs
// leave the multiple untouched.
func growthAdjustment(value, baseline float64) float64 {
	if !contracts.Usable(value) {
		return 1.0
	}
	adj := 1.0 + (value-baseline)*0.5
	if adj < adjustmentFloor {
		return adjustmentFloor
	}
	if adj > adjustmentCeiling {
		return adjustmentCeiling
	}
	return adj
}
