package selection

import "github.com/wonny/fairvalue/backend/internal/contracts"

// MethodWeight pairs a valuation method with its weight. Order matters:
// tables list methods by decreasing relevance for the company type.
type MethodWeight struct {
	Method contracts.ValuationMethod `json:"method"`
	Weight float64                   `json:"weight"`
}

// baseWeights maps each company type to its base method weight table.
// Every table sums to exactly 1.0; the selector renormalizes after
// availability filtering.
var baseWeights = map[contracts.CompanyType][]MethodWeight{
	contracts.TypeDividendPayer: {
		{contracts.MethodDDMGordon, 0.30},
		{contracts.MethodDDMTwoStage, 0.20},
		{contracts.MethodPE, 0.20},
		{contracts.MethodDCFFCFF, 0.20},
		{contracts.MethodPB, 0.10},
	},
	contracts.TypeHighGrowth: {
		{contracts.MethodPS, 0.25},
		{contracts.MethodEVRevenue, 0.25},
		{contracts.MethodRuleOf40, 0.20},
		{contracts.MethodDCFFCFF, 0.20},
		{contracts.MethodEVARR, 0.10},
	},
	contracts.TypeMatureGrowth: {
		{contracts.MethodDCFFCFF, 0.30},
		{contracts.MethodPE, 0.25},
		{contracts.MethodEVEBITDA, 0.20},
		{contracts.MethodDCFFCFE, 0.15},
		{contracts.MethodPB, 0.10},
	},
	contracts.TypeValue: {
		{contracts.MethodPE, 0.25},
		{contracts.MethodPB, 0.25},
		{contracts.MethodDCFFCFF, 0.20},
		{contracts.MethodEVEBITDA, 0.15},
		{contracts.MethodBookValue, 0.15},
	},
	contracts.TypeREIT: {
		{contracts.MethodNAV, 0.40},
		{contracts.MethodDDMGordon, 0.25},
		{contracts.MethodPB, 0.20},
		{contracts.MethodDCFFCFE, 0.15},
	},
	contracts.TypeBank: {
		{contracts.MethodPB, 0.35},
		{contracts.MethodPE, 0.25},
		{contracts.MethodDDMGordon, 0.25},
		{contracts.MethodBookValue, 0.15},
	},
	contracts.TypeInsurance: {
		{contracts.MethodPB, 0.35},
		{contracts.MethodPE, 0.30},
		{contracts.MethodBookValue, 0.20},
		{contracts.MethodDDMGordon, 0.15},
	},
	contracts.TypeUtility: {
		{contracts.MethodDDMGordon, 0.25},
		{contracts.MethodDCFFCFF, 0.20},
		{contracts.MethodPE, 0.20},
		{contracts.MethodEVEBITDA, 0.20},
		{contracts.MethodDDMHModel, 0.15},
	},
	contracts.TypeDistressed: {
		{contracts.MethodLiquidation, 0.35},
		{contracts.MethodBookValue, 0.30},
		{contracts.MethodPB, 0.20},
		{contracts.MethodPS, 0.15},
	},
	contracts.TypeCyclical: {
		{contracts.MethodEVEBITDA, 0.30},
		{contracts.MethodPB, 0.25},
		{contracts.MethodPE, 0.25},
		{contracts.MethodDCFFCFF, 0.20},
	},
	contracts.TypeCommodity: {
		{contracts.MethodEVEBITDA, 0.30},
		{contracts.MethodPB, 0.25},
		{contracts.MethodDCFFCFF, 0.25},
		{contracts.MethodPS, 0.20},
	},
}

// BaseWeights returns a copy of the base weight table for a company type.
// Unknown types take the mature-growth table so the lookup is total.
func BaseWeights(t contracts.CompanyType) []MethodWeight {
	table, ok := baseWeights[t]
	if !ok {
		table = baseWeights[contracts.TypeMatureGrowth]
	}

	out := make([]MethodWeight, len(table))
	copy(out, table)
	return out
}
