package contracts

// CompanyType classifies a company for valuation method selection
type CompanyType string

const (
	TypeDividendPayer CompanyType = "DIVIDEND_PAYER"
	TypeHighGrowth    CompanyType = "HIGH_GROWTH"
	TypeMatureGrowth  CompanyType = "MATURE_GROWTH"
	TypeValue         CompanyType = "VALUE"
	TypeREIT          CompanyType = "REIT"
	TypeBank          CompanyType = "BANK"
	TypeInsurance     CompanyType = "INSURANCE"
	TypeUtility       CompanyType = "UTILITY"
	TypeDistressed    CompanyType = "DISTRESSED"
	TypeCyclical      CompanyType = "CYCLICAL"
	TypeCommodity     CompanyType = "COMMODITY"
)

// AllCompanyTypes lists every company type variant
var AllCompanyTypes = []CompanyType{
	TypeDividendPayer,
	TypeHighGrowth,
	TypeMatureGrowth,
	TypeValue,
	TypeREIT,
	TypeBank,
	TypeInsurance,
	TypeUtility,
	TypeDistressed,
	TypeCyclical,
	TypeCommodity,
}

// ValuationMethod identifies a single valuation calculator
type ValuationMethod string

const (
	// DCF family
	MethodDCFFCFF ValuationMethod = "DCF_FCFF"
	MethodDCFFCFE ValuationMethod = "DCF_FCFE"

	// Dividend discount family
	MethodDDMGordon   ValuationMethod = "DDM_GORDON"
	MethodDDMTwoStage ValuationMethod = "DDM_TWO_STAGE"
	MethodDDMHModel   ValuationMethod = "DDM_H_MODEL"

	// Relative multiples family
	MethodPE        ValuationMethod = "RELATIVE_PE"
	MethodPB        ValuationMethod = "RELATIVE_PB"
	MethodPS        ValuationMethod = "RELATIVE_PS"
	MethodEVEBITDA  ValuationMethod = "RELATIVE_EV_EBITDA"
	MethodEVRevenue ValuationMethod = "RELATIVE_EV_REVENUE"

	// Asset family
	MethodBookValue   ValuationMethod = "ASSET_BOOK_VALUE"
	MethodNAV         ValuationMethod = "ASSET_NAV"
	MethodLiquidation ValuationMethod = "ASSET_LIQUIDATION"

	// Growth-company family
	MethodRuleOf40 ValuationMethod = "GROWTH_RULE_OF_40"
	MethodEVARR    ValuationMethod = "GROWTH_EV_ARR"
)

// AllValuationMethods lists every valuation method variant
var AllValuationMethods = []ValuationMethod{
	MethodDCFFCFF, MethodDCFFCFE,
	MethodDDMGordon, MethodDDMTwoStage, MethodDDMHModel,
	MethodPE, MethodPB, MethodPS, MethodEVEBITDA, MethodEVRevenue,
	MethodBookValue, MethodNAV, MethodLiquidation,
	MethodRuleOf40, MethodEVARR,
}

// MethodFamily groups valuation methods
type MethodFamily string

const (
	FamilyDCF      MethodFamily = "dcf"
	FamilyDDM      MethodFamily = "ddm"
	FamilyRelative MethodFamily = "relative"
	FamilyAsset    MethodFamily = "asset"
	FamilyGrowth   MethodFamily = "growth"
)

// Family returns the family a method belongs to
func (m ValuationMethod) Family() MethodFamily {
	switch m {
	case MethodDCFFCFF, MethodDCFFCFE:
		return FamilyDCF
	case MethodDDMGordon, MethodDDMTwoStage, MethodDDMHModel:
		return FamilyDDM
	case MethodPE, MethodPB, MethodPS, MethodEVEBITDA, MethodEVRevenue:
		return FamilyRelative
	case MethodBookValue, MethodNAV, MethodLiquidation:
		return FamilyAsset
	case MethodRuleOf40, MethodEVARR:
		return FamilyGrowth
	}
	return ""
}

// DataQuality is an ordered quality grade assigned to method results
type DataQuality int

const (
	QualityInsufficient DataQuality = iota
	QualityLow
	QualityMedium
	QualityHigh
)

// String returns the external label for a data quality grade
func (q DataQuality) String() string {
	switch q {
	case QualityInsufficient:
		return "insufficient"
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	}
	return "unknown"
}

// ValuationStatus is the verdict on current price vs fair value
type ValuationStatus string

const (
	StatusSignificantlyUndervalued ValuationStatus = "significantly_undervalued"
	StatusUndervalued              ValuationStatus = "undervalued"
	StatusFairlyValued             ValuationStatus = "fairly_valued"
	StatusOvervalued               ValuationStatus = "overvalued"
	StatusSignificantlyOvervalued  ValuationStatus = "significantly_overvalued"
	StatusInsufficientData         ValuationStatus = "insufficient_data"
)
