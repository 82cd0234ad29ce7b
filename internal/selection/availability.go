package selection

import "github.com/wonny/fairvalue/backend/internal/contracts"

// Data availability field keys. These name the snapshot fields method
// eligibility is checked against.
const (
	FieldPrice             = "current_price"
	FieldShares            = "shares_outstanding"
	FieldMarketCap         = "market_cap"
	FieldEPS               = "eps"
	FieldBookValuePerShare = "book_value_per_share"
	FieldDividend          = "dividend_per_share"
	FieldRevenue           = "revenue"
	FieldEBITDA            = "ebitda"
	FieldEBIT              = "ebit"
	FieldNetIncome         = "net_income"
	FieldFreeCashFlow      = "free_cash_flow"
	FieldTotalAssets       = "total_assets"
	FieldTotalLiabilities  = "total_liabilities"
	FieldTotalDebt         = "total_debt"
	FieldCash              = "cash"
	FieldBeta              = "beta"
	FieldRevenueGrowth     = "revenue_growth"
	FieldProfitMargin      = "profit_margin"
	FieldInterestExpense   = "interest_expense"
	FieldDividendYield     = "dividend_yield"
	FieldPayoutRatio       = "payout_ratio"
)

// requiredFields lists, per method, the snapshot fields that must be usable
// for the method to run. Discount-rate fields (beta, market cap, interest
// expense) are excluded: rates are always computed with defaults.
// Peer-multiple fields are excluded too: peer data always falls back to the
// default table, so "no peer data" never disqualifies a relative method.
var requiredFields = map[contracts.ValuationMethod][]string{
	contracts.MethodDCFFCFF: {FieldFreeCashFlow, FieldShares},
	contracts.MethodDCFFCFE: {FieldFreeCashFlow, FieldShares},

	contracts.MethodDDMGordon:   {FieldDividend},
	contracts.MethodDDMTwoStage: {FieldDividend},
	contracts.MethodDDMHModel:   {FieldDividend},

	contracts.MethodPE:        {FieldEPS},
	contracts.MethodPB:        {FieldBookValuePerShare},
	contracts.MethodPS:        {FieldRevenue, FieldShares},
	contracts.MethodEVEBITDA:  {FieldEBITDA, FieldShares},
	contracts.MethodEVRevenue: {FieldRevenue, FieldShares},

	contracts.MethodBookValue:   {FieldTotalAssets, FieldTotalLiabilities, FieldShares},
	contracts.MethodNAV:         {FieldEBITDA, FieldShares},
	contracts.MethodLiquidation: {FieldTotalAssets, FieldTotalLiabilities, FieldShares},

	contracts.MethodRuleOf40: {FieldRevenue, FieldRevenueGrowth, FieldShares},
	contracts.MethodEVARR:    {FieldRevenue, FieldRevenueGrowth, FieldShares},
}

// RequiredFields returns the availability fields a method depends on
func RequiredFields(m contracts.ValuationMethod) []string {
	return requiredFields[m]
}

// AssessDataAvailability derives field availability from the snapshot.
// A field is available when it carries a real value: non-null, non-zero,
// non-NaN. This is a pure derivation with no side effects.
func AssessDataAvailability(s contracts.CompanySnapshot) map[string]bool {
	return map[string]bool{
		FieldPrice:             contracts.Usable(s.CurrentPrice),
		FieldShares:            contracts.Usable(s.SharesOutstanding),
		FieldMarketCap:         contracts.Usable(s.MarketCap),
		FieldEPS:               contracts.Usable(s.EPS),
		FieldBookValuePerShare: contracts.Usable(s.BookValuePerShare),
		FieldDividend:          contracts.Usable(s.DividendPerShare),
		FieldRevenue:           contracts.Usable(s.Revenue),
		FieldEBITDA:            contracts.Usable(s.EBITDA),
		FieldEBIT:              contracts.Usable(s.EBIT),
		FieldNetIncome:         contracts.Usable(s.NetIncome),
		FieldFreeCashFlow:      contracts.Usable(s.FreeCashFlow),
		FieldTotalAssets:       contracts.Usable(s.TotalAssets),
		FieldTotalLiabilities:  contracts.Usable(s.TotalLiabilities),
		FieldTotalDebt:         contracts.Usable(s.TotalDebt),
		FieldCash:              contracts.Usable(s.Cash),
		FieldBeta:              contracts.Usable(s.Beta),
		FieldRevenueGrowth:     contracts.Usable(s.RevenueGrowth),
		FieldProfitMargin:      contracts.Usable(s.ProfitMargin),
		FieldInterestExpense:   contracts.Usable(s.InterestExpense),
		FieldDividendYield:     contracts.Usable(s.DividendYield),
		FieldPayoutRatio:       contracts.Usable(s.PayoutRatio),
	}
}

// MissingFields lists unavailable fields in a fixed order for reporting
func MissingFields(availability map[string]bool) []string {
	ordered := []string{
		FieldPrice, FieldShares, FieldMarketCap,
		FieldEPS, FieldBookValuePerShare, FieldDividend,
		FieldRevenue, FieldEBITDA, FieldEBIT, FieldNetIncome, FieldFreeCashFlow,
		FieldTotalAssets, FieldTotalLiabilities, FieldTotalDebt, FieldCash,
		FieldBeta, FieldRevenueGrowth, FieldProfitMargin, FieldInterestExpense,
		FieldDividendYield, FieldPayoutRatio,
	}

	missing := make([]string, 0)
	for _, field := range ordered {
		if !availability[field] {
			missing = append(missing, field)
		}
	}
	return missing
}
