package contracts

import (
	"math"
	"strconv"
)

// CompanySnapshot is the externally supplied fundamentals and market data for
// one company. It is read-only input: the engine never mutates it. A zero or
// NaN field means the value is unavailable, never that it is literally zero.
type CompanySnapshot struct {
	Ticker    string `json:"ticker"`
	Name      string `json:"name"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
	QuoteType string `json:"quote_type"`

	// Market data
	CurrentPrice      float64 `json:"current_price"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	MarketCap         float64 `json:"market_cap"`
	Beta              float64 `json:"beta"`

	// Per-share figures
	EPS               float64 `json:"eps"`
	BookValuePerShare float64 `json:"book_value_per_share"`
	DividendPerShare  float64 `json:"dividend_per_share"`

	// Income statement
	Revenue     float64 `json:"revenue"`
	EBITDA      float64 `json:"ebitda"`
	EBIT        float64 `json:"ebit"`
	NetIncome   float64 `json:"net_income"`
	GrossProfit float64 `json:"gross_profit"`

	// Cash flow
	FreeCashFlow       float64 `json:"free_cash_flow"`
	OperatingCashFlow  float64 `json:"operating_cash_flow"`
	NetOperatingIncome float64 `json:"net_operating_income"`

	// Balance sheet
	TotalAssets          float64 `json:"total_assets"`
	TotalLiabilities     float64 `json:"total_liabilities"`
	TotalDebt            float64 `json:"total_debt"`
	Cash                 float64 `json:"cash"`
	MarketableSecurities float64 `json:"marketable_securities"`
	Receivables          float64 `json:"receivables"`
	Inventory            float64 `json:"inventory"`
	NetPPE               float64 `json:"net_ppe"`
	CurrentAssets        float64 `json:"current_assets"`
	CurrentLiabilities   float64 `json:"current_liabilities"`
	WorkingCapital       float64 `json:"working_capital"`
	RetainedEarnings     float64 `json:"retained_earnings"`
	PreferredEquity      float64 `json:"preferred_equity"`
	InterestExpense      float64 `json:"interest_expense"`

	// Growth and profitability
	RevenueGrowth   float64 `json:"revenue_growth"`   // decimal, 0.20 = 20%
	EarningsGrowth  float64 `json:"earnings_growth"`  // decimal
	DividendGrowth  float64 `json:"dividend_growth"`  // decimal
	ProfitMargin    float64 `json:"profit_margin"`    // decimal
	GrossMargin     float64 `json:"gross_margin"`     // decimal
	OperatingMargin float64 `json:"operating_margin"` // decimal
	ROE             float64 `json:"roe"`              // decimal
	EffectiveTax    float64 `json:"effective_tax"`    // decimal

	// Dividend policy
	DividendYield float64 `json:"dividend_yield"` // decimal
	PayoutRatio   float64 `json:"payout_ratio"`   // decimal

	// Trailing multiples
	TrailingPE  float64 `json:"trailing_pe"`
	PriceToBook float64 `json:"price_to_book"`

	// SaaS metrics
	ARR                 float64 `json:"arr"`
	NetRevenueRetention float64 `json:"net_revenue_retention"`

	// REIT metrics
	CapRate float64 `json:"cap_rate"` // decimal
}

// SnapshotFromMap builds a typed snapshot from a flat field mapping, the shape
// upstream fundamentals providers deliver. Unknown keys are ignored; values
// that are missing, null, non-numeric, or NaN read as 0.
func SnapshotFromMap(fields map[string]interface{}) CompanySnapshot {
	s := CompanySnapshot{
		Ticker:    str(fields["ticker"]),
		Name:      str(fields["name"]),
		Sector:    str(fields["sector"]),
		Industry:  str(fields["industry"]),
		QuoteType: str(fields["quote_type"]),
	}

	s.CurrentPrice = Num(fields["current_price"])
	s.SharesOutstanding = Num(fields["shares_outstanding"])
	s.MarketCap = Num(fields["market_cap"])
	s.Beta = Num(fields["beta"])
	s.EPS = Num(fields["eps"])
	s.BookValuePerShare = Num(fields["book_value_per_share"])
	s.DividendPerShare = Num(fields["dividend_per_share"])
	s.Revenue = Num(fields["revenue"])
	s.EBITDA = Num(fields["ebitda"])
	s.EBIT = Num(fields["ebit"])
	s.NetIncome = Num(fields["net_income"])
	s.GrossProfit = Num(fields["gross_profit"])
	s.FreeCashFlow = Num(fields["free_cash_flow"])
	s.OperatingCashFlow = Num(fields["operating_cash_flow"])
	s.NetOperatingIncome = Num(fields["net_operating_income"])
	s.TotalAssets = Num(fields["total_assets"])
	s.TotalLiabilities = Num(fields["total_liabilities"])
	s.TotalDebt = Num(fields["total_debt"])
	s.Cash = Num(fields["cash"])
	s.MarketableSecurities = Num(fields["marketable_securities"])
	s.Receivables = Num(fields["receivables"])
	s.Inventory = Num(fields["inventory"])
	s.NetPPE = Num(fields["net_ppe"])
	s.CurrentAssets = Num(fields["current_assets"])
	s.CurrentLiabilities = Num(fields["current_liabilities"])
	s.WorkingCapital = Num(fields["working_capital"])
	s.RetainedEarnings = Num(fields["retained_earnings"])
	s.PreferredEquity = Num(fields["preferred_equity"])
	s.InterestExpense = Num(fields["interest_expense"])
	s.RevenueGrowth = Num(fields["revenue_growth"])
	s.EarningsGrowth = Num(fields["earnings_growth"])
	s.DividendGrowth = Num(fields["dividend_growth"])
	s.ProfitMargin = Num(fields["profit_margin"])
	s.GrossMargin = Num(fields["gross_margin"])
	s.OperatingMargin = Num(fields["operating_margin"])
	s.ROE = Num(fields["roe"])
	s.EffectiveTax = Num(fields["effective_tax"])
	s.DividendYield = Num(fields["dividend_yield"])
	s.PayoutRatio = Num(fields["payout_ratio"])
	s.TrailingPE = Num(fields["trailing_pe"])
	s.PriceToBook = Num(fields["price_to_book"])
	s.ARR = Num(fields["arr"])
	s.NetRevenueRetention = Num(fields["net_revenue_retention"])
	s.CapRate = Num(fields["cap_rate"])

	return s
}

// Num is the total safe-numeric-read conversion applied at the input
// boundary: nil, NaN, Inf, and non-numeric values all read as 0.0 so every
// internal formula works on guaranteed numeric types.
func Num(v interface{}) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Usable reports whether a numeric field carries a real value. Providers
// encode "unavailable" as zero or NaN, so zero never counts as usable.
func Usable(v float64) bool {
	return v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NetDebt returns total debt less cash and equivalents
func (s CompanySnapshot) NetDebt() float64 {
	return s.TotalDebt - s.Cash
}
