package contracts

import "context"

// MarketInputs carries the market-level rates every valuation request needs
type MarketInputs struct {
	RiskFreeRate        float64     `json:"risk_free_rate"`
	EquityRiskPremium   float64     `json:"equity_risk_premium"`
	ImpliedMarketReturn float64     `json:"implied_market_return"`
	SectorPremium       float64     `json:"sector_premium"`
	Source              string      `json:"source"` // provenance tag
	Quality             DataQuality `json:"quality"`
}

// MultipleBand is a peer multiple with its observed range
type MultipleBand struct {
	Median float64 `json:"median" yaml:"median"`
	Low    float64 `json:"low" yaml:"low"`
	High   float64 `json:"high" yaml:"high"`
}

// Valid reports whether the band carries a usable median
func (b MultipleBand) Valid() bool {
	return b.Median > 0
}

// PeerMultiples holds sector-level comparable multiples
type PeerMultiples struct {
	Sector    string       `json:"sector" yaml:"sector"`
	PE        MultipleBand `json:"pe" yaml:"pe"`
	PB        MultipleBand `json:"pb" yaml:"pb"`
	PS        MultipleBand `json:"ps" yaml:"ps"`
	EVEBITDA  MultipleBand `json:"ev_ebitda" yaml:"ev_ebitda"`
	EVRevenue MultipleBand `json:"ev_revenue" yaml:"ev_revenue"`
	IsDefault bool         `json:"is_default" yaml:"-"`
}

// MarketInputsProvider supplies market-level rates. Implementations may fetch
// and cache externally; the engine only sees the resulting inputs.
type MarketInputsProvider interface {
	GetMarketInputs(ctx context.Context, sector string) MarketInputs
}

// PeerMultiplesProvider supplies sector-keyed comparable multiples with a
// default table when the sector is unknown.
type PeerMultiplesProvider interface {
	GetPeerMultiples(sector string) PeerMultiples
}
