package marketdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/config"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

const (
	// Fallback when the rate source is unreachable or implausible
	fallbackRiskFreeRate = 0.045

	// Long-run equity risk premium, static reference
	equityRiskPremium = 0.055

	// Plausibility gate on fetched rates, exclusive bounds
	rateSaneMin = 0.01
	rateSaneMax = 0.15
)

// Sector premiums added on top of CAPM, matched as lowercase substrings
// in listed order, first match wins.
var sectorPremiums = []struct {
	sector  string
	premium float64
}{
	{"utilities", -0.010},
	{"consumer defensive", -0.005},
	{"technology", 0.010},
	{"healthcare", 0.005},
	{"energy", 0.005},
	{"basic materials", 0.005},
}

// rateFetcher fetches the current risk-free rate from an external source
type rateFetcher interface {
	FetchRiskFreeRate(ctx context.Context) (float64, error)
}

type cachedRate struct {
	rate      float64
	source    string
	fetchedAt time.Time
}

// Provider serves market-level inputs with a time-windowed risk-free-rate
// cache. The cache is last-writer-wins: concurrent refreshes may race and
// any of them may overwrite with an equally fresh value.
type Provider struct {
	fetcher rateFetcher
	ttl     time.Duration
	logger  *logger.Logger

	mu    sync.RWMutex
	cache *cachedRate
}

// NewProvider builds the standard provider backed by the treasury fetcher
func NewProvider(cfg *config.Config, log *logger.Logger) *Provider {
	return &Provider{
		fetcher: NewTreasuryFetcher(cfg, log),
		ttl:     cfg.MarketData.RateCacheTTL,
		logger:  log,
	}
}

// NewProviderWithFetcher injects a fetcher, used by tests and the scheduler
func NewProviderWithFetcher(f rateFetcher, ttl time.Duration, log *logger.Logger) *Provider {
	return &Provider{fetcher: f, ttl: ttl, logger: log}
}

// GetMarketInputs returns the current market rates for a sector. The
// risk-free rate comes from the cache when fresh, otherwise one fetch is
// attempted and the fallback constant covers failure.
func (p *Provider) GetMarketInputs(ctx context.Context, sector string) contracts.MarketInputs {
	rate, source, quality := p.riskFreeRate(ctx)

	return contracts.MarketInputs{
		RiskFreeRate:        rate,
		EquityRiskPremium:   equityRiskPremium,
		ImpliedMarketReturn: rate + equityRiskPremium,
		SectorPremium:       sectorPremium(sector),
		Source:              source,
		Quality:             quality,
	}
}

// Refresh forces a fetch regardless of cache freshness. The scheduler calls
// this so interactive requests rarely pay the fetch latency.
func (p *Provider) Refresh(ctx context.Context) error {
	rate, err := p.fetcher.FetchRiskFreeRate(ctx)
	if err != nil {
		return err
	}
	if rate <= rateSaneMin || rate >= rateSaneMax {
		p.logger.Warnf("Fetched risk-free rate %.4f outside plausible range, ignoring", rate)
		return nil
	}

	p.mu.Lock()
	p.cache = &cachedRate{rate: rate, source: "treasury", fetchedAt: time.Now()}
	p.mu.Unlock()
	return nil
}

func (p *Provider) riskFreeRate(ctx context.Context) (float64, string, contracts.DataQuality) {
	p.mu.RLock()
	cached := p.cache
	p.mu.RUnlock()

	if cached != nil && time.Since(cached.fetchedAt) < p.ttl {
		return cached.rate, cached.source, contracts.QualityHigh
	}

	if p.fetcher != nil {
		if err := p.Refresh(ctx); err != nil {
			p.logger.WithError(err).Warn("Risk-free rate fetch failed, using fallback")
		} else {
			p.mu.RLock()
			cached = p.cache
			p.mu.RUnlock()
			if cached != nil && time.Since(cached.fetchedAt) < p.ttl {
				return cached.rate, cached.source, contracts.QualityHigh
			}
		}
	}

	// A stale cache entry still beats the constant
	if cached != nil {
		return cached.rate, cached.source + "_stale", contracts.QualityMedium
	}
	return fallbackRiskFreeRate, "fallback", contracts.QualityLow
}

func sectorPremium(sector string) float64 {
	s := strings.ToLower(sector)
	for _, entry := range sectorPremiums {
		if strings.Contains(s, entry.sector) {
			return entry.premium
		}
	}
	return 0
}
