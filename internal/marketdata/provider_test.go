package marketdata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

type fakeFetcher struct {
	mu    sync.Mutex
	rate  float64
	err   error
	calls int
}

func (f *fakeFetcher) FetchRiskFreeRate(_ context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.rate, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestProviderFetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{rate: 0.042}
	p := NewProviderWithFetcher(fetcher, time.Hour, logger.Nop())

	first := p.GetMarketInputs(context.Background(), "Technology")
	second := p.GetMarketInputs(context.Background(), "Technology")

	assert.Equal(t, 0.042, first.RiskFreeRate)
	assert.Equal(t, "treasury", first.Source)
	assert.Equal(t, contracts.QualityHigh, first.Quality)
	assert.Equal(t, first.RiskFreeRate, second.RiskFreeRate)
	// Second request must be served from cache
	assert.Equal(t, 1, fetcher.callCount())
}

func TestProviderFallbackOnFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	p := NewProviderWithFetcher(fetcher, time.Hour, logger.Nop())

	inputs := p.GetMarketInputs(context.Background(), "")

	assert.Equal(t, fallbackRiskFreeRate, inputs.RiskFreeRate)
	assert.Equal(t, "fallback", inputs.Source)
	assert.Equal(t, contracts.QualityLow, inputs.Quality)
}

func TestProviderRejectsImplausibleRate(t *testing.T) {
	fetcher := &fakeFetcher{rate: 0.45}
	p := NewProviderWithFetcher(fetcher, time.Hour, logger.Nop())

	inputs := p.GetMarketInputs(context.Background(), "")

	assert.Equal(t, fallbackRiskFreeRate, inputs.RiskFreeRate)
	assert.Equal(t, "fallback", inputs.Source)
}

func TestProviderDerivedFields(t *testing.T) {
	fetcher := &fakeFetcher{rate: 0.04}
	p := NewProviderWithFetcher(fetcher, time.Hour, logger.Nop())

	inputs := p.GetMarketInputs(context.Background(), "Utilities")

	assert.Equal(t, equityRiskPremium, inputs.EquityRiskPremium)
	assert.InDelta(t, 0.04+equityRiskPremium, inputs.ImpliedMarketReturn, 1e-12)
	assert.Equal(t, -0.010, inputs.SectorPremium)
}

func TestSectorPremiums(t *testing.T) {
	tests := []struct {
		sector  string
		premium float64
	}{
		{"Technology", 0.010},
		{"Consumer Defensive", -0.005},
		{"Utilities", -0.010},
		{"Unknown Sector", 0},
		{"", 0},
		// matches both utilities and energy entries; listed order wins
		{"Utilities - Renewable Energy", -0.010},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.premium, sectorPremium(tt.sector), tt.sector)
	}
}

func TestRefreshOverwritesCache(t *testing.T) {
	fetcher := &fakeFetcher{rate: 0.040}
	p := NewProviderWithFetcher(fetcher, time.Hour, logger.Nop())

	require.NoError(t, p.Refresh(context.Background()))
	fetcher.mu.Lock()
	fetcher.rate = 0.050
	fetcher.mu.Unlock()
	require.NoError(t, p.Refresh(context.Background()))

	inputs := p.GetMarketInputs(context.Background(), "")
	assert.Equal(t, 0.050, inputs.RiskFreeRate)
}

func TestConcurrentReadsSingleFetch(t *testing.T) {
	fetcher := &fakeFetcher{rate: 0.042}
	p := NewProviderWithFetcher(fetcher, time.Hour, logger.Nop())

	// Warm the cache, then hammer it concurrently
	p.GetMarketInputs(context.Background(), "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inputs := p.GetMarketInputs(context.Background(), "")
			assert.Equal(t, 0.042, inputs.RiskFreeRate)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fetcher.callCount())
}
