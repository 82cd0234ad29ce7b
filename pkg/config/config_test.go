package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 60*time.Minute, cfg.MarketData.RateCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.MarketData.FetchTimeout)
	assert.False(t, cfg.HasDatabase())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user:pw@localhost:5432/fairvalue")
	t.Setenv("RATE_CACHE_TTL", "15m")
	t.Setenv("DB_MAX_CONNS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.True(t, cfg.HasDatabase())
	assert.Equal(t, 15*time.Minute, cfg.MarketData.RateCacheTTL)
	assert.Equal(t, 50, cfg.Database.MaxConns)
}

func TestLoad_InvalidEnv(t *testing.T) {
	os.Clearenv()
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV must be one of")
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	os.Clearenv()
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Database.MaxConns)
}
