package marketdata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// Builtin sector multiple tables. Static reference data, not calibrated
// against a live peer universe.
var builtinPeerTables = []contracts.PeerMultiples{
	{
		Sector:    "technology",
		PE:        contracts.MultipleBand{Median: 25, Low: 15, High: 40},
		PB:        contracts.MultipleBand{Median: 6, Low: 3, High: 12},
		PS:        contracts.MultipleBand{Median: 5, Low: 2, High: 10},
		EVEBITDA:  contracts.MultipleBand{Median: 18, Low: 12, High: 28},
		EVRevenue: contracts.MultipleBand{Median: 6, Low: 3, High: 12},
	},
	{
		Sector:    "healthcare",
		PE:        contracts.MultipleBand{Median: 22, Low: 14, High: 35},
		PB:        contracts.MultipleBand{Median: 4, Low: 2, High: 8},
		PS:        contracts.MultipleBand{Median: 4, Low: 1.5, High: 8},
		EVEBITDA:  contracts.MultipleBand{Median: 15, Low: 10, High: 24},
		EVRevenue: contracts.MultipleBand{Median: 4.5, Low: 2, High: 9},
	},
	{
		Sector:    "financial",
		PE:        contracts.MultipleBand{Median: 12, Low: 8, High: 18},
		PB:        contracts.MultipleBand{Median: 1.3, Low: 0.7, High: 2.2},
		PS:        contracts.MultipleBand{Median: 3, Low: 1.5, High: 5},
		EVEBITDA:  contracts.MultipleBand{Median: 10, Low: 7, High: 14},
		EVRevenue: contracts.MultipleBand{Median: 3, Low: 1.5, High: 5},
	},
	{
		Sector:    "consumer cyclical",
		PE:        contracts.MultipleBand{Median: 18, Low: 10, High: 28},
		PB:        contracts.MultipleBand{Median: 3, Low: 1.5, High: 6},
		PS:        contracts.MultipleBand{Median: 1.5, Low: 0.7, High: 3},
		EVEBITDA:  contracts.MultipleBand{Median: 12, Low: 8, High: 18},
		EVRevenue: contracts.MultipleBand{Median: 1.8, Low: 0.9, High: 3.5},
	},
	{
		Sector:    "consumer defensive",
		PE:        contracts.MultipleBand{Median: 20, Low: 14, High: 28},
		PB:        contracts.MultipleBand{Median: 4, Low: 2, High: 7},
		PS:        contracts.MultipleBand{Median: 1.5, Low: 0.8, High: 2.8},
		EVEBITDA:  contracts.MultipleBand{Median: 13, Low: 9, High: 18},
		EVRevenue: contracts.MultipleBand{Median: 2, Low: 1, High: 3.5},
	},
	{
		Sector:    "industrial",
		PE:        contracts.MultipleBand{Median: 19, Low: 12, High: 28},
		PB:        contracts.MultipleBand{Median: 3, Low: 1.5, High: 5.5},
		PS:        contracts.MultipleBand{Median: 1.6, Low: 0.8, High: 3},
		EVEBITDA:  contracts.MultipleBand{Median: 12, Low: 8, High: 17},
		EVRevenue: contracts.MultipleBand{Median: 2, Low: 1, High: 3.5},
	},
	{
		Sector:    "energy",
		PE:        contracts.MultipleBand{Median: 11, Low: 6, High: 18},
		PB:        contracts.MultipleBand{Median: 1.6, Low: 0.8, High: 2.8},
		PS:        contracts.MultipleBand{Median: 1.2, Low: 0.5, High: 2.5},
		EVEBITDA:  contracts.MultipleBand{Median: 6.5, Low: 4, High: 10},
		EVRevenue: contracts.MultipleBand{Median: 1.4, Low: 0.7, High: 2.5},
	},
	{
		Sector:    "utilities",
		PE:        contracts.MultipleBand{Median: 17, Low: 12, High: 23},
		PB:        contracts.MultipleBand{Median: 1.8, Low: 1.2, High: 2.6},
		PS:        contracts.MultipleBand{Median: 2.3, Low: 1.4, High: 3.5},
		EVEBITDA:  contracts.MultipleBand{Median: 11, Low: 8, High: 14},
		EVRevenue: contracts.MultipleBand{Median: 3.5, Low: 2.2, High: 5},
	},
	{
		Sector:    "real estate",
		PE:        contracts.MultipleBand{Median: 30, Low: 18, High: 50},
		PB:        contracts.MultipleBand{Median: 1.8, Low: 1, High: 2.8},
		PS:        contracts.MultipleBand{Median: 6, Low: 3.5, High: 10},
		EVEBITDA:  contracts.MultipleBand{Median: 17, Low: 12, High: 24},
		EVRevenue: contracts.MultipleBand{Median: 8, Low: 5, High: 13},
	},
	{
		Sector:    "basic materials",
		PE:        contracts.MultipleBand{Median: 13, Low: 8, High: 20},
		PB:        contracts.MultipleBand{Median: 2, Low: 1, High: 3.5},
		PS:        contracts.MultipleBand{Median: 1.4, Low: 0.7, High: 2.5},
		EVEBITDA:  contracts.MultipleBand{Median: 7.5, Low: 5, High: 11},
		EVRevenue: contracts.MultipleBand{Median: 1.6, Low: 0.8, High: 2.8},
	},
	{
		Sector:    "communication",
		PE:        contracts.MultipleBand{Median: 16, Low: 10, High: 26},
		PB:        contracts.MultipleBand{Median: 2.5, Low: 1.2, High: 4.5},
		PS:        contracts.MultipleBand{Median: 2.5, Low: 1.2, High: 5},
		EVEBITDA:  contracts.MultipleBand{Median: 9, Low: 6, High: 14},
		EVRevenue: contracts.MultipleBand{Median: 2.8, Low: 1.4, High: 5},
	},
}

// defaultPeerTable covers unknown sectors with broad-market medians
var defaultPeerTable = contracts.PeerMultiples{
	Sector:    "default",
	PE:        contracts.MultipleBand{Median: 18, Low: 11, High: 28},
	PB:        contracts.MultipleBand{Median: 2.8, Low: 1.4, High: 5},
	PS:        contracts.MultipleBand{Median: 2.2, Low: 1, High: 4.5},
	EVEBITDA:  contracts.MultipleBand{Median: 12, Low: 8, High: 18},
	EVRevenue: contracts.MultipleBand{Median: 2.5, Low: 1.2, High: 4.5},
	IsDefault: true,
}

// PeerProvider serves sector-keyed comparable multiples from a builtin table
// with an optional YAML override file.
type PeerProvider struct {
	tables []contracts.PeerMultiples
	logger *logger.Logger
}

// NewPeerProvider builds a provider from the builtin table, overlaid with
// the YAML file at path when one is configured. File errors fall back to the
// builtin table rather than failing startup.
func NewPeerProvider(path string, log *logger.Logger) *PeerProvider {
	p := &PeerProvider{tables: builtinPeerTables, logger: log}

	if path == "" {
		return p
	}
	overrides, err := loadPeerOverrides(path)
	if err != nil {
		log.WithError(err).Warnf("Peer multiples override %s unusable, using builtin table", path)
		return p
	}
	p.tables = mergePeerTables(builtinPeerTables, overrides)
	log.Infof("Loaded %d peer multiple overrides from %s", len(overrides), path)
	return p
}

// GetPeerMultiples matches the sector by lowercase substring against the
// table keys and falls back to the broad-market default.
func (p *PeerProvider) GetPeerMultiples(sector string) contracts.PeerMultiples {
	s := strings.ToLower(sector)
	for _, table := range p.tables {
		if s != "" && strings.Contains(s, table.Sector) {
			return table
		}
	}
	return defaultPeerTable
}

func loadPeerOverrides(path string) ([]contracts.PeerMultiples, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read peer multiples file: %w", err)
	}

	var overrides []contracts.PeerMultiples
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse peer multiples yaml: %w", err)
	}
	for i := range overrides {
		overrides[i].Sector = strings.ToLower(overrides[i].Sector)
		if overrides[i].Sector == "" {
			return nil, fmt.Errorf("peer multiples entry %d has no sector", i)
		}
	}
	return overrides, nil
}

// mergePeerTables replaces builtin sectors named by the overrides and
// appends new ones, with overrides matched first.
func mergePeerTables(builtin, overrides []contracts.PeerMultiples) []contracts.PeerMultiples {
	merged := make([]contracts.PeerMultiples, 0, len(builtin)+len(overrides))
	merged = append(merged, overrides...)

	overridden := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		overridden[o.Sector] = true
	}
	for _, b := range builtin {
		if !overridden[b.Sector] {
			merged = append(merged, b)
		}
	}
	return merged
}
