package classifier

import (
	"fmt"
	"strings"

	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// Classifier maps a company snapshot to a company type. Classification is
// total: every snapshot gets a type, a confidence, and at least one reason.
type Classifier struct {
	logger *logger.Logger
}

// NewClassifier creates a new company classifier
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{logger: log}
}

// Keyword sets for the sector/industry match. Matching is a case-insensitive
// substring check on sector + industry combined.
var (
	reitKeywords      = []string{"reit", "real estate investment trust"}
	bankKeywords      = []string{"bank", "banking", "credit services"}
	insuranceKeywords = []string{"insurance", "insurer", "reinsurance"}
	utilityKeywords   = []string{"utility", "utilities", "electric", "gas distribution", "water"}

	cyclicalKeywords  = []string{"construction", "auto", "automobile", "automotive", "steel", "homebuild", "airline", "semiconductor equipment"}
	commodityKeywords = []string{"oil", "gas", "mining", "metals", "agriculture", "chemicals", "coal", "drilling"}
	commoditySectors  = []string{"energy", "basic materials"}
)

// Distress threshold on the Altman Z proxy
const distressZCutoff = 1.81

// Classify assigns a company type with a confidence and ordered reasons.
// Decision order is fixed: first match wins, later checks never override.
func (c *Classifier) Classify(s contracts.CompanySnapshot) contracts.Classification {
	result := c.classify(s)

	c.logger.WithFields(map[string]interface{}{
		"ticker":     s.Ticker,
		"type":       result.Type,
		"confidence": result.Confidence,
	}).Debug("Classified company")

	return result
}

func (c *Classifier) classify(s contracts.CompanySnapshot) contracts.Classification {
	haystack := strings.ToLower(s.Sector + " " + s.Industry)

	// 1. Sector/industry keyword match (fixed confidence per type)
	if strings.EqualFold(s.QuoteType, "reit") || matchAny(haystack, reitKeywords) {
		return classified(contracts.TypeREIT, 0.95,
			fmt.Sprintf("sector/industry matches REIT keywords: %q", strings.TrimSpace(s.Sector+" "+s.Industry)))
	}
	if matchAny(haystack, bankKeywords) {
		return classified(contracts.TypeBank, 0.95,
			fmt.Sprintf("sector/industry matches bank keywords: %q", strings.TrimSpace(s.Sector+" "+s.Industry)))
	}
	if matchAny(haystack, insuranceKeywords) {
		return classified(contracts.TypeInsurance, 0.90,
			fmt.Sprintf("sector/industry matches insurance keywords: %q", strings.TrimSpace(s.Sector+" "+s.Industry)))
	}
	if matchAny(haystack, utilityKeywords) {
		return classified(contracts.TypeUtility, 0.90,
			fmt.Sprintf("sector/industry matches utility keywords: %q", strings.TrimSpace(s.Sector+" "+s.Industry)))
	}

	// 2. Distress check via Altman Z proxy (skipped when assets are unusable)
	if s.TotalAssets > 0 {
		z := ZScoreProxy(s)
		if z < distressZCutoff {
			return classified(contracts.TypeDistressed, 0.85,
				fmt.Sprintf("Altman Z-Score proxy %.2f below distress cutoff %.2f", z, distressZCutoff))
		}
	}

	// 3. Cyclical / commodity keyword match
	if matchAny(haystack, cyclicalKeywords) {
		return classified(contracts.TypeCyclical, 0.75,
			fmt.Sprintf("industry matches cyclical keywords: %q", strings.TrimSpace(s.Sector+" "+s.Industry)))
	}
	sector := strings.ToLower(strings.TrimSpace(s.Sector))
	if matchAny(haystack, commodityKeywords) || containsStr(commoditySectors, sector) {
		return classified(contracts.TypeCommodity, 0.75,
			fmt.Sprintf("sector/industry matches commodity keywords: %q", strings.TrimSpace(s.Sector+" "+s.Industry)))
	}

	// 4. Growth / dividend / value heuristics, first satisfied wins
	if s.RevenueGrowth > 0.20 {
		confidence := 0.80
		reason := fmt.Sprintf("revenue growth %.1f%% above 20%%", s.RevenueGrowth*100)
		if s.ProfitMargin < 0 {
			confidence = 0.85
			reason += ", unprofitable high-growth profile"
		}
		return classified(contracts.TypeHighGrowth, confidence, reason)
	}

	if s.DividendYield > 0.02 {
		if s.PayoutRatio >= 0.30 && s.PayoutRatio < 1.00 {
			return classified(contracts.TypeDividendPayer, 0.85,
				fmt.Sprintf("dividend yield %.2f%% with sustainable payout ratio %.0f%%", s.DividendYield*100, s.PayoutRatio*100))
		}
		if s.PayoutRatio > 0 {
			return classified(contracts.TypeDividendPayer, 0.70,
				fmt.Sprintf("dividend yield %.2f%% with payout ratio %.0f%% outside the sustainable band", s.DividendYield*100, s.PayoutRatio*100))
		}
	}

	if s.RevenueGrowth > 0.05 && s.RevenueGrowth <= 0.20 && s.ProfitMargin > 0.05 {
		return classified(contracts.TypeMatureGrowth, 0.75,
			fmt.Sprintf("revenue growth %.1f%% with profit margin %.1f%%", s.RevenueGrowth*100, s.ProfitMargin*100))
	}

	if s.TrailingPE > 0 && s.TrailingPE < 15 && s.PriceToBook > 0 && s.PriceToBook < 1.5 {
		return classified(contracts.TypeValue, 0.70,
			fmt.Sprintf("P/E %.1f and P/B %.2f in value territory", s.TrailingPE, s.PriceToBook))
	}

	if s.RevenueGrowth < 0.05 && s.TrailingPE > 0 && s.TrailingPE < 18 && s.ProfitMargin > 0 {
		return classified(contracts.TypeValue, 0.65,
			fmt.Sprintf("low growth %.1f%% with modest P/E %.1f and positive margin", s.RevenueGrowth*100, s.TrailingPE))
	}

	// 5. Default
	return classified(contracts.TypeMatureGrowth, 0.50,
		"no classification rule matched, defaulting to mature growth")
}

func classified(t contracts.CompanyType, confidence float64, reason string) contracts.Classification {
	return contracts.Classification{
		Type:       t,
		Confidence: confidence,
		Reasons:    []string{reason},
	}
}

func matchAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

func containsStr(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
