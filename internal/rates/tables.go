package rates

// sizePremiumTier is one row of the market-cap size premium lookup.
// Tiers are ordered by descending market-cap floor and scanned top down;
// the first tier whose floor the market cap meets wins.
type sizePremiumTier struct {
	MinMarketCap float64
	Premium      float64
}

// Nine tiers. Companies below the smallest floor (or with unknown market cap)
// take the max small-cap premium of 5%.
var sizePremiumTiers = []sizePremiumTier{
	{200e9, 0.0},
	{100e9, 0.0025},
	{50e9, 0.005},
	{10e9, 0.01},
	{2e9, 0.015},
	{1e9, 0.02},
	{500e6, 0.03},
	{250e6, 0.04},
	{0, 0.05},
}

// smallCapPremium applies to unknown or sub-floor market caps
const smallCapPremium = 0.05

// sizePremium returns the premium for a market cap by descending scan
func sizePremium(marketCap float64) float64 {
	if marketCap <= 0 {
		return smallCapPremium
	}
	for _, tier := range sizePremiumTiers {
		if marketCap >= tier.MinMarketCap {
			return tier.Premium
		}
	}
	return smallCapPremium
}

// ratingTier is one row of the synthetic credit rating lookup keyed by
// interest coverage. Ordered by descending minimum coverage; first tier whose
// minimum the company meets wins.
type ratingTier struct {
	MinCoverage float64
	Rating      string
	Spread      float64
}

// Fifteen tiers, AAA down to D
var ratingTiers = []ratingTier{
	{12.5, "AAA", 0.0069},
	{9.5, "AA", 0.0085},
	{7.5, "A+", 0.0107},
	{6.0, "A", 0.0118},
	{5.5, "A-", 0.0133},
	{4.5, "BBB", 0.0171},
	{4.0, "BB+", 0.0221},
	{3.5, "BB", 0.0277},
	{3.0, "B+", 0.0305},
	{2.5, "B", 0.0419},
	{2.0, "B-", 0.0544},
	{1.5, "CCC", 0.0897},
	{1.25, "CC", 0.0999},
	{0.8, "C", 0.1312},
	{-1e18, "D", 0.1774},
}

// syntheticRating maps interest coverage to a rating and credit spread
func syntheticRating(coverage float64) (string, float64) {
	for _, tier := range ratingTiers {
		if coverage >= tier.MinCoverage {
			return tier.Rating, tier.Spread
		}
	}
	// Coverage below every floor: deepest distress tier
	last := ratingTiers[len(ratingTiers)-1]
	return last.Rating, last.Spread
}
