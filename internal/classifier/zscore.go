package classifier

import "github.com/wonny/fairvalue/backend/internal/contracts"

// ZScoreProxy computes an Altman Z-Score approximation from snapshot fields:
//
//	Z = 1.2*A + 1.4*B + 3.3*C + 0.6*D + 1.0*E
//
// A = working capital / total assets
// B = retained earnings / total assets
// C = EBIT / total assets
// D = market cap / total liabilities (2.0 when liabilities are unusable)
// E = revenue / total assets
//
// Callers must guard TotalAssets > 0.
func ZScoreProxy(s contracts.CompanySnapshot) float64 {
	assets := s.TotalAssets

	workingCapital := s.WorkingCapital
	if !contracts.Usable(workingCapital) {
		workingCapital = s.CurrentAssets - s.CurrentLiabilities
	}

	a := workingCapital / assets
	b := s.RetainedEarnings / assets
	c := s.EBIT / assets

	d := 2.0
	if s.TotalLiabilities > 0 {
		d = s.MarketCap / s.TotalLiabilities
	}

	e := s.Revenue / assets

	return 1.2*a + 1.4*b + 3.3*c + 0.6*d + 1.0*e
}
