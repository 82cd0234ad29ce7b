package ratios

import (
	"math"

	"github.com/wonny/fairvalue/backend/internal/contracts"
)

// Package ratios is a standalone fundamentals toolbox used by screens and
// reports outside the valuation pipeline. Every function is pure and
// returns 0 when its inputs cannot support the ratio.

// CAGR returns the compound annual growth rate between two values over the
// given number of years
func CAGR(begin, end float64, years float64) float64 {
	if begin <= 0 || end <= 0 || years <= 0 {
		return 0
	}
	return math.Pow(end/begin, 1/years) - 1
}

// ROE returns net income over common equity
func ROE(netIncome, totalAssets, totalLiabilities float64) float64 {
	equity := totalAssets - totalLiabilities
	if equity <= 0 {
		return 0
	}
	return netIncome / equity
}

// ROA returns net income over total assets
func ROA(netIncome, totalAssets float64) float64 {
	if totalAssets <= 0 {
		return 0
	}
	return netIncome / totalAssets
}

// GrossMargin returns gross profit over revenue
func GrossMargin(grossProfit, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return grossProfit / revenue
}

// OperatingMargin returns EBIT over revenue
func OperatingMargin(ebit, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return ebit / revenue
}

// NetMargin returns net income over revenue
func NetMargin(netIncome, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return netIncome / revenue
}

// CurrentRatio returns current assets over current liabilities
func CurrentRatio(currentAssets, currentLiabilities float64) float64 {
	if currentLiabilities <= 0 {
		return 0
	}
	return currentAssets / currentLiabilities
}

// QuickRatio excludes inventory from current assets
func QuickRatio(currentAssets, inventory, currentLiabilities float64) float64 {
	if currentLiabilities <= 0 {
		return 0
	}
	return (currentAssets - inventory) / currentLiabilities
}

// DebtToEquity returns total debt over common equity
func DebtToEquity(totalDebt, totalAssets, totalLiabilities float64) float64 {
	equity := totalAssets - totalLiabilities
	if equity <= 0 {
		return 0
	}
	return totalDebt / equity
}

// InterestCoverage returns EBIT over interest expense
func InterestCoverage(ebit, interestExpense float64) float64 {
	if interestExpense <= 0 {
		return 0
	}
	return ebit / interestExpense
}

// AltmanZ computes the classic five-factor Z-Score:
//
//	Z = 1.2*A + 1.4*B + 3.3*C + 0.6*D + 1.0*E
//
// where A = working capital / total assets, B = retained earnings / total
// assets, C = EBIT / total assets, D = market cap / total liabilities, and
// E = revenue / total assets. When liabilities are zero or negative, D is
// fixed at 2.0 rather than left unbounded.
func AltmanZ(s contracts.CompanySnapshot) float64 {
	if s.TotalAssets <= 0 {
		return 0
	}

	workingCapital := s.WorkingCapital
	if !contracts.Usable(workingCapital) {
		workingCapital = s.CurrentAssets - s.CurrentLiabilities
	}

	a := workingCapital / s.TotalAssets
	b := s.RetainedEarnings / s.TotalAssets
	c := s.EBIT / s.TotalAssets

	d := 2.0
	if s.TotalLiabilities > 0 {
		d = s.MarketCap / s.TotalLiabilities
	}

	e := s.Revenue / s.TotalAssets

	return 1.2*a + 1.4*b + 3.3*c + 0.6*d + 1.0*e
}

// DistressZone classifies an Altman Z-Score into the standard bands
func DistressZone(z float64) string {
	switch {
	case z > 2.99:
		return "safe"
	case z > 1.81:
		return "grey"
	default:
		return "distress"
	}
}
