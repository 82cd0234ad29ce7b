package engine

import (
	"context"
	"time"

	"github.com/wonny/fairvalue/backend/internal/classifier"
	"github.com/wonny/fairvalue/backend/internal/contracts"
	"github.com/wonny/fairvalue/backend/internal/methods"
	"github.com/wonny/fairvalue/backend/internal/rates"
	"github.com/wonny/fairvalue/backend/internal/selection"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// Engine sequences one valuation request end to end: classification, data
// availability, discount rates, method selection, independent method
// execution, and composite aggregation. It is stateless across requests;
// the only shared state lives behind the market inputs provider.
type Engine struct {
	classifier *classifier.Classifier
	rates      *rates.Calculator
	selector   *selection.Selector

	dcf      *methods.DCFCalculator
	ddm      *methods.DDMCalculator
	relative *methods.RelativeCalculator
	asset    *methods.AssetCalculator
	growth   *methods.GrowthCalculator

	market contracts.MarketInputsProvider
	peers  contracts.PeerMultiplesProvider

	logger *logger.Logger
}

// New wires a valuation engine from its providers
func New(log *logger.Logger, market contracts.MarketInputsProvider, peers contracts.PeerMultiplesProvider) *Engine {
	return &Engine{
		classifier: classifier.NewClassifier(log),
		rates:      rates.NewCalculator(log),
		selector:   selection.NewSelector(log),
		dcf:        methods.NewDCFCalculator(log),
		ddm:        methods.NewDDMCalculator(log),
		relative:   methods.NewRelativeCalculator(log),
		asset:      methods.NewAssetCalculator(log),
		growth:     methods.NewGrowthCalculator(log),
		market:     market,
		peers:      peers,
		logger:     log,
	}
}

// Value runs the full valuation pipeline for one company snapshot. It always
// returns a result: failures degrade confidence and populate the warning and
// missing-data lists instead of propagating errors.
func (e *Engine) Value(ctx context.Context, s contracts.CompanySnapshot) *contracts.ValuationResult {
	log := e.logger.WithField("ticker", s.Ticker)

	market := e.market.GetMarketInputs(ctx, s.Sector)

	result := &contracts.ValuationResult{
		Ticker:            s.Ticker,
		ValuationDate:     time.Now().UTC(),
		CurrentPrice:      s.CurrentPrice,
		SharesOutstanding: s.SharesOutstanding,
		MarketInputs:      market,
		MethodResults:     []contracts.MethodResult{},
		MissingData:       []string{},
		DataWarnings:      []string{},
		DataSources: map[string]string{
			"fundamentals":  "snapshot",
			"market_inputs": market.Source,
		},
	}

	// Nothing can be expressed per share without a share count
	if !contracts.Usable(s.SharesOutstanding) {
		log.Warn("Shares outstanding unavailable, aborting valuation")
		result.Status = contracts.StatusInsufficientData
		result.OverallQuality = contracts.QualityInsufficient
		result.OverallConfidence = 20
		result.MissingData = selection.MissingFields(selection.AssessDataAvailability(s))
		result.DataWarnings = append(result.DataWarnings, "shares outstanding unavailable")
		return result
	}

	result.Classification = e.classifier.Classify(s)

	availability := selection.AssessDataAvailability(s)
	result.MissingData = selection.MissingFields(availability)

	discountRates := e.rates.Calculate(s, market)
	result.WACC = discountRates.WACC
	result.CostOfEquity = discountRates.CostOfEquity

	peerMultiples := e.peers.GetPeerMultiples(s.Sector)
	if peerMultiples.IsDefault {
		result.DataSources["peer_multiples"] = "default_table"
	} else {
		result.DataSources["peer_multiples"] = "sector_table"
	}

	selected := e.selector.Select(result.Classification.Type, availability)
	if len(selected) == 0 {
		log.Warn("No valuation method executable for snapshot")
		result.Status = contracts.StatusInsufficientData
		result.OverallQuality = contracts.QualityInsufficient
		result.OverallConfidence = 20
		result.DataWarnings = append(result.DataWarnings, "no valuation method had sufficient data")
		return result
	}

	// Each method runs independently: a failed or panicking method becomes
	// a data warning and drops out without aborting the pipeline.
	for _, mw := range selected {
		mr := e.runMethod(mw.Method, s, discountRates, peerMultiples)
		mr.Weight = mw.Weight
		if !mr.Executable() {
			for _, w := range mr.Warnings {
				result.DataWarnings = append(result.DataWarnings,
					string(mw.Method)+": "+w)
			}
		}
		result.MethodResults = append(result.MethodResults, mr)
	}

	e.aggregate(result)

	log.WithFields(map[string]interface{}{
		"company_type": result.Classification.Type,
		"fair_value":   result.FairValue,
		"status":       result.Status,
		"confidence":   result.OverallConfidence,
	}).Info("Valuation complete")

	return result
}
