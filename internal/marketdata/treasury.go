package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/fairvalue/backend/pkg/config"
	"github.com/wonny/fairvalue/backend/pkg/httputil"
	"github.com/wonny/fairvalue/backend/pkg/logger"
)

// TreasuryFetcher pulls the 10-year treasury yield from the configured quote
// source. The source serves JSON when asked nicely and an HTML quote page
// otherwise, so both paths are handled.
type TreasuryFetcher struct {
	client *httputil.Client
	url    string
	logger *logger.Logger
}

// NewTreasuryFetcher creates a treasury yield fetcher from config
func NewTreasuryFetcher(cfg *config.Config, log *logger.Logger) *TreasuryFetcher {
	client := httputil.New(log, cfg.MarketData.FetchTimeout).
		WithRateLimit(cfg.MarketData.RequestsPerSecond)
	return &TreasuryFetcher{
		client: client,
		url:    cfg.MarketData.RateSourceURL,
		logger: log,
	}
}

type rateResponse struct {
	Rate float64 `json:"rate"`
}

// chartResponse is the shape the default quote endpoint serves: the yield
// sits at chart.result[0].meta.regularMarketPrice.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchRiskFreeRate returns the current yield as a decimal (0.045 = 4.5%)
func (f *TreasuryFetcher) FetchRiskFreeRate(ctx context.Context) (float64, error) {
	resp, err := f.client.GetWithHeaders(ctx, f.url, map[string]string{
		"Accept": "application/json, text/html",
	})
	if err != nil {
		return 0, fmt.Errorf("fetch treasury yield: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read treasury response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "json") || looksLikeJSON(body) {
		return f.parseJSON(body)
	}
	return f.parseHTML(body)
}

// parseJSON accepts the chart payload of the default endpoint or a flat
// {"rate": …} object from a custom source.
func (f *TreasuryFetcher) parseJSON(body []byte) (float64, error) {
	var c chartResponse
	if err := json.Unmarshal(body, &c); err != nil {
		return 0, fmt.Errorf("decode treasury json: %w", err)
	}
	if len(c.Chart.Result) > 0 && c.Chart.Result[0].Meta.RegularMarketPrice != 0 {
		return normalizeRate(c.Chart.Result[0].Meta.RegularMarketPrice), nil
	}

	var r rateResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return 0, fmt.Errorf("decode treasury json: %w", err)
	}
	if r.Rate == 0 {
		return 0, fmt.Errorf("treasury json carried no rate")
	}
	return normalizeRate(r.Rate), nil
}

// parseHTML scrapes the quote page for the yield figure. The page marks it
// with a data-field attribute on the regular market price element.
func (f *TreasuryFetcher) parseHTML(body []byte) (float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return 0, fmt.Errorf("parse treasury html: %w", err)
	}

	selectors := []string{
		`[data-field="regularMarketPrice"]`,
		".rate-value",
	}
	for _, sel := range selectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		text = strings.TrimSuffix(strings.ReplaceAll(text, ",", ""), "%")
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			continue
		}
		return normalizeRate(value), nil
	}

	return 0, fmt.Errorf("no yield figure found in treasury page")
}

func looksLikeJSON(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

// normalizeRate converts percent quotes (4.25) to decimals (0.0425).
// Anything already below 1 is assumed decimal.
func normalizeRate(v float64) float64 {
	if v >= 1 {
		return v / 100
	}
	return v
}
