// Package prices fetches daily closing price history from the Yahoo
// Finance chart API.
package prices

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"stock-news-advisor/internal/api"
	"stock-news-advisor/internal/logger"
	"stock-news-advisor/internal/store"
	"stock-news-advisor/internal/types"
)

// YahooProvider fetches daily bars from the Yahoo Finance v8 chart endpoint.
type YahooProvider struct {
	client  *api.Client
	limiter *rate.Limiter
	retry   *api.RetryConfig
	rng     string
}

// NewYahooProvider creates a provider using the given configuration.
func NewYahooProvider(cfg store.PricesConfig) *YahooProvider {
	opts := []api.ClientOption{
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(30 * time.Second),
		api.WithLogging(true),
	}
	for key, value := range api.YahooFinanceHeaders() {
		opts = append(opts, api.WithHeader(key, value))
	}

	return &YahooProvider{
		client:  api.NewClient(opts...),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		retry:   api.DefaultRetryConfig(),
		rng:     cfg.Range,
	}
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns daily closing bars for the given ticker, oldest first.
// Null bars (market holidays) are skipped. Adjusted closes are preferred
// when the API returns them. Transient endpoint failures are retried with
// backoff; Yahoo sheds load with intermittent 429/5xx responses.
func (p *YahooProvider) History(ctx context.Context, ticker string) ([]types.PriceBar, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/v8/finance/chart/%s?interval=1d&range=%s",
		url.PathEscape(ticker), p.rng)

	req := api.NewRequest(http.MethodGet, path).WithContext(ctx)
	resp, err := p.client.DoWithRetry(req, p.retry)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", ticker, err)
	}

	bars, err := parseChart(resp)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, err)
	}

	logger.Debug(ctx, "Fetched price history", "ticker", ticker, "bars", len(bars))
	return bars, nil
}

func parseChart(resp *api.Response) ([]types.PriceBar, error) {
	var chart yahooChart
	if err := resp.ParseJSON(&chart); err != nil {
		return nil, fmt.Errorf("%w (body: %s)", err, truncate(resp.String(), 200))
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data returned")
	}

	closes := result.Indicators.Quote[0].Close
	if len(result.Indicators.Adjclose) > 0 &&
		len(result.Indicators.Adjclose[0].Adjclose) == len(result.Timestamp) {
		closes = result.Indicators.Adjclose[0].Adjclose
	}

	bars := make([]types.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // null bars on holidays
		}
		bars = append(bars, types.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no usable bars")
	}
	return bars, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
