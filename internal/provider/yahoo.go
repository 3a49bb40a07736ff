package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tickerscope/internal/ratelimit"
	"tickerscope/pkg/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooOptions configures a YahooProvider
type YahooOptions struct {
	BaseURL   string
	RateLimit int // requests per minute
	Timeout   time.Duration
	UserAgent string
	Proxy     string
}

// YahooProvider implements the Provider interface for Yahoo Finance (unofficial API)
type YahooProvider struct {
	client    *http.Client
	limiter   *ratelimit.Limiter
	baseURL   string
	userAgent string
}

// NewYahooProvider creates a new Yahoo Finance provider
func NewYahooProvider(opts YahooOptions) *YahooProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYahooBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 30 // Conservative rate limit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0"
	}

	transport := &http.Transport{}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}

	return &YahooProvider{
		client:    &http.Client{Timeout: opts.Timeout, Transport: transport},
		limiter:   ratelimit.NewLimiter("yahoo", opts.RateLimit),
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
	}
}

// Name returns the provider name
func (p *YahooProvider) Name() string {
	return "yahoo"
}

// IsAvailable always returns true (no API key needed)
func (p *YahooProvider) IsAvailable() bool {
	return true
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooQuoteResponse is the v7 quote response. Results are kept as raw maps so
// absent keys stay absent instead of turning into zeros.
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []map[string]any `json:"result"`
		Error  *yahooError      `json:"error"`
	} `json:"quoteResponse"`
}

type yahooSearchResponse struct {
	News []map[string]any `json:"news"`
}

// yahooChartResponse is the v8 chart response. Bars Yahoo has no data for come back as null.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

// GetQuote fetches the raw quote fields for a symbol
func (p *YahooProvider) GetQuote(ctx context.Context, symbol string) (model.QuoteFields, error) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", p.baseURL, url.QueryEscape(symbol))

	var data yahooQuoteResponse
	if err := p.getJSON(ctx, u, &data); err != nil {
		return nil, err
	}
	if data.QuoteResponse.Error != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s", data.QuoteResponse.Error.Description), Retryable: false}
	}
	if len(data.QuoteResponse.Result) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("no quote for %s", symbol), Retryable: false}
	}
	return model.QuoteFields(data.QuoteResponse.Result[0]), nil
}

// GetNews fetches recent headlines through the search endpoint
func (p *YahooProvider) GetNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=0&newsCount=%d",
		p.baseURL, url.QueryEscape(symbol), limit)

	var data yahooSearchResponse
	if err := p.getJSON(ctx, u, &data); err != nil {
		return nil, err
	}

	items := NormalizeRawNews(data.News)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// GetHistory fetches the price series for a lookback window
func (p *YahooProvider) GetHistory(ctx context.Context, symbol string, window model.Window) ([]model.PricePoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s&includePrePost=false",
		p.baseURL, url.PathEscape(symbol), window, window.Interval())

	var data yahooChartResponse
	if err := p.getJSON(ctx, u, &data); err != nil {
		return nil, err
	}

	if data.Chart.Error != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s", data.Chart.Error.Description), Retryable: false}
	}
	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Indicators.Quote) == 0 {
		return []model.PricePoint{}, nil
	}

	result := data.Chart.Result[0]
	quotes := result.Indicators.Quote[0]

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Skip bars with a missing close (holidays, halted sessions)
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue
		}
		points = append(points, model.PricePoint{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   valueAt(quotes.Open, i),
			High:   valueAt(quotes.High, i),
			Low:    valueAt(quotes.Low, i),
			Close:  *quotes.Close[i],
			Volume: valueAt(quotes.Volume, i),
		})
	}
	return points, nil
}

func (p *YahooProvider) getJSON(ctx context.Context, u string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return &ProviderError{Provider: p.Name(), Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		p.limiter.SignalRateLimited()
		return &ProviderError{Provider: p.Name(), Err: fmt.Errorf("rate limited"), Retryable: true}
	}
	if resp.StatusCode != http.StatusOK {
		return &ProviderError{Provider: p.Name(), Err: fmt.Errorf("status %d", resp.StatusCode), Retryable: resp.StatusCode >= 500}
	}

	p.limiter.ResetBackoff()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Provider: p.Name(), Err: fmt.Errorf("decoding response: %w", err), Retryable: false}
	}
	return nil
}

func valueAt[T float64 | int64](values []*T, i int) T {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	var zero T
	return zero
}
