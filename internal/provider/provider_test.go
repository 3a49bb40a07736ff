package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerscope/pkg/model"
)

const quoteJSON = `{"quoteResponse":{"result":[{"symbol":"TSLA","regularMarketPrice":251.5,
"regularMarketPreviousClose":245.0,"marketCap":800000000000,"trailingPE":70.1,"longName":"Tesla, Inc."}],"error":null}}`

const searchJSON = `{"news":[
{"title":"Tesla soars on delivery beat","link":"https://example.com/a","publisher":"Reuters"},
{"content":{"title":"Nested title","canonicalUrl":{"url":"https://example.com/b"},"provider":{"displayName":"Yahoo"}}},
{"link":"https://example.com/c"}]}`

const chartJSON = `{"chart":{"result":[{"timestamp":[1704067200,1704153600,1704240000],
"indicators":{"quote":[{"open":[100,null,102],"high":[101,null,103],"low":[99,null,101],
"close":[100.5,null,102.5],"volume":[1000,null,3000]}]}}],"error":null}}`

const rssXML = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Yahoo! Finance: TSLA News</title>
<item><title>Tesla &amp; peers rally</title><link>https://example.com/r1</link></item>
<item><title>Second headline</title><link>https://example.com/r2</link></item>
</channel></rss>`

func newYahooServer(t *testing.T, status int) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/v7/finance/quote"):
			fmt.Fprint(w, quoteJSON)
		case strings.HasPrefix(r.URL.Path, "/v1/finance/search"):
			fmt.Fprint(w, searchJSON)
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			assert.Equal(t, "1mo", r.URL.Query().Get("range"))
			fmt.Fprint(w, chartJSON)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestYahoo(baseURL string) *YahooProvider {
	return NewYahooProvider(YahooOptions{BaseURL: baseURL, RateLimit: 6000, Timeout: 5 * time.Second})
}

func TestYahooGetQuote(t *testing.T) {
	srv, _ := newYahooServer(t, http.StatusOK)
	q, err := newTestYahoo(srv.URL).GetQuote(context.Background(), "TSLA")
	require.NoError(t, err)

	price, ok := q.Float("currentPrice", "regularMarketPrice")
	assert.True(t, ok)
	assert.Equal(t, 251.5, price)
	_, ok = q.Float("volume")
	assert.False(t, ok, "absent keys must stay absent")
	assert.Equal(t, "Tesla, Inc.", q.String("longName"))
}

func TestYahooGetNews(t *testing.T) {
	srv, _ := newYahooServer(t, http.StatusOK)
	items, err := newTestYahoo(srv.URL).GetNews(context.Background(), "TSLA", 10)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Tesla soars on delivery beat", items[0].Title)
	assert.Equal(t, "Nested title", items[1].Title)
	assert.Equal(t, "https://example.com/b", items[1].Link)
	assert.Equal(t, "Yahoo", items[1].Publisher)
	assert.Equal(t, "", items[2].Title)
	assert.Equal(t, DefaultPublisher, items[2].Publisher)
}

func TestYahooGetHistorySkipsNullBars(t *testing.T) {
	srv, _ := newYahooServer(t, http.StatusOK)
	points, err := newTestYahoo(srv.URL).GetHistory(context.Background(), "TSLA", model.Window1M)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, 100.5, points[0].Close)
	assert.Equal(t, 102.5, points[1].Close)
	assert.Equal(t, int64(3000), points[1].Volume)
	assert.True(t, points[0].Time.Before(points[1].Time))
}

func TestYahooErrors(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv, _ := newYahooServer(t, tt.status)
			_, err := newTestYahoo(srv.URL).GetQuote(context.Background(), "TSLA")
			require.Error(t, err)

			var pe *ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "yahoo", pe.Provider)
			assert.Equal(t, tt.retryable, pe.Retryable)
		})
	}
}

func TestRSSNewsProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TSLA", r.URL.Query().Get("s"))
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssXML)
	}))
	defer srv.Close()

	p := NewRSSNewsProvider(srv.URL, "test-agent", 5*time.Second)
	items, err := p.GetNews(context.Background(), "TSLA", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tesla & peers rally", items[0].Title)
	assert.Equal(t, "https://example.com/r1", items[0].Link)
	assert.Equal(t, "Yahoo! Finance: TSLA News", items[0].Publisher)

	_, err = p.GetQuote(context.Background(), "TSLA")
	assert.True(t, errors.Is(err, ErrNotSupported))
}

func TestNormalizeRawNews(t *testing.T) {
	items := NormalizeRawNews([]map[string]any{
		{"title": "  Top  ", "link": "l1", "publisher": "P"},
		{"title": "", "content": map[string]any{"title": "From content"}},
		{"content": "not a map"},
		nil,
		{"title": 42},
	})

	require.Len(t, items, 4)
	assert.Equal(t, model.NewsItem{Title: "Top", Link: "l1", Publisher: "P"}, items[0])
	assert.Equal(t, "From content", items[1].Title)
	assert.Equal(t, "", items[2].Title)
	assert.Equal(t, "", items[3].Title)
	assert.Equal(t, DefaultPublisher, items[3].Publisher)
}

func TestCachingProvider(t *testing.T) {
	srv, hits := newYahooServer(t, http.StatusOK)
	p := NewCachingProvider(newTestYahoo(srv.URL), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := p.GetQuote(ctx, "TSLA")
		require.NoError(t, err)
		_, err = p.GetHistory(ctx, "TSLA", model.Window1M)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))

	p.Flush()
	_, err := p.GetQuote(ctx, "TSLA")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestCachingProviderDoesNotCacheErrors(t *testing.T) {
	srv, hits := newYahooServer(t, http.StatusNotFound)
	p := NewCachingProvider(newTestYahoo(srv.URL), time.Minute)

	for i := 0; i < 2; i++ {
		_, err := p.GetQuote(context.Background(), "TSLA")
		assert.Error(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

// stubProvider is a scripted Provider for fallback tests
type stubProvider struct {
	name      string
	available bool
	quote     model.QuoteFields
	news      []model.NewsItem
	err       error
}

func (s *stubProvider) Name() string      { return s.name }
func (s *stubProvider) IsAvailable() bool { return s.available }

func (s *stubProvider) GetQuote(context.Context, string) (model.QuoteFields, error) {
	return s.quote, s.err
}

func (s *stubProvider) GetNews(context.Context, string, int) ([]model.NewsItem, error) {
	return s.news, s.err
}

func (s *stubProvider) GetHistory(context.Context, string, model.Window) ([]model.PricePoint, error) {
	return nil, s.err
}

func TestFallbackProvider(t *testing.T) {
	failing := &stubProvider{name: "down", available: true, err: errors.New("boom")}
	offline := &stubProvider{name: "offline", available: false, quote: model.QuoteFields{"currentPrice": 1.0}}
	good := &stubProvider{name: "good", available: true, quote: model.QuoteFields{"currentPrice": 2.0}}

	f := NewFallbackProvider(failing, offline, good)
	require.Len(t, f.Providers(), 2)
	assert.True(t, f.IsAvailable())

	q, err := f.GetQuote(context.Background(), "X")
	require.NoError(t, err)
	price, _ := q.Float("currentPrice")
	assert.Equal(t, 2.0, price)

	_, err = f.GetHistory(context.Background(), "X", model.Window1M)
	assert.Error(t, err)

	empty := NewFallbackProvider()
	assert.False(t, empty.IsAvailable())
	_, err = empty.GetNews(context.Background(), "X", 5)
	assert.Error(t, err)
}

func TestFallbackKeepsUpstreamCause(t *testing.T) {
	srv, _ := newYahooServer(t, http.StatusUnauthorized)
	rss := NewRSSNewsProvider(srv.URL, "test-agent", 5*time.Second)
	f := NewFallbackProvider(newTestYahoo(srv.URL), rss)

	_, err := f.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotSupported))
	assert.Contains(t, err.Error(), "status 401")

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "yahoo", pe.Provider)

	_, err = f.GetHistory(context.Background(), "AAPL", model.Window1M)
	assert.Contains(t, err.Error(), "yahoo: status 401")

	_, err = NewFallbackProvider(rss).GetQuote(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, ErrNotSupported), "only partial providers still report not supported")
}

func TestUnavailableError(t *testing.T) {
	inner := &ProviderError{Provider: "yahoo", Err: errors.New("status 503")}
	err := fmt.Errorf("refreshing: %w", Unavailable("TSLA", inner))

	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	var pe *ProviderError
	assert.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "TSLA")
}
