package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"tickerscope/internal/ratelimit"
	"tickerscope/pkg/model"
)

const defaultRSSBaseURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

// RSSNewsProvider serves headlines from the Yahoo Finance RSS feed. It only
// implements news; quotes and history return ErrNotSupported.
type RSSNewsProvider struct {
	baseURL string
	parser  *gofeed.Parser
	limiter *ratelimit.Limiter
}

// NewRSSNewsProvider creates an RSS news provider
func NewRSSNewsProvider(baseURL, userAgent string, timeout time.Duration) *RSSNewsProvider {
	if baseURL == "" {
		baseURL = defaultRSSBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &RSSNewsProvider{
		baseURL: baseURL,
		parser:  parser,
		limiter: ratelimit.NewLimiter("yahoo-rss", 60),
	}
}

// Name returns the provider name
func (p *RSSNewsProvider) Name() string {
	return "yahoo-rss"
}

// IsAvailable always returns true
func (p *RSSNewsProvider) IsAvailable() bool {
	return true
}

// GetNews parses the headline feed for symbol
func (p *RSSNewsProvider) GetNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s?s=%s&region=US&lang=en-US", p.baseURL, url.QueryEscape(symbol))
	feed, err := p.parser.ParseURLWithContext(u, ctx)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("parse RSS: %w", err), Retryable: true}
	}

	publisher := strings.TrimSpace(feed.Title)
	items := make([]model.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if limit > 0 && len(items) >= limit {
			break
		}
		item := model.NewsItem{
			Title:     cleanHTML(it.Title),
			Link:      strings.TrimSpace(it.Link),
			Publisher: publisher,
		}
		if it.Author != nil && strings.TrimSpace(it.Author.Name) != "" {
			item.Publisher = strings.TrimSpace(it.Author.Name)
		}
		if item.Publisher == "" {
			item.Publisher = DefaultPublisher
		}
		items = append(items, item)
	}
	return items, nil
}

// GetQuote is not supported by the RSS feed
func (p *RSSNewsProvider) GetQuote(_ context.Context, _ string) (model.QuoteFields, error) {
	return nil, &ProviderError{Provider: p.Name(), Err: ErrNotSupported}
}

// GetHistory is not supported by the RSS feed
func (p *RSSNewsProvider) GetHistory(_ context.Context, _ string, _ model.Window) ([]model.PricePoint, error) {
	return nil, &ProviderError{Provider: p.Name(), Err: ErrNotSupported}
}

// cleanHTML strips markup and entities from feed text
func cleanHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
