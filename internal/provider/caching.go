package provider

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"tickerscope/pkg/model"
)

// CachingProvider wraps a Provider with a short-lived in-memory cache so that
// repeated refreshes (watch mode, compare + deep dive of the same ticker) do
// not hit the upstream twice. Only raw provider responses are cached.
type CachingProvider struct {
	inner Provider
	cache *gocache.Cache
}

// NewCachingProvider creates a caching wrapper with the given TTL
func NewCachingProvider(inner Provider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (p *CachingProvider) Name() string      { return p.inner.Name() }
func (p *CachingProvider) IsAvailable() bool { return p.inner.IsAvailable() }

func (p *CachingProvider) GetQuote(ctx context.Context, symbol string) (model.QuoteFields, error) {
	return cached(p.cache, "quote:"+symbol, func() (model.QuoteFields, error) {
		return p.inner.GetQuote(ctx, symbol)
	})
}

func (p *CachingProvider) GetNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	return cached(p.cache, fmt.Sprintf("news:%s:%d", symbol, limit), func() ([]model.NewsItem, error) {
		return p.inner.GetNews(ctx, symbol, limit)
	})
}

func (p *CachingProvider) GetHistory(ctx context.Context, symbol string, window model.Window) ([]model.PricePoint, error) {
	return cached(p.cache, fmt.Sprintf("history:%s:%s", symbol, window), func() ([]model.PricePoint, error) {
		return p.inner.GetHistory(ctx, symbol, window)
	})
}

// Flush drops every cached response
func (p *CachingProvider) Flush() {
	p.cache.Flush()
}

func cached[T any](c *gocache.Cache, key string, fetch func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v.(T), nil
	}
	v, err := fetch()
	if err != nil {
		return v, err
	}
	c.Set(key, v, gocache.DefaultExpiration)
	return v, nil
}
