package provider

import (
	"context"
	"errors"

	"tickerscope/pkg/model"
)

// Provider defines the interface for market-data providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// GetQuote fetches the raw quote fields for a symbol
	GetQuote(ctx context.Context, symbol string) (model.QuoteFields, error)

	// GetNews fetches up to limit recent headlines for a symbol
	GetNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error)

	// GetHistory fetches the chronological price series for a lookback window
	GetHistory(ctx context.Context, symbol string, window model.Window) ([]model.PricePoint, error)

	// IsAvailable checks if the provider can serve requests
	IsAvailable() bool
}

// ErrNotSupported is returned by providers that only serve part of the interface
var ErrNotSupported = errors.New("not supported")

// ProviderError represents a provider-specific error
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// FallbackProvider tries multiple providers in order
type FallbackProvider struct {
	providers []Provider
}

// NewFallbackProvider creates a new fallback provider over the available providers
func NewFallbackProvider(providers ...Provider) *FallbackProvider {
	available := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil && p.IsAvailable() {
			available = append(available, p)
		}
	}
	return &FallbackProvider{providers: available}
}

// Name returns the combined provider name
func (f *FallbackProvider) Name() string {
	return "fallback"
}

// GetQuote tries each provider in order until one succeeds
func (f *FallbackProvider) GetQuote(ctx context.Context, symbol string) (model.QuoteFields, error) {
	return firstOf(f.providers, func(p Provider) (model.QuoteFields, error) {
		return p.GetQuote(ctx, symbol)
	})
}

// GetNews tries each provider in order until one succeeds
func (f *FallbackProvider) GetNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	return firstOf(f.providers, func(p Provider) ([]model.NewsItem, error) {
		return p.GetNews(ctx, symbol, limit)
	})
}

// GetHistory tries each provider in order until one succeeds
func (f *FallbackProvider) GetHistory(ctx context.Context, symbol string, window model.Window) ([]model.PricePoint, error) {
	return firstOf(f.providers, func(p Provider) ([]model.PricePoint, error) {
		return p.GetHistory(ctx, symbol, window)
	})
}

// IsAvailable returns true if any provider is available
func (f *FallbackProvider) IsAvailable() bool {
	return len(f.providers) > 0
}

// Providers returns the list of underlying providers
func (f *FallbackProvider) Providers() []Provider {
	return f.providers
}

func firstOf[T any](providers []Provider, call func(Provider) (T, error)) (T, error) {
	var zero T
	var lastErr, unsupported error
	for _, p := range providers {
		v, err := call(p)
		if err == nil {
			return v, nil
		}
		// Partial providers must not mask the real failure of an earlier one
		if errors.Is(err, ErrNotSupported) {
			if unsupported == nil {
				unsupported = err
			}
			continue
		}
		lastErr = err
	}
	switch {
	case lastErr != nil:
		return zero, lastErr
	case unsupported != nil:
		return zero, unsupported
	default:
		return zero, errors.New("no providers configured")
	}
}
