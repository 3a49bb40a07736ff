package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerscope/internal/sentiment"
	"tickerscope/pkg/model"
)

var asOf = time.Date(2024, 6, 3, 16, 0, 0, 0, time.UTC)

func history(closes ...float64) []model.PricePoint {
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Time: asOf.AddDate(0, 0, i-len(closes)), Close: c}
	}
	return points
}

func stubScorer(m map[string]float64) sentiment.Scorer {
	return sentiment.ScorerFunc(func(text string) float64 { return m[text] })
}

func TestBuildFullQuote(t *testing.T) {
	b := NewBuilder(stubScorer(nil), 0)
	snap, err := b.Build(Input{
		Symbol: " tsla ",
		Quote: model.QuoteFields{
			"currentPrice":       110.0,
			"regularMarketPrice": 999.0,
			"previousClose":      100.0,
			"marketCap":          780_000_000_000.0,
			"trailingPE":         61.2,
			"fiftyTwoWeekHigh":   299.29,
			"volume":             95_000_000.0,
			"longName":           "Tesla, Inc.",
			"currency":           "USD",
		},
		AsOf: asOf,
	})
	require.NoError(t, err)

	assert.Equal(t, "TSLA", snap.Symbol)
	assert.Equal(t, "Tesla, Inc.", snap.Name)
	assert.True(t, snap.PriceKnown)
	assert.Equal(t, 110.0, snap.CurrentPrice)
	assert.Equal(t, 100.0, snap.PreviousClose)
	assert.InDelta(t, 10.0, snap.Delta, 1e-9)
	assert.InDelta(t, 10.0, snap.DeltaPercent, 1e-9)
	assert.Equal(t, "$780.00B", snap.MarketCapText)
	assert.Equal(t, "$95.00M", snap.VolumeText)
	require.NotNil(t, snap.TrailingPE)
	assert.Equal(t, 61.2, *snap.TrailingPE)
	assert.Equal(t, 299.29, snap.FiftyTwoWeekHigh)
	assert.Equal(t, asOf, snap.BuiltAt)
}

func TestBuildPriceFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		quote        model.QuoteFields
		known        bool
		current      float64
		previous     float64
		deltaPercent float64
	}{
		{
			name:         "regular market price fallback",
			quote:        model.QuoteFields{"regularMarketPrice": 50.0, "regularMarketPreviousClose": 40.0},
			known:        true,
			current:      50,
			previous:     40,
			deltaPercent: 25,
		},
		{
			name:         "previous close defaults to current",
			quote:        model.QuoteFields{"currentPrice": 12.5},
			known:        true,
			current:      12.5,
			previous:     12.5,
			deltaPercent: 0,
		},
		{
			name:         "zero previous close is guarded",
			quote:        model.QuoteFields{"currentPrice": 12.5, "previousClose": 0.0},
			known:        true,
			current:      12.5,
			previous:     0,
			deltaPercent: 0,
		},
		{
			name:         "no price fields is unknown",
			quote:        model.QuoteFields{"previousClose": 80.0},
			known:        false,
			current:      0,
			previous:     80,
			deltaPercent: 0,
		},
		{
			name:         "malformed price is ignored",
			quote:        model.QuoteFields{"currentPrice": "n/a", "regularMarketPrice": 7.0},
			known:        true,
			current:      7,
			previous:     7,
			deltaPercent: 0,
		},
	}

	b := NewBuilder(stubScorer(nil), 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := b.Build(Input{Symbol: "X", Quote: tt.quote, AsOf: asOf})
			require.NoError(t, err)
			assert.Equal(t, tt.known, snap.PriceKnown)
			assert.Equal(t, tt.current, snap.CurrentPrice)
			assert.Equal(t, tt.previous, snap.PreviousClose)
			assert.InDelta(t, tt.deltaPercent, snap.DeltaPercent, 1e-9)
			if !tt.known {
				assert.Zero(t, snap.Delta)
			}
		})
	}
}

func TestBuildMissingFieldsDefault(t *testing.T) {
	snap, err := NewBuilder(nil, 0).Build(Input{Symbol: "COIN", AsOf: asOf})
	require.NoError(t, err)

	assert.Equal(t, "N/A", snap.MarketCapText)
	assert.Equal(t, "N/A", snap.VolumeText)
	assert.Nil(t, snap.TrailingPE)
	assert.Zero(t, snap.FiftyTwoWeekHigh)
	assert.Equal(t, model.LabelNeutral, snap.Sentiment.Label)
	assert.Equal(t, model.ColorOrange, snap.Sentiment.Color)
	assert.Zero(t, snap.Sentiment.AveragePolarity)
	assert.Nil(t, snap.Normalized)
}

func TestBuildSentimentAndNewsLimit(t *testing.T) {
	scores := map[string]float64{
		"Stock soars on strong earnings":  0.6,
		"Analysts warn of recession risk": -0.4,
	}
	news := []model.NewsItem{
		{Title: "Stock soars on strong earnings", Publisher: "Reuters"},
		{Title: "Analysts warn of recession risk", Publisher: "Bloomberg"},
	}

	snap, err := NewBuilder(stubScorer(scores), 1).Build(Input{Symbol: "AAPL", News: news, AsOf: asOf})
	require.NoError(t, err)

	assert.InDelta(t, 0.1, snap.Sentiment.AveragePolarity, 1e-9)
	assert.Equal(t, model.LabelNeutral, snap.Sentiment.Label)
	assert.Equal(t, 2, snap.Sentiment.Count)
	require.Len(t, snap.News, 2)
	require.Len(t, snap.DisplayNews, 1)
	assert.Equal(t, model.LabelBullish, snap.DisplayNews[0].Label)
	assert.Equal(t, model.LabelBearish, snap.News[1].Label)
}

func TestBuildNormalized(t *testing.T) {
	b := NewBuilder(nil, 0)

	snap, err := b.Build(Input{Symbol: "NVDA", History: history(100, 120), Normalize: true, AsOf: asOf})
	require.NoError(t, err)
	require.NotNil(t, snap.Normalized)
	assert.Equal(t, "NVDA", snap.Normalized.Symbol)
	assert.Equal(t, 0.0, snap.Normalized.Points[0].PercentChange)
	assert.InDelta(t, 20.0, snap.Normalized.Points[1].PercentChange, 1e-9)
	assert.False(t, snap.SeriesDegenerate)

	snap, err = b.Build(Input{Symbol: "NVDA", History: history(0, 120), Normalize: true, AsOf: asOf})
	require.NoError(t, err)
	require.NotNil(t, snap.Normalized)
	assert.Equal(t, 0, snap.Normalized.Len())
	assert.True(t, snap.SeriesDegenerate)
}

func TestBuildEmptySymbol(t *testing.T) {
	_, err := NewBuilder(nil, 0).Build(Input{Symbol: "  "})
	assert.Error(t, err)
}

func TestDelta(t *testing.T) {
	d, pct := Delta(90, 100)
	assert.InDelta(t, -10.0, d, 1e-9)
	assert.InDelta(t, -10.0, pct, 1e-9)

	d, pct = Delta(5, 0)
	assert.Equal(t, 5.0, d)
	assert.Equal(t, 0.0, pct)
}

func TestBuildNormalizesCompareHistory(t *testing.T) {
	snap, err := NewBuilder(nil, 0).Build(Input{
		Symbol:         "AMD",
		History:        history(10, 20, 30),
		CompareHistory: history(50, 55),
		Normalize:      true,
		AsOf:           asOf,
	})
	require.NoError(t, err)
	require.NotNil(t, snap.Normalized)
	assert.Equal(t, 2, snap.Normalized.Len())
	assert.InDelta(t, 10.0, snap.Normalized.Points[1].PercentChange, 1e-9)
	assert.Len(t, snap.History, 3)
}
