package snapshot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tickerscope/internal/format"
	"tickerscope/internal/sentiment"
	"tickerscope/internal/series"
	"tickerscope/pkg/model"
)

// Quote field keys, in fallback order
var (
	currentPriceKeys  = []string{"currentPrice", "regularMarketPrice"}
	previousCloseKeys = []string{"previousClose", "regularMarketPreviousClose"}
	marketCapKeys     = []string{"marketCap"}
	trailingPEKeys    = []string{"trailingPE"}
	yearHighKeys      = []string{"fiftyTwoWeekHigh"}
	volumeKeys        = []string{"volume", "regularMarketVolume"}
	nameKeys          = []string{"longName", "shortName"}
	currencyKeys      = []string{"currency"}
)

// DefaultNewsLimit is how many scored headlines are kept for display
const DefaultNewsLimit = 5

// Input is the already-fetched provider data for one ticker
type Input struct {
	Symbol  string
	Quote   model.QuoteFields
	News    []model.NewsItem
	History []model.PricePoint

	// CompareHistory is the comparison-window series. When set, Normalize
	// uses it instead of History.
	CompareHistory []model.PricePoint

	// Normalize requests the percent-change series (comparison mode)
	Normalize bool

	// AsOf stamps the snapshot; zero means time.Now()
	AsOf time.Time
}

// Builder assembles TickerSnapshots. It performs no I/O and keeps no state
// between builds, so one Builder may be shared across goroutines.
type Builder struct {
	scorer    sentiment.Scorer
	newsLimit int
}

// NewBuilder creates a builder. A nil scorer falls back to the default lexicon
// scorer; a non-positive newsLimit uses DefaultNewsLimit.
func NewBuilder(scorer sentiment.Scorer, newsLimit int) *Builder {
	if scorer == nil {
		scorer = sentiment.NewLexiconScorer(nil)
	}
	if newsLimit <= 0 {
		newsLimit = DefaultNewsLimit
	}
	return &Builder{scorer: scorer, newsLimit: newsLimit}
}

// Build assembles the snapshot for one ticker
func (b *Builder) Build(in Input) (*model.TickerSnapshot, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("building snapshot: empty symbol")
	}

	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	q := in.Quote
	snap := &model.TickerSnapshot{
		Symbol:     symbol,
		Name:       q.String(nameKeys...),
		Currency:   q.String(currencyKeys...),
		MarketCap:  q.FloatPtr(marketCapKeys...),
		TrailingPE: q.FloatPtr(trailingPEKeys...),
		Volume:     q.FloatPtr(volumeKeys...),
		History:    in.History,
		BuiltAt:    asOf,
	}
	snap.FiftyTwoWeekHigh, _ = q.Float(yearHighKeys...)
	snap.MarketCapText = format.Large(snap.MarketCap)
	snap.VolumeText = format.Large(snap.Volume)

	applyPrice(snap, q)

	snap.News = sentiment.ScoreNews(b.scorer, in.News)
	snap.Sentiment = sentiment.Summarize(snap.News)
	snap.DisplayNews = snap.News
	if len(snap.DisplayNews) > b.newsLimit {
		snap.DisplayNews = snap.DisplayNews[:b.newsLimit]
	}

	if in.Normalize {
		source := in.History
		if in.CompareHistory != nil {
			source = in.CompareHistory
		}
		norm, err := series.NormalizeSymbol(symbol, source)
		switch {
		case errors.Is(err, series.ErrDegenerateSeries):
			snap.SeriesDegenerate = true
		case err != nil:
			return nil, fmt.Errorf("normalizing %s: %w", symbol, err)
		}
		snap.Normalized = &norm
	}

	return snap, nil
}

// applyPrice resolves current price, previous close and the daily delta.
// Without any price field the snapshot is marked unknown instead of showing
// a fake drop to zero.
func applyPrice(snap *model.TickerSnapshot, q model.QuoteFields) {
	current, ok := q.Float(currentPriceKeys...)
	if !ok {
		snap.PriceKnown = false
		snap.PreviousClose, _ = q.Float(previousCloseKeys...)
		return
	}

	snap.PriceKnown = true
	snap.CurrentPrice = current

	previous, ok := q.Float(previousCloseKeys...)
	if !ok {
		previous = current
	}
	snap.PreviousClose = previous
	snap.Delta, snap.DeltaPercent = Delta(current, previous)
}

// Delta returns the absolute and percent change from previous to current.
// A zero previous close yields a zero percent change.
func Delta(current, previous float64) (float64, float64) {
	delta := current - previous
	if previous == 0 {
		return delta, 0
	}
	return delta, delta / previous * 100
}
