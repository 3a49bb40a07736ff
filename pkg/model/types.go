package model

import "time"

// PricePoint represents a single OHLCV bar of a historical series
type PricePoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// NewsItem is one retrieved article. Title may be empty when upstream data is malformed.
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Publisher string `json:"publisher"`
}

// Label is the qualitative sentiment classification
type Label string

const (
	LabelBullish Label = "BULLISH"
	LabelBearish Label = "BEARISH"
	LabelNeutral Label = "NEUTRAL"
)

// Color is the display classification paired with a Label
type Color string

const (
	ColorGreen  Color = "GREEN"
	ColorRed    Color = "RED"
	ColorOrange Color = "ORANGE"
)

// ScoredNewsItem is a NewsItem with its polarity and per-item classification
type ScoredNewsItem struct {
	NewsItem
	Polarity float64 `json:"polarity"` // [-1, 1]
	Label    Label   `json:"label"`
	Color    Color   `json:"color"`
}

// SentimentSummary is the ticker-level sentiment
type SentimentSummary struct {
	AveragePolarity float64 `json:"average_polarity"` // [-1, 1]
	Label           Label   `json:"label"`
	Color           Color   `json:"color"`
	Count           int     `json:"count"`
	Gauge           float64 `json:"gauge"` // average mapped onto [0, 1]
}

// NormalizedPoint is a single percent-change-from-start value
type NormalizedPoint struct {
	Time          time.Time `json:"time"`
	PercentChange float64   `json:"percent_change"`
}

// NormalizedSeries is a price series rescaled to percent change from its first close
type NormalizedSeries struct {
	Symbol string            `json:"symbol,omitempty"`
	Points []NormalizedPoint `json:"points"`
}

// Len returns the number of points
func (s NormalizedSeries) Len() int {
	return len(s.Points)
}

// Comparison holds normalized series for several tickers on one shared axis
type Comparison struct {
	Window  string             `json:"window"`
	Series  []NormalizedSeries `json:"series"`
	Skipped map[string]string  `json:"skipped,omitempty"` // symbol -> reason
}

// TickerSnapshot is the fully assembled result for one ticker at one point in time
type TickerSnapshot struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Currency string `json:"currency,omitempty"`

	PriceKnown       bool     `json:"price_known"`
	CurrentPrice     float64  `json:"current_price"`
	PreviousClose    float64  `json:"previous_close"`
	Delta            float64  `json:"delta"`
	DeltaPercent     float64  `json:"delta_percent"`
	MarketCap        *float64 `json:"market_cap,omitempty"`
	TrailingPE       *float64 `json:"trailing_pe,omitempty"`
	FiftyTwoWeekHigh float64  `json:"fifty_two_week_high"`
	Volume           *float64 `json:"volume,omitempty"`

	MarketCapText string `json:"market_cap_text"`
	VolumeText    string `json:"volume_text"`

	Sentiment   SentimentSummary `json:"sentiment"`
	News        []ScoredNewsItem `json:"news"`
	DisplayNews []ScoredNewsItem `json:"-"`

	History          []PricePoint      `json:"history,omitempty"`
	Normalized       *NormalizedSeries `json:"normalized,omitempty"`
	SeriesDegenerate bool              `json:"series_degenerate,omitempty"`

	BuiltAt time.Time `json:"built_at"`
}

// TickerResult is the outcome of refreshing one ticker
type TickerResult struct {
	Symbol   string          `json:"symbol"`
	Snapshot *TickerSnapshot `json:"snapshot,omitempty"`
	Err      error           `json:"-"`
	Error    string          `json:"error,omitempty"`
}

// Report represents one refresh cycle over the selected tickers
type Report struct {
	RunID      string         `json:"run_id"`
	Tickers    []string       `json:"tickers"`
	Results    []TickerResult `json:"results"`
	Comparison *Comparison    `json:"comparison,omitempty"`
	Failed     int            `json:"failed"`
	ScanTime   time.Duration  `json:"scan_time"`
}

// Snapshots returns the successfully built snapshots in ticker order
func (r *Report) Snapshots() []*TickerSnapshot {
	out := make([]*TickerSnapshot, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Snapshot != nil {
			out = append(out, res.Snapshot)
		}
	}
	return out
}
