package series

import (
	"time"

	"tickerscope/pkg/model"
)

// Summary is the OHLC range of a price series over its whole window
type Summary struct {
	Start         time.Time
	End           time.Time
	Open          float64
	High          float64
	Low           float64
	Close         float64
	ChangePercent float64
	Bars          int
}

// Summarize collapses history into one OHLC bar. It reports false for an
// empty history. Bars missing open/high/low fall back to their close; a zero
// opening price leaves ChangePercent at 0.
func Summarize(history []model.PricePoint) (Summary, bool) {
	if len(history) == 0 {
		return Summary{}, false
	}

	first, last := history[0], history[len(history)-1]
	s := Summary{
		Start: first.Time,
		End:   last.Time,
		Open:  orClose(first.Open, first.Close),
		High:  orClose(first.High, first.Close),
		Low:   orClose(first.Low, first.Close),
		Close: last.Close,
		Bars:  len(history),
	}
	for _, p := range history[1:] {
		if h := orClose(p.High, p.Close); h > s.High {
			s.High = h
		}
		if l := orClose(p.Low, p.Close); l < s.Low {
			s.Low = l
		}
	}
	if s.Open != 0 {
		s.ChangePercent = (s.Close - s.Open) / s.Open * 100
	}
	return s, true
}

func orClose(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

// Closes returns the closing prices in order
func Closes(history []model.PricePoint) []float64 {
	out := make([]float64, len(history))
	for i, p := range history {
		out[i] = p.Close
	}
	return out
}
