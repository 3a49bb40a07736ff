package series

import (
	"errors"
	"fmt"
	"time"

	"tickerscope/pkg/model"
)

// ErrDegenerateSeries is returned when a series cannot be normalized because
// its baseline close is zero.
var ErrDegenerateSeries = errors.New("degenerate series")

// DegenerateSeriesError carries the offending baseline point
type DegenerateSeriesError struct {
	Symbol   string
	Baseline time.Time
}

func (e *DegenerateSeriesError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("%s: zero baseline close at %s", e.Symbol, e.Baseline.Format("2006-01-02"))
	}
	return fmt.Sprintf("zero baseline close at %s", e.Baseline.Format("2006-01-02"))
}

func (e *DegenerateSeriesError) Unwrap() error {
	return ErrDegenerateSeries
}

// Normalize rescales history to percent change from its first close.
// An empty history yields an empty series and no error. A zero first close
// yields an empty series and a *DegenerateSeriesError.
func Normalize(history []model.PricePoint) (model.NormalizedSeries, error) {
	out := model.NormalizedSeries{Points: []model.NormalizedPoint{}}
	if len(history) == 0 {
		return out, nil
	}

	base := history[0].Close
	if base == 0 {
		return out, &DegenerateSeriesError{Baseline: history[0].Time}
	}

	out.Points = make([]model.NormalizedPoint, len(history))
	for i, p := range history {
		change := 0.0
		if i > 0 {
			change = (p.Close - base) / base * 100
		}
		out.Points[i] = model.NormalizedPoint{Time: p.Time, PercentChange: change}
	}
	return out, nil
}

// NormalizeSymbol is Normalize with the symbol attached to the result and any error
func NormalizeSymbol(symbol string, history []model.PricePoint) (model.NormalizedSeries, error) {
	s, err := Normalize(history)
	s.Symbol = symbol
	var de *DegenerateSeriesError
	if errors.As(err, &de) {
		de.Symbol = symbol
	}
	return s, err
}
