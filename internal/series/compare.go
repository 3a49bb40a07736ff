package series

import (
	"errors"
	"sort"
	"time"

	"tickerscope/pkg/model"
)

// History pairs a symbol with its raw price series
type History struct {
	Symbol string
	Points []model.PricePoint
}

// Compare normalizes several histories for a shared chart. Empty and
// degenerate histories are listed in Skipped instead of failing the rest.
func Compare(window model.Window, histories []History) *model.Comparison {
	cmp := &model.Comparison{
		Window: window.String(),
		Series: make([]model.NormalizedSeries, 0, len(histories)),
	}

	for _, h := range histories {
		s, err := NormalizeSymbol(h.Symbol, h.Points)
		switch {
		case errors.Is(err, ErrDegenerateSeries):
			skip(cmp, h.Symbol, "zero baseline price")
		case err != nil:
			skip(cmp, h.Symbol, err.Error())
		case s.Len() == 0:
			skip(cmp, h.Symbol, "no price history")
		default:
			cmp.Series = append(cmp.Series, s)
		}
	}
	return cmp
}

func skip(cmp *model.Comparison, symbol, reason string) {
	if cmp.Skipped == nil {
		cmp.Skipped = make(map[string]string)
	}
	cmp.Skipped[symbol] = reason
}

// Dates returns the union of timestamps across the comparison, in order
func Dates(cmp *model.Comparison) []time.Time {
	seen := make(map[int64]time.Time)
	for _, s := range cmp.Series {
		for _, p := range s.Points {
			seen[p.Time.Unix()] = p.Time
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}
