package series

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerscope/pkg/model"
)

func makeHistory(start time.Time, closes ...float64) []model.PricePoint {
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return points
}

var day0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestNormalizeEmpty(t *testing.T) {
	s, err := Normalize(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestNormalizeDegenerate(t *testing.T) {
	s, err := Normalize(makeHistory(day0, 0, 10, 20))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateSeries))
	assert.Equal(t, 0, s.Len())

	var de *DegenerateSeriesError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, day0, de.Baseline)
}

func TestNormalizeValues(t *testing.T) {
	history := makeHistory(day0, 200, 210, 190, 250)
	s, err := Normalize(history)
	require.NoError(t, err)
	require.Equal(t, len(history), s.Len())

	want := []float64{0, 5, -5, 25}
	for i, p := range s.Points {
		assert.Equal(t, history[i].Time, p.Time)
		assert.InDelta(t, want[i], p.PercentChange, 1e-9)
		assert.False(t, math.IsNaN(p.PercentChange))
	}
}

func TestNormalizeFirstPointExactlyZero(t *testing.T) {
	for _, base := range []float64{0.1, 1.0 / 3.0, 123.456, 1e9} {
		s, err := Normalize(makeHistory(day0, base, base*1.1))
		require.NoError(t, err)
		assert.Equal(t, 0.0, s.Points[0].PercentChange)
	}
}

func TestNormalizeSymbolTagsError(t *testing.T) {
	s, err := NormalizeSymbol("TSLA", makeHistory(day0, 0))
	assert.Equal(t, "TSLA", s.Symbol)
	var de *DegenerateSeriesError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "TSLA", de.Symbol)
	assert.Contains(t, err.Error(), "TSLA")
}

func TestCompare(t *testing.T) {
	cmp := Compare(model.Window1M, []History{
		{Symbol: "AAPL", Points: makeHistory(day0, 100, 110)},
		{Symbol: "ZERO", Points: makeHistory(day0, 0, 5)},
		{Symbol: "EMPTY"},
		{Symbol: "NVDA", Points: makeHistory(day0.AddDate(0, 0, 1), 50, 40)},
	})

	assert.Equal(t, "1mo", cmp.Window)
	require.Len(t, cmp.Series, 2)
	assert.Equal(t, "AAPL", cmp.Series[0].Symbol)
	assert.Equal(t, "NVDA", cmp.Series[1].Symbol)
	assert.Contains(t, cmp.Skipped, "ZERO")
	assert.Contains(t, cmp.Skipped, "EMPTY")

	dates := Dates(cmp)
	require.Len(t, dates, 3)
	assert.True(t, dates[0].Before(dates[1]))
	assert.True(t, dates[1].Before(dates[2]))
}

func TestSummarize(t *testing.T) {
	history := []model.PricePoint{
		{Time: day0, Open: 100, High: 104, Low: 98, Close: 102},
		{Time: day0.AddDate(0, 0, 1), Open: 102, High: 111, Low: 101, Close: 110},
		{Time: day0.AddDate(0, 0, 2), Close: 95}, // close-only bar
	}

	s, ok := Summarize(history)
	require.True(t, ok)
	assert.Equal(t, day0, s.Start)
	assert.Equal(t, day0.AddDate(0, 0, 2), s.End)
	assert.Equal(t, 100.0, s.Open)
	assert.Equal(t, 111.0, s.High)
	assert.Equal(t, 95.0, s.Low)
	assert.Equal(t, 95.0, s.Close)
	assert.InDelta(t, -5.0, s.ChangePercent, 1e-9)
	assert.Equal(t, 3, s.Bars)
	assert.Equal(t, []float64{102, 110, 95}, Closes(history))
}

func TestSummarizeEdgeCases(t *testing.T) {
	_, ok := Summarize(nil)
	assert.False(t, ok)

	s, ok := Summarize(makeHistory(day0, 0, 5))
	require.True(t, ok)
	assert.Equal(t, 0.0, s.ChangePercent, "zero open must not divide")
	assert.Equal(t, 5.0, s.High)
}
