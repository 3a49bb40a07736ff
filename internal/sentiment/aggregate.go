package sentiment

import "tickerscope/pkg/model"

// Classification thresholds shared by aggregate and per-item classification.
// Both comparisons are strict: exactly 0.1 is NEUTRAL.
const (
	BullishThreshold = 0.1
	BearishThreshold = -0.1
)

// Classify maps a polarity to its label and color
func Classify(p float64) (model.Label, model.Color) {
	switch {
	case p > BullishThreshold:
		return model.LabelBullish, model.ColorGreen
	case p < BearishThreshold:
		return model.LabelBearish, model.ColorRed
	default:
		return model.LabelNeutral, model.ColorOrange
	}
}

// Summarize reduces scored items to a ticker-level summary.
// The average is taken over the exact number of items; an empty input is neutral.
func Summarize(items []model.ScoredNewsItem) model.SentimentSummary {
	avg := 0.0
	if len(items) > 0 {
		sum := 0.0
		for _, it := range items {
			sum += Clamp(it.Polarity)
		}
		avg = Clamp(sum / float64(len(items)))
	}

	label, color := Classify(avg)
	return model.SentimentSummary{
		AveragePolarity: avg,
		Label:           label,
		Color:           color,
		Count:           len(items),
		Gauge:           (avg + 1) / 2,
	}
}
