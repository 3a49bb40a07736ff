package sentiment

import (
	"math"
	"strings"

	"tickerscope/pkg/model"
)

// Scorer maps a piece of text to a sentiment polarity.
// Implementations should return values in [-1, 1], but callers go through
// Polarity which enforces the range regardless.
type Scorer interface {
	Score(text string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface
type ScorerFunc func(text string) float64

// Score calls f(text)
func (f ScorerFunc) Score(text string) float64 {
	return f(text)
}

// Polarity scores text with s, returning 0 for blank text or a NaN result
// and clamping everything else to [-1, 1].
func Polarity(s Scorer, text string) float64 {
	if s == nil || strings.TrimSpace(text) == "" {
		return 0
	}
	return Clamp(s.Score(text))
}

// Clamp bounds p to [-1, 1]. NaN becomes 0.
func Clamp(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0
	case p > 1:
		return 1
	case p < -1:
		return -1
	}
	return p
}

// ScoreNews scores every headline in order and classifies each one
func ScoreNews(s Scorer, items []model.NewsItem) []model.ScoredNewsItem {
	scored := make([]model.ScoredNewsItem, len(items))
	for i, item := range items {
		p := Polarity(s, item.Title)
		label, color := Classify(p)
		scored[i] = model.ScoredNewsItem{
			NewsItem: item,
			Polarity: p,
			Label:    label,
			Color:    color,
		}
	}
	return scored
}
