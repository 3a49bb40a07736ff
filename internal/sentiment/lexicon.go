package sentiment

import (
	"strings"
	"unicode"
)

// Lexicon maps lowercase words or space-separated phrases to polarity values in [-1, 1]
type Lexicon map[string]float64

// DefaultLexicon is tuned for financial headlines
var DefaultLexicon = Lexicon{
	// bullish
	"soar": 0.6, "soars": 0.6, "soared": 0.6, "soaring": 0.6,
	"surge": 0.6, "surges": 0.6, "surged": 0.6, "surging": 0.6,
	"rally": 0.5, "rallies": 0.5, "rallied": 0.5,
	"jump": 0.4, "jumps": 0.4, "jumped": 0.4,
	"gain": 0.3, "gains": 0.3, "gained": 0.3,
	"rise": 0.3, "rises": 0.3, "rising": 0.3, "climbs": 0.3,
	"strong": 0.4, "stronger": 0.45, "strongest": 0.5, "robust": 0.45,
	"beat": 0.4, "beats": 0.4, "tops": 0.35, "exceeds": 0.4,
	"upgrade": 0.5, "upgrades": 0.5, "upgraded": 0.5, "outperform": 0.5,
	"bullish": 0.6, "optimistic": 0.5, "optimism": 0.5, "upbeat": 0.5,
	"record": 0.3, "growth": 0.3, "profit": 0.3, "profitable": 0.4,
	"good": 0.7, "great": 0.8, "best": 1.0, "positive": 0.3,
	"boost": 0.4, "boosts": 0.4, "win": 0.5, "wins": 0.5,
	"recovery": 0.4, "rebound": 0.4, "rebounds": 0.4, "breakout": 0.5,
	"all-time high": 0.7, "record high": 0.7, "beats estimates": 0.6,
	"price target raised": 0.5, "buy rating": 0.5,

	// bearish
	"plunge": -0.6, "plunges": -0.6, "plunged": -0.6,
	"crash": -0.7, "crashes": -0.7, "crashed": -0.7,
	"slump": -0.5, "slumps": -0.5, "tumble": -0.5, "tumbles": -0.5,
	"fall": -0.3, "falls": -0.3, "fell": -0.3, "drop": -0.3, "drops": -0.3,
	"decline": -0.3, "declines": -0.3, "slides": -0.3, "sinks": -0.4,
	"weak": -0.4, "weaker": -0.45, "weakest": -0.5,
	"miss": -0.4, "misses": -0.4, "missed": -0.4,
	"downgrade": -0.5, "downgrades": -0.5, "downgraded": -0.5, "underperform": -0.5,
	"bearish": -0.6, "pessimistic": -0.5, "gloomy": -0.5,
	"warn": -0.4, "warns": -0.4, "warning": -0.4,
	"recession": -0.5, "risk": -0.3, "risks": -0.3, "fear": -0.5, "fears": -0.5,
	"loss": -0.4, "losses": -0.4, "lawsuit": -0.4, "probe": -0.35, "investigation": -0.4,
	"fraud": -0.8, "bankruptcy": -0.8, "layoffs": -0.4, "recall": -0.35,
	"bad": -0.7, "worst": -1.0, "terrible": -1.0, "negative": -0.3,
	"concern": -0.3, "concerns": -0.3, "volatile": -0.2, "uncertainty": -0.3,
	"selloff": -0.6, "sell-off": -0.6, "price target cut": -0.5, "sell rating": -0.5,
}

var intensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "sharply": 1.4, "significantly": 1.3,
	"strongly": 1.3, "hugely": 1.4, "deeply": 1.3, "slightly": 0.6, "modestly": 0.7,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "without": true, "isn't": true,
	"aren't": true, "doesn't": true, "don't": true, "didn't": true, "won't": true,
}

const (
	negationFactor = -0.5
	maxPhraseWords = 3
)

// LexiconScorer is a deterministic pattern-lexicon scorer. The polarity of a
// text is the mean of its matched terms, each adjusted by a preceding
// intensifier or negation.
type LexiconScorer struct {
	lexicon Lexicon
}

// NewLexiconScorer creates a scorer over lex, or DefaultLexicon when lex is nil
func NewLexiconScorer(lex Lexicon) *LexiconScorer {
	if lex == nil {
		lex = DefaultLexicon
	}
	return &LexiconScorer{lexicon: lex}
}

// Score returns the polarity of text in [-1, 1]
func (s *LexiconScorer) Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	var hits int
	for i := 0; i < len(tokens); {
		polarity, width, ok := s.match(tokens, i)
		if !ok {
			i++
			continue
		}
		sum += polarity * modifier(tokens, i)
		hits++
		i += width
	}

	if hits == 0 {
		return 0
	}
	return Clamp(sum / float64(hits))
}

// match finds the longest lexicon entry starting at tokens[i]
func (s *LexiconScorer) match(tokens []string, i int) (float64, int, bool) {
	for n := maxPhraseWords; n >= 1; n-- {
		if i+n > len(tokens) {
			continue
		}
		if p, ok := s.lexicon[strings.Join(tokens[i:i+n], " ")]; ok {
			return p, n, true
		}
	}
	return 0, 0, false
}

// modifier looks at up to two tokens before position i
func modifier(tokens []string, i int) float64 {
	m := 1.0
	j := i - 1
	if j >= 0 {
		if f, ok := intensifiers[tokens[j]]; ok {
			m *= f
			j--
		}
	}
	if j >= 0 && negations[tokens[j]] {
		m *= negationFactor
	}
	return m
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\''
	})
}
