package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// QuoteFields is the raw quote mapping returned by a market-data provider.
// Keys follow Yahoo Finance naming (currentPrice, regularMarketPrice, previousClose, ...).
// Missing or malformed keys never raise; lookups report ok=false instead.
type QuoteFields map[string]any

// Float returns the first key that holds a finite number
func (q QuoteFields) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := q[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

// FloatPtr is Float returning nil when no key is usable
func (q QuoteFields) FloatPtr(keys ...string) *float64 {
	f, ok := q.Float(keys...)
	if !ok {
		return nil
	}
	return &f
}

// String returns the first non-empty string value among keys
func (q QuoteFields) String(keys ...string) string {
	for _, k := range keys {
		if s, ok := q[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case map[string]any:
		// quoteSummary style {"raw": 123.4, "fmt": "123.40"}
		if raw, ok := n["raw"]; ok {
			return toFloat(raw)
		}
	}
	return 0, false
}
