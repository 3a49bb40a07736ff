package model

import (
	"fmt"
	"strings"
)

// Window is a historical lookback window in Yahoo range notation (1mo, 6mo, 1y, ...)
type Window string

const (
	Window1D  Window = "1d"
	Window5D  Window = "5d"
	Window1M  Window = "1mo"
	Window3M  Window = "3mo"
	Window6M  Window = "6mo"
	Window1Y  Window = "1y"
	Window2Y  Window = "2y"
	Window5Y  Window = "5y"
	WindowYTD Window = "ytd"
	WindowMax Window = "max"
)

var windowAliases = map[string]Window{
	"1d": Window1D, "1day": Window1D,
	"5d": Window5D, "1w": Window5D, "1wk": Window5D,
	"1mo": Window1M, "1m": Window1M, "1month": Window1M,
	"3mo": Window3M, "3m": Window3M,
	"6mo": Window6M, "6m": Window6M, "6months": Window6M,
	"1y": Window1Y, "12mo": Window1Y,
	"2y": Window2Y,
	"5y": Window5Y,
	"ytd": WindowYTD,
	"max": WindowMax,
}

// ParseWindow parses a lookback window such as "1mo" or "6m"
func ParseWindow(s string) (Window, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if w, ok := windowAliases[key]; ok {
		return w, nil
	}
	return "", fmt.Errorf("unknown window %q", s)
}

// Interval returns the bar interval Yahoo serves for the window
func (w Window) Interval() string {
	switch w {
	case Window1D:
		return "5m"
	case Window5D:
		return "30m"
	case Window5Y, WindowMax:
		return "1wk"
	default:
		return "1d"
	}
}

func (w Window) String() string {
	return string(w)
}
