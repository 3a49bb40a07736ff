package format

import (
	"fmt"
	"math"
)

// NotAvailable is rendered for missing values
const NotAvailable = "N/A"

var units = []struct {
	size   float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
}

// Large renders a large dollar quantity such as market cap or volume:
// $1.23T, $4.56B, $7.89M or $999.00. Unit boundaries are inclusive and
// negative values keep their sign in front of the dollar sign.
func Large(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}

	sign := ""
	abs := *v
	if abs < 0 {
		sign = "-"
		abs = -abs
	}

	for _, u := range units {
		if abs >= u.size {
			return fmt.Sprintf("%s$%.2f%s", sign, abs/u.size, u.suffix)
		}
	}
	return fmt.Sprintf("%s$%.2f", sign, abs)
}

// Price renders a plain price with two decimals
func Price(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// Percent renders a signed percentage such as +1.25% or -0.40%
func Percent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// Ratio renders an optional ratio (trailing P/E) with two decimals
func Ratio(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", *v)
}

// Polarity renders a sentiment score with two decimals
func Polarity(p float64) string {
	return fmt.Sprintf("%.2f", p)
}
