package format

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestLarge(t *testing.T) {
	tests := []struct {
		name  string
		value *float64
		want  string
	}{
		{"nil", nil, "N/A"},
		{"NaN", ptr(math.NaN()), "N/A"},
		{"small", ptr(999), "$999.00"},
		{"zero", ptr(0), "$0.00"},
		{"just below million", ptr(999_999.99), "$999999.99"},
		{"exactly million", ptr(1_000_000), "$1.00M"},
		{"millions", ptr(12_345_678), "$12.35M"},
		{"exactly billion", ptr(1_000_000_000), "$1.00B"},
		{"billions", ptr(2_500_000_000), "$2.50B"},
		{"exactly trillion", ptr(1_000_000_000_000), "$1.00T"},
		{"trillions", ptr(3_450_000_000_000), "$3.45T"},
		{"negative billions", ptr(-1_500_000_000), "-$1.50B"},
		{"negative small", ptr(-42.5), "-$42.50"},
		{"negative exactly million", ptr(-1_000_000), "-$1.00M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Large(tt.value); got != tt.want {
				t.Errorf("Large() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(1.234); got != "+1.23%" {
		t.Errorf("Percent(1.234) = %q", got)
	}
	if got := Percent(-0.4); got != "-0.40%" {
		t.Errorf("Percent(-0.4) = %q", got)
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(nil); got != "N/A" {
		t.Errorf("Ratio(nil) = %q", got)
	}
	if got := Ratio(ptr(28.456)); got != "28.46" {
		t.Errorf("Ratio(28.456) = %q", got)
	}
}

func TestPrice(t *testing.T) {
	if got := Price(250.5); got != "$250.50" {
		t.Errorf("Price(250.5) = %q", got)
	}
}
