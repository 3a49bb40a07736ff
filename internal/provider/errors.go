package provider

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable matches any failure to obtain a ticker's data from
// the market-data provider.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// UnavailableError reports that the provider could not supply a ticker
type UnavailableError struct {
	Symbol string
	Err    error
}

// Unavailable wraps err for symbol
func Unavailable(symbol string, err error) error {
	return &UnavailableError{Symbol: symbol, Err: err}
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Symbol, ErrUpstreamUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUpstreamUnavailable) match
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}
