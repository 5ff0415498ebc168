package provider

import "fmt"

// Listing is one row scraped from a markets listing table.
// Price and volume keep their display text; parsing happens later so a
// malformed cell never drops the whole row.
type Listing struct {
	Symbol     string
	Name       string
	PriceText  string
	VolumeText string
}

// Quote is a point-in-time price and volume for one symbol.
type Quote struct {
	LastPrice *float64
	Volume    *int64
}

// Targets holds analyst price target aggregates for one symbol.
// Any field may be nil when Yahoo reports no value.
type Targets struct {
	Low    *float64
	Median *float64
	Mean   *float64
	High   *float64
}

// Empty reports whether no usable target is present. The collector skips
// symbols with empty targets entirely.
func (t Targets) Empty() bool {
	return t.Low == nil && t.Median == nil && t.High == nil
}

// APIError represents an HTTP-level error from Yahoo Finance.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
