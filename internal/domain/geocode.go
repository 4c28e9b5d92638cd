package domain

import "context"

// GeocodeResult is a resolved location. Constructed fresh per call, never
// persisted. ZipCode is nil when the provider returned coordinates but no
// postal code could be extracted.
type GeocodeResult struct {
	Query          string  `json:"query"`
	MatchedAddress string  `json:"matched_address"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ZipCode        *string `json:"zip_code"`
}

// Geocoder resolves free-text location queries. A nil result with a nil error
// means the provider answered but found no match; transport and payload
// failures surface as errors so callers can distinguish "no data" from a bug.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (*GeocodeResult, error)
}
