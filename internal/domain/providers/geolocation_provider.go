package providers

import (
	"context"
	"errors"
)

// ErrNoGeocodeResults is returned when the provider answered but matched
// nothing for the address.
var ErrNoGeocodeResults = errors.New("no geocoding results")

// GeolocationProvider defines the interface for geolocation services
type GeolocationProvider interface {
	// Geocode converts a free-form address to coordinates. Implementations
	// make a single attempt; callers treat any error as a soft failure.
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}
