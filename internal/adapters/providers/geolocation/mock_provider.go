package geolocation

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
)

// MockGeolocationProvider resolves addresses without network access. Known
// cities map to their real coordinates; anything else gets a stable point
// inside the continental US derived from the address text.
type MockGeolocationProvider struct{}

var _ providers.GeolocationProvider = (*MockGeolocationProvider)(nil)

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() *MockGeolocationProvider {
	return &MockGeolocationProvider{}
}

var knownCities = []struct {
	name   string
	coords providers.Coordinates
}{
	{"NEW YORK", providers.Coordinates{Latitude: 40.7128, Longitude: -74.0060}},
	{"LOS ANGELES", providers.Coordinates{Latitude: 34.0522, Longitude: -118.2437}},
	{"CHICAGO", providers.Coordinates{Latitude: 41.8781, Longitude: -87.6298}},
	{"HOUSTON", providers.Coordinates{Latitude: 29.7604, Longitude: -95.3698}},
	{"PHOENIX", providers.Coordinates{Latitude: 33.4484, Longitude: -112.0740}},
	{"SAN FRANCISCO", providers.Coordinates{Latitude: 37.7749, Longitude: -122.4194}},
	{"DOTHAN", providers.Coordinates{Latitude: 31.2232, Longitude: -85.3905}},
}

// Geocode converts an address to coordinates (mock implementation)
func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	upper := strings.ToUpper(address)
	for _, city := range knownCities {
		if strings.Contains(upper, city.name) {
			coords := city.coords
			return &coords, nil
		}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(upper))
	sum := h.Sum32()

	return &providers.Coordinates{
		Latitude:  25 + float64(sum%2300)/100,
		Longitude: -124 + float64((sum/2300)%5700)/100,
	}, nil
}
