package geolocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
)

func TestDistanceMiles(t *testing.T) {
	newYork := providers.Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	losAngeles := providers.Coordinates{Latitude: 34.0522, Longitude: -118.2437}

	assert.InDelta(t, 2445, DistanceMiles(newYork, losAngeles), 5)
	assert.InDelta(t, DistanceMiles(newYork, losAngeles), DistanceMiles(losAngeles, newYork), 1e-9)
	assert.Zero(t, DistanceMiles(newYork, newYork))
}

func TestMockGeolocationProvider(t *testing.T) {
	ctx := context.Background()
	provider := NewMockGeolocationProvider()

	coords, err := provider.Geocode(ctx, "1108 ROSS CLARK CIRCLE, DOTHAN, AL 36301")
	assert.NoError(t, err)
	assert.Equal(t, 31.2232, coords.Latitude)

	a, _ := provider.Geocode(ctx, "1 Nowhere Rd, Smallville, KS 66002")
	b, _ := provider.Geocode(ctx, "1 Nowhere Rd, Smallville, KS 66002")
	assert.Equal(t, a, b)
	assert.True(t, a.Latitude >= 25 && a.Latitude < 48)
	assert.True(t, a.Longitude >= -124 && a.Longitude < -67)
}
