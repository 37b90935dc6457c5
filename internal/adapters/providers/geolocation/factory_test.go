package geolocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/volunteerconnect/backend/pkg/config"
)

func TestNewProvider(t *testing.T) {
	mapbox, err := NewProvider(config.GeolocationConfig{Provider: "mapbox", AccessToken: "tok"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MapboxGeolocationProvider{}, mapbox)

	stub, err := NewProvider(config.GeolocationConfig{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MockGeolocationProvider{}, stub)

	_, err = NewProvider(config.GeolocationConfig{Provider: "google"}, nil)
	assert.EqualError(t, err, `unknown geolocation provider "google"`)
}
