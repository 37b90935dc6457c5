package geolocation

import (
	"fmt"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/pkg/config"
)

// NewProvider returns the geocoder selected by cfg.Provider. cache may be nil.
func NewProvider(cfg config.GeolocationConfig, cache providers.CacheProvider) (providers.GeolocationProvider, error) {
	switch cfg.Provider {
	case "", "mapbox":
		return NewMapboxGeolocationProviderWithOptions(cfg.AccessToken, cfg.Country, cfg.BaseURL, cache, nil), nil
	case "mock":
		return NewMockGeolocationProvider(), nil
	default:
		return nil, fmt.Errorf("unknown geolocation provider %q", cfg.Provider)
	}
}
