package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
)

const (
	mapboxBaseURL          = "https://api.mapbox.com"
	mapboxPlacesPath       = "/geocoding/v5/mapbox.places/"
	defaultGeocodeCacheTTL = 60 * 60 * 24 * 30
	defaultHTTPTimeout     = 8 * time.Second
)

// MapboxGeolocationProvider geocodes addresses with the Mapbox places API.
// It makes exactly one request per lookup and never retries.
type MapboxGeolocationProvider struct {
	accessToken string
	country     string
	baseURL     string
	httpClient  *http.Client
	cache       providers.CacheProvider
}

var _ providers.GeolocationProvider = (*MapboxGeolocationProvider)(nil)

// NewMapboxGeolocationProvider creates a Mapbox provider. cache may be nil.
func NewMapboxGeolocationProvider(accessToken string, cache providers.CacheProvider) *MapboxGeolocationProvider {
	return NewMapboxGeolocationProviderWithOptions(accessToken, "US", mapboxBaseURL, cache, nil)
}

// NewMapboxGeolocationProviderWithOptions allows overriding the country
// filter, base URL and HTTP client.
func NewMapboxGeolocationProviderWithOptions(accessToken, country, baseURL string, cache providers.CacheProvider, httpClient *http.Client) *MapboxGeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = mapboxBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &MapboxGeolocationProvider{
		accessToken: accessToken,
		country:     country,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		cache:       cache,
	}
}

type mapboxResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

// Geocode returns the coordinates of the best match for address.
// providers.ErrNoGeocodeResults is returned when Mapbox matched nothing.
func (m *MapboxGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("address is required")
	}

	cacheKey := "geo:mapbox:" + hashKey(strings.ToLower(trimmed))
	if coords, ok := m.fromCache(ctx, cacheKey); ok {
		return coords, nil
	}

	coords, err := m.lookup(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if payload, err := json.Marshal(coords); err == nil {
			if err := m.cache.Set(ctx, cacheKey, payload, defaultGeocodeCacheTTL); err != nil {
				observability.LoggerFromContext(ctx).Debug().Err(err).Msg("failed to cache geocode result")
			}
		}
	}

	return coords, nil
}

func (m *MapboxGeolocationProvider) fromCache(ctx context.Context, key string) (*providers.Coordinates, bool) {
	if m.cache == nil {
		return nil, false
	}
	cached, err := m.cache.Get(ctx, key)
	if err != nil || len(cached) == 0 {
		return nil, false
	}
	var coords providers.Coordinates
	if err := json.Unmarshal(cached, &coords); err != nil {
		return nil, false
	}
	return &coords, true
}

func (m *MapboxGeolocationProvider) lookup(ctx context.Context, address string) (*providers.Coordinates, error) {
	params := url.Values{}
	params.Set("access_token", m.accessToken)
	if m.country != "" {
		params.Set("country", m.country)
	}
	params.Set("limit", "1")

	endpoint := m.baseURL + mapboxPlacesPath + url.PathEscape(address) + ".json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var payload mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if len(payload.Features) == 0 {
		return nil, providers.ErrNoGeocodeResults
	}
	center := payload.Features[0].Center
	if len(center) < 2 {
		return nil, fmt.Errorf("geocode result has no center")
	}

	// Mapbox orders center as [longitude, latitude].
	return &providers.Coordinates{Latitude: center[1], Longitude: center[0]}, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
