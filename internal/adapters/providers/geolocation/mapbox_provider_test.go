package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) SetNX(ctx context.Context, key string, value []byte, expirationSeconds int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = value
	return true, nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func TestMapboxGeolocationProvider_Geocode(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/geocoding/v5/mapbox.places/1108 ROSS CLARK CIRCLE, DOTHAN, AL 36301.json", r.URL.Path)
		assert.Equal(t, "pk.test", r.URL.Query().Get("access_token"))
		assert.Equal(t, "US", r.URL.Query().Get("country"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[{"place_name":"Dothan","center":[-85.3905,31.2232]}]}`))
	}))
	defer server.Close()

	cache := newMemoryCache()
	provider := NewMapboxGeolocationProviderWithOptions("pk.test", "US", server.URL, cache, server.Client())

	coords, err := provider.Geocode(context.Background(), "1108 ROSS CLARK CIRCLE, DOTHAN, AL 36301")
	require.NoError(t, err)
	assert.Equal(t, 31.2232, coords.Latitude)
	assert.Equal(t, -85.3905, coords.Longitude)

	cached, err := provider.Geocode(context.Background(), "1108 Ross Clark Circle, Dothan, AL 36301")
	require.NoError(t, err)
	assert.Equal(t, coords, cached)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second lookup must be served from cache")
}

func TestMapboxGeolocationProvider_NoFeatures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer server.Close()

	provider := NewMapboxGeolocationProviderWithOptions("pk.test", "US", server.URL, nil, server.Client())
	_, err := provider.Geocode(context.Background(), "nowhere")

	assert.ErrorIs(t, err, providers.ErrNoGeocodeResults)
}

func TestMapboxGeolocationProvider_SingleAttemptOnError(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cache := newMemoryCache()
	provider := NewMapboxGeolocationProviderWithOptions("pk.test", "US", server.URL, cache, server.Client())
	_, err := provider.Geocode(context.Background(), "1 Main St")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Empty(t, cache.data, "failures are not cached")
}

func TestMapboxGeolocationProvider_EmptyAddress(t *testing.T) {
	provider := NewMapboxGeolocationProvider("pk.test", nil)
	_, err := provider.Geocode(context.Background(), "   ")
	assert.Error(t, err)
}
