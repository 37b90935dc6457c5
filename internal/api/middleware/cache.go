package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
)

const cacheKeyPrefix = "http:cache:"

// RouteCache describes how long responses for one path are kept.
type RouteCache struct {
	TTLSeconds int
}

// DefaultRouteCaches returns the cached read endpoints.
func DefaultRouteCaches() map[string]RouteCache {
	return map[string]RouteCache{
		"/api/opportunities": {TTLSeconds: 60},
		"/api/geocode":       {TTLSeconds: 3600},
	}
}

// CacheMiddleware serves repeated GET requests from the cache provider.
type CacheMiddleware struct {
	cache   providers.CacheProvider
	routes  map[string]RouteCache
	metrics *observability.Metrics
}

// NewCacheMiddleware creates a cache middleware for the given routes. A nil
// cache disables caching.
func NewCacheMiddleware(cache providers.CacheProvider, routes map[string]RouteCache, metrics *observability.Metrics) *CacheMiddleware {
	if routes == nil {
		routes = DefaultRouteCaches()
	}
	return &CacheMiddleware{cache: cache, routes: routes, metrics: metrics}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		route, ok := m.routes[r.URL.Path]
		if !ok || route.TTLSeconds <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := generateCacheKey(r)

		cached, err := m.cache.Get(ctx, key)
		if err == nil {
			observability.RecordCacheHit(ctx, m.metrics, r.URL.Path)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
		if !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("response cache read failed")
		}

		observability.RecordCacheMiss(ctx, m.metrics, r.URL.Path)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode != http.StatusOK || recorder.body.Len() == 0 {
			return
		}
		if err := m.cache.Set(ctx, key, recorder.body.Bytes(), route.TTLSeconds); err != nil {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("failed to cache response")
		}
	})
}

// generateCacheKey hashes method, path and the normalized query string.
func generateCacheKey(r *http.Request) string {
	key := r.Method + ":" + r.URL.Path
	if r.URL.RawQuery != "" {
		if q, err := url.ParseQuery(r.URL.RawQuery); err == nil {
			key += "?" + q.Encode()
		} else {
			key += "?" + r.URL.RawQuery
		}
	}
	hash := sha256.Sum256([]byte(key))
	return cacheKeyPrefix + hex.EncodeToString(hash[:])
}

// responseRecorder tees the response body so it can be cached.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
