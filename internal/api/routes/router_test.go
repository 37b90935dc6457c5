package routes_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/cache"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/providers/geolocation"
	"github.com/zatekoja/volunteerconnect/backend/internal/api/handlers"
	"github.com/zatekoja/volunteerconnect/backend/internal/api/middleware"
	"github.com/zatekoja/volunteerconnect/backend/internal/api/routes"
	"github.com/zatekoja/volunteerconnect/backend/internal/application/services"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	redisclient "github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/redis"
)

type stubLister struct {
	calls int
}

func (s *stubLister) List(ctx context.Context, params services.ListOpportunitiesParams) (*services.OpportunityPage, error) {
	s.calls++
	return &services.OpportunityPage{
		Opportunities: []*entities.OpportunityListing{{Opportunity: entities.Opportunity{ID: "1", Name: "Mercy"}}},
		TotalCount:    1,
		Page:          params.Page,
	}, nil
}

func newTestServer(t *testing.T, lister *stubLister, cacheMiddleware *middleware.CacheMiddleware) http.Handler {
	t.Helper()
	router := routes.NewRouter(
		handlers.NewMisconfiguredImportHandler(errors.New("MAPBOX_ACCESS_TOKEN not configured")),
		handlers.NewOpportunityHandler(lister),
		handlers.NewGeolocationHandler(geolocation.NewMockGeolocationProvider()),
		nil,
		cacheMiddleware,
		[]string{"*"},
		nil,
	)
	return router.SetupRoutes()
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := newTestServer(t, &stubLister{}, nil)

	rec := do(h, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ImportPreflight(t *testing.T) {
	h := newTestServer(t, &stubLister{}, nil)

	rec := do(h, http.MethodOptions, "/api/import/hospitals")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestRouter_ImportReportsConfigurationError(t *testing.T) {
	h := newTestServer(t, &stubLister{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/import/hospitals", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "MAPBOX_ACCESS_TOKEN not configured")
}

func TestRouter_ImportRejectsGet(t *testing.T) {
	h := newTestServer(t, &stubLister{}, nil)

	rec := do(h, http.MethodGet, "/api/import/hospitals")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Geocode(t *testing.T) {
	h := newTestServer(t, &stubLister{}, nil)

	rec := do(h, http.MethodGet, "/api/geocode?address=Dothan")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Dothan", body["address"])
	assert.Contains(t, body, "lat")
	assert.Contains(t, body, "lon")
}

func TestRouter_OpportunitiesAreCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	adapter := cache.NewRedisAdapter(redisclient.NewFromClient(client))

	lister := &stubLister{}
	h := newTestServer(t, lister, middleware.NewCacheMiddleware(adapter, nil, nil))

	first := do(h, http.MethodGet, "/api/opportunities?page=0")
	second := do(h, http.MethodGet, "/api/opportunities?page=0")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, lister.calls)
}

func TestRouter_ProgressRouteNeedsHandler(t *testing.T) {
	h := newTestServer(t, &stubLister{}, nil)

	rec := do(h, http.MethodGet, "/api/import/hospitals/progress")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
