package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/volunteerconnect/backend/internal/api/handlers"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
)

type MockGeolocationProvider struct {
	mock.Mock
}

func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.Coordinates), args.Error(1)
}

func TestGeolocationHandler_Geocode(t *testing.T) {
	provider := new(MockGeolocationProvider)
	provider.On("Geocode", mock.Anything, "Dothan, AL").Return(&providers.Coordinates{Latitude: 31.2, Longitude: -85.4}, nil)

	rec := httptest.NewRecorder()
	handlers.NewGeolocationHandler(provider).Geocode(rec, httptest.NewRequest(http.MethodGet, "/api/geocode?address=Dothan,+AL", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Dothan, AL", body["address"])
	assert.Equal(t, 31.2, body["lat"])
	assert.Equal(t, -85.4, body["lon"])
}

func TestGeolocationHandler_Errors(t *testing.T) {
	provider := new(MockGeolocationProvider)
	provider.On("Geocode", mock.Anything, "nowhere").Return(nil, providers.ErrNoGeocodeResults)
	provider.On("Geocode", mock.Anything, "rate limited").Return(nil, errors.New("mapbox geocoding error: 429"))
	handler := handlers.NewGeolocationHandler(provider)

	rec := httptest.NewRecorder()
	handler.Geocode(rec, httptest.NewRequest(http.MethodGet, "/api/geocode", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.Geocode(rec, httptest.NewRequest(http.MethodGet, "/api/geocode?address=nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.Geocode(rec, httptest.NewRequest(http.MethodGet, "/api/geocode?address=rate+limited", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
