package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
)

// GeolocationHandler resolves typed addresses for the map view.
type GeolocationHandler struct {
	provider providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(provider providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{provider: provider}
}

type geocodeResponse struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Geocode handles GET /api/geocode?address=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		respondWithError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	coords, err := h.provider.Geocode(r.Context(), address)
	switch {
	case errors.Is(err, providers.ErrNoGeocodeResults):
		respondWithError(w, http.StatusNotFound, "no location found for address")
		return
	case err != nil:
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("address", address).Msg("geocode lookup failed")
		respondWithError(w, http.StatusBadGateway, "failed to geocode address")
		return
	}

	respondWithJSON(w, http.StatusOK, geocodeResponse{
		Address:   address,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	})
}
