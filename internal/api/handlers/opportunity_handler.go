package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/volunteerconnect/backend/internal/application/services"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
)

// OpportunityLister serves paginated opportunity listings.
type OpportunityLister interface {
	List(ctx context.Context, params services.ListOpportunitiesParams) (*services.OpportunityPage, error)
}

// OpportunityHandler handles the opportunity listing endpoint.
type OpportunityHandler struct {
	service OpportunityLister
}

// NewOpportunityHandler creates a new opportunity handler
func NewOpportunityHandler(service OpportunityLister) *OpportunityHandler {
	return &OpportunityHandler{service: service}
}

// ListOpportunities handles GET /api/opportunities
func (h *OpportunityHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := services.ListOpportunitiesParams{
		Type:   strings.TrimSpace(query.Get("type")),
		Search: strings.TrimSpace(query.Get("q")),
	}

	var err error
	if params.Page, err = intParam(query.Get("page")); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid page parameter")
		return
	}
	if params.PageSize, err = intParam(query.Get("page_size")); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid page_size parameter")
		return
	}

	latStr, lngStr := strings.TrimSpace(query.Get("lat")), strings.TrimSpace(query.Get("lng"))
	if latStr != "" || lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			respondWithError(w, http.StatusBadRequest, "lat and lng must both be valid coordinates")
			return
		}
		params.Origin = &providers.Coordinates{Latitude: lat, Longitude: lng}
	}

	page, err := h.service.List(r.Context(), params)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

func intParam(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
