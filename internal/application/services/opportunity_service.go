package services

import (
	"context"
	"sort"

	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/providers/geolocation"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/volunteerconnect/backend/pkg/errors"
)

// DefaultPageSize is the listing page size used when none is requested.
const DefaultPageSize = 20

const maxPageSize = 100

// maxPage bounds page so page*pageSize cannot overflow.
const maxPage = 100000

// ListOpportunitiesParams selects one page of opportunities. Origin, when
// set, is the student's location used for distance sorting.
type ListOpportunitiesParams struct {
	Type     string
	Search   string
	Page     int
	PageSize int
	Origin   *providers.Coordinates
}

// OpportunityPage is one page of the listing.
type OpportunityPage struct {
	Opportunities []*entities.OpportunityListing `json:"opportunities"`
	TotalCount    int                            `json:"total_count"`
	HasMore       bool                           `json:"has_more"`
	Page          int                            `json:"page"`
}

// OpportunityService serves the student-facing opportunity listing.
type OpportunityService struct {
	repo repositories.OpportunityRepository
}

// NewOpportunityService creates a new opportunity service
func NewOpportunityService(repo repositories.OpportunityRepository) *OpportunityService {
	return &OpportunityService{repo: repo}
}

// List returns one page ordered by name, or by distance from Origin with
// unlocated opportunities last. HasMore is true whenever the page is full.
func (s *OpportunityService) List(ctx context.Context, params ListOpportunitiesParams) (*OpportunityPage, error) {
	if params.Page < 0 {
		return nil, apperrors.NewValidationError("page must not be negative")
	}
	if params.Page > maxPage {
		return nil, apperrors.NewValidationError("page must not exceed 100000")
	}
	if params.PageSize == 0 {
		params.PageSize = DefaultPageSize
	}
	if params.PageSize < 0 || params.PageSize > maxPageSize {
		return nil, apperrors.NewValidationError("page_size must be between 1 and 100")
	}

	filter := repositories.OpportunityFilter{
		Type:   params.Type,
		Search: params.Search,
		Limit:  params.PageSize,
		Offset: params.Page * params.PageSize,
	}

	listings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	if params.Origin != nil {
		sortByDistance(listings, *params.Origin)
	}

	return &OpportunityPage{
		Opportunities: listings,
		TotalCount:    total,
		HasMore:       len(listings) == params.PageSize,
		Page:          params.Page,
	}, nil
}

func sortByDistance(listings []*entities.OpportunityListing, origin providers.Coordinates) {
	for _, l := range listings {
		if !l.HasCoordinates() {
			l.Distance = nil
			continue
		}
		d := geolocation.DistanceMiles(origin, providers.Coordinates{Latitude: *l.Latitude, Longitude: *l.Longitude})
		l.Distance = &d
	}

	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i].Distance, listings[j].Distance
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}
