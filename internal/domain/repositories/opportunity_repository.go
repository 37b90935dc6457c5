package repositories

import (
	"context"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
)

// OpportunityFilter narrows a listing. An empty Type or "all" matches every
// type; Search matches name or location case-insensitively.
type OpportunityFilter struct {
	Type   string
	Search string
	Limit  int
	Offset int
}

// OpportunityRepository defines the interface for opportunity data access
type OpportunityRepository interface {
	// ListNamesByType returns the names of every stored opportunity of the type.
	ListNamesByType(ctx context.Context, opportunityType string) ([]string, error)

	// CreateBatch inserts all opportunities in a single statement.
	CreateBatch(ctx context.Context, opportunities []*entities.Opportunity) error

	// List returns one page of opportunities with their rating aggregates.
	List(ctx context.Context, filter OpportunityFilter) ([]*entities.OpportunityListing, error)

	// Count returns the number of opportunities matching the filter, ignoring paging.
	Count(ctx context.Context, filter OpportunityFilter) (int, error)
}
