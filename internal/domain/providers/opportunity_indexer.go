package providers

import (
	"context"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
)

// OpportunityIndexer pushes stored opportunities to the search engine.
type OpportunityIndexer interface {
	IndexBatch(ctx context.Context, opportunities []*entities.Opportunity) error
}
