package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	tsclient "github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/typesense"
)

// documentImporter is the slice of the Typesense client the indexer needs.
// Results come back in document order.
type documentImporter interface {
	Import(ctx context.Context, documents []interface{}) ([]*api.ImportDocumentResponse, error)
}

type collectionImporter struct {
	client *tsclient.Client
}

func (c collectionImporter) Import(ctx context.Context, documents []interface{}) ([]*api.ImportDocumentResponse, error) {
	action := "upsert"
	return c.client.Client().Collection(tsclient.OpportunitiesCollection).Documents().
		Import(ctx, documents, &api.ImportDocumentsParams{Action: &action})
}

// TypesenseAdapter indexes stored opportunities in Typesense.
type TypesenseAdapter struct {
	docs documentImporter
}

var _ providers.OpportunityIndexer = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{docs: collectionImporter{client: client}}
}

// IndexBatch upserts every opportunity that has coordinates and an id in one
// import call. Per-document failures are joined into one error.
func (a *TypesenseAdapter) IndexBatch(ctx context.Context, opportunities []*entities.Opportunity) error {
	var (
		docs []interface{}
		ids  []string
	)
	for _, o := range opportunities {
		doc, ok := opportunityDocument(o)
		if !ok {
			continue
		}
		docs = append(docs, doc)
		ids = append(ids, o.ID)
	}
	if len(docs) == 0 {
		return nil
	}

	results, err := a.docs.Import(ctx, docs)
	if err != nil {
		return fmt.Errorf("index batch of %d: %w", len(docs), err)
	}

	var errs []error
	for i, res := range results {
		if res == nil || res.Success || i >= len(ids) {
			continue
		}
		errs = append(errs, fmt.Errorf("index %s: %s", ids[i], res.Error))
	}
	return errors.Join(errs...)
}

func opportunityDocument(o *entities.Opportunity) (map[string]interface{}, bool) {
	if o == nil || o.ID == "" || !o.HasCoordinates() {
		return nil, false
	}
	requirements := o.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	return map[string]interface{}{
		"id":                    o.ID,
		"name":                  o.Name,
		"type":                  o.Type,
		"location":              o.Location,
		"address":               o.Address,
		"coordinates":           []float64{*o.Latitude, *o.Longitude},
		"acceptance_likelihood": string(o.AcceptanceLikelihood),
		"requirements":          requirements,
		"description":           o.Description,
		"created_at":            o.CreatedAt.Unix(),
	}, true
}
