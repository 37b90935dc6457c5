package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/volunteerconnect/backend/pkg/config"
	"github.com/zatekoja/volunteerconnect/backend/pkg/retry"
)

// OpportunitiesCollection holds one document per volunteering opportunity.
const OpportunitiesCollection = "opportunities"

// Client wraps the Typesense client.
type Client struct {
	client *typesense.Client
}

// NewClient connects to Typesense and waits for it to report healthy.
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.Do(ctx, retry.StartupConfig(), "typesense", &log.Logger, func(ctx context.Context) error {
		ok, err := client.Health(ctx, 2*time.Second)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("typesense reported unhealthy")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense: %w", err)
	}

	log.Info().Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema creates the opportunities collection when it is missing.
func (c *Client) InitSchema(ctx context.Context) error {
	if _, err := c.client.Collection(OpportunitiesCollection).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: OpportunitiesCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "type", Type: "string", Facet: pointer.True()},
			{Name: "location", Type: "string", Facet: pointer.True()},
			{Name: "address", Type: "string"},
			{Name: "coordinates", Type: "geopoint"},
			{Name: "acceptance_likelihood", Type: "string", Facet: pointer.True()},
			{Name: "requirements", Type: "string[]", Optional: pointer.True()},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", OpportunitiesCollection, err)
	}

	log.Info().Str("collection", OpportunitiesCollection).Msg("created Typesense collection")
	return nil
}
