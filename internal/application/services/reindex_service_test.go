package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/volunteerconnect/backend/internal/application/services"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/repositories"
)

func listings(ids ...string) []*entities.OpportunityListing {
	out := make([]*entities.OpportunityListing, 0, len(ids))
	for _, id := range ids {
		out = append(out, &entities.OpportunityListing{Opportunity: entities.Opportunity{ID: id, Name: "Hospital " + id}})
	}
	return out
}

func TestReindexService_WalksAllPages(t *testing.T) {
	repo := new(MockOpportunityRepository)
	indexer := new(MockOpportunityIndexer)

	repo.On("List", mock.Anything, repositories.OpportunityFilter{Type: "all", Limit: 2, Offset: 0}).Return(listings("a", "b"), nil)
	repo.On("List", mock.Anything, repositories.OpportunityFilter{Type: "all", Limit: 2, Offset: 2}).Return(listings("c"), nil)
	indexer.On("IndexBatch", mock.Anything, mock.Anything).Return(nil)

	total, err := services.NewReindexService(repo, indexer, 2).Reindex(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	indexer.AssertNumberOfCalls(t, "IndexBatch", 2)
	first := indexer.Calls[0].Arguments.Get(1).([]*entities.Opportunity)
	assert.Equal(t, []string{"Hospital a", "Hospital b"}, names(first))
	repo.AssertExpectations(t)
}

func TestReindexService_IndexFailureContinues(t *testing.T) {
	repo := new(MockOpportunityRepository)
	indexer := new(MockOpportunityIndexer)

	repo.On("List", mock.Anything, repositories.OpportunityFilter{Type: "all", Limit: 1, Offset: 0}).Return(listings("a"), nil)
	repo.On("List", mock.Anything, repositories.OpportunityFilter{Type: "all", Limit: 1, Offset: 1}).Return(listings(), nil)
	indexer.On("IndexBatch", mock.Anything, mock.Anything).Return(errors.New("typesense down"))

	total, err := services.NewReindexService(repo, indexer, 1).Reindex(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestReindexService_StoreFailureStops(t *testing.T) {
	repo := new(MockOpportunityRepository)
	indexer := new(MockOpportunityIndexer)

	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := services.NewReindexService(repo, indexer, 10).Reindex(context.Background())

	assert.ErrorContains(t, err, "offset 0")
	indexer.AssertNotCalled(t, "IndexBatch", mock.Anything, mock.Anything)
}
