package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/repositories"
)

const defaultReindexPageSize = 250

// ReindexService copies stored opportunities into the search index.
type ReindexService struct {
	repo     repositories.OpportunityRepository
	indexer  providers.OpportunityIndexer
	pageSize int
}

// NewReindexService creates a reindexer reading pageSize rows at a time.
func NewReindexService(repo repositories.OpportunityRepository, indexer providers.OpportunityIndexer, pageSize int) *ReindexService {
	if pageSize <= 0 {
		pageSize = defaultReindexPageSize
	}
	return &ReindexService{repo: repo, indexer: indexer, pageSize: pageSize}
}

// Reindex walks every stored opportunity and returns how many were read.
// Index failures for a page are logged and the walk continues; a store
// failure stops it.
func (s *ReindexService) Reindex(ctx context.Context) (int, error) {
	total := 0
	for offset := 0; ; offset += s.pageSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		listings, err := s.repo.List(ctx, repositories.OpportunityFilter{Type: "all", Limit: s.pageSize, Offset: offset})
		if err != nil {
			return total, fmt.Errorf("failed to list opportunities at offset %d: %w", offset, err)
		}
		if len(listings) == 0 {
			return total, nil
		}

		page := make([]*entities.Opportunity, 0, len(listings))
		for _, l := range listings {
			if l != nil {
				o := l.Opportunity
				page = append(page, &o)
			}
		}
		if err := s.indexer.IndexBatch(ctx, page); err != nil {
			log.Warn().Err(err).Int("offset", offset).Msg("failed to index opportunities page")
		}
		total += len(page)

		if len(listings) < s.pageSize {
			return total, nil
		}
	}
}
