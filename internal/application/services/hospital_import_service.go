package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/feed"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/repositories"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/volunteerconnect/backend/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	defaultImportBatchSize  = 10
	defaultImportBatchDelay = 500 * time.Millisecond
)

// ImportRequest selects which hospitals of the feed to import. State is an
// exact match on the two-letter code; empty means every state.
type ImportRequest struct {
	Limit  int
	State  string
	Offset int
}

// HospitalImportService turns the CMS hospital directory into stored
// volunteering opportunities.
type HospitalImportService struct {
	feed       providers.FacilityFeed
	geocoder   providers.GeolocationProvider
	repo       repositories.OpportunityRepository
	indexer    providers.OpportunityIndexer
	progress   providers.ImportProgressPublisher
	metrics    *observability.Metrics
	batchSize  int
	batchDelay time.Duration
	pause      func(ctx context.Context, d time.Duration) error
}

// NewHospitalImportService creates the import orchestrator. Non-positive
// batch sizes fall back to 10 and negative delays to 500ms.
func NewHospitalImportService(
	feed providers.FacilityFeed,
	geocoder providers.GeolocationProvider,
	repo repositories.OpportunityRepository,
	batchSize int,
	batchDelay time.Duration,
) *HospitalImportService {
	if batchSize <= 0 {
		batchSize = defaultImportBatchSize
	}
	if batchDelay < 0 {
		batchDelay = defaultImportBatchDelay
	}
	return &HospitalImportService{
		feed:       feed,
		geocoder:   geocoder,
		repo:       repo,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		pause:      sleepContext,
	}
}

// SetIndexer enables search indexing of committed batches.
func (s *HospitalImportService) SetIndexer(indexer providers.OpportunityIndexer) {
	s.indexer = indexer
}

// SetProgressPublisher enables per-batch progress events.
func (s *HospitalImportService) SetProgressPublisher(publisher providers.ImportProgressPublisher) {
	s.progress = publisher
}

// SetMetrics enables import metrics.
func (s *HospitalImportService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Import runs one import. Errors before the first batch abort the run with
// an AppError. Geocoding and insert failures are counted, never returned.
// If ctx is cancelled between batches the partial outcome is returned
// together with the context error; committed batches stay committed.
func (s *HospitalImportService) Import(ctx context.Context, req ImportRequest) (*entities.ImportOutcome, error) {
	if req.Limit < 0 {
		return nil, apperrors.NewValidationError("limit must not be negative")
	}
	if req.Offset < 0 {
		return nil, apperrors.NewValidationError("offset must not be negative")
	}

	ctx, span := observability.StartSpan(ctx, "hospital_import")
	defer span.End()
	span.SetAttributes(
		attribute.Int("import.limit", req.Limit),
		attribute.Int("import.offset", req.Offset),
		attribute.String("import.state", req.State),
	)

	logger := observability.LoggerFromContext(ctx)
	logger.Info().Int("limit", req.Limit).Str("state", req.State).Int("offset", req.Offset).Msg("starting hospital import")

	text, err := s.feed.FetchCSV(ctx)
	if err != nil {
		appErr := apperrors.NewExternalError("failed to download hospital feed", err)
		observability.RecordError(span, appErr)
		return nil, appErr
	}

	records := feed.ParseFacilityRecords(text)
	logger.Info().Int("bytes", len(text)).Int("hospitals", len(records)).Msg("parsed hospital feed")

	candidates := selectCandidates(records, req)
	span.SetAttributes(attribute.Int("import.candidates", len(candidates)))
	if len(candidates) == 0 {
		return entities.NoHospitalsOutcome(), nil
	}

	names, err := s.repo.ListNamesByType(ctx, entities.OpportunityTypeHospital)
	if err != nil {
		appErr := apperrors.NewInternalError("failed to load existing opportunities", err)
		observability.RecordError(span, appErr)
		return nil, appErr
	}
	existing := NewNameSet(names)
	logger.Info().Int("existing", existing.Len()).Msg("loaded existing hospitals")

	runID := uuid.NewString()
	batches := (len(candidates) + s.batchSize - 1) / s.batchSize

	var outcome entities.ImportOutcome
	for start := 0; start < len(candidates); start += s.batchSize {
		end := min(start+s.batchSize, len(candidates))

		batch := s.processBatch(ctx, candidates[start:end], existing)
		outcome = outcome.Merge(batch)

		logger.Info().
			Int("batch", start/s.batchSize+1).
			Int("imported", batch.Imported).
			Int("skipped", batch.Skipped).
			Int("failed", batch.Failed).
			Int("progress", outcome.Processed()).
			Int("total", len(candidates)).
			Msg("processed hospital batch")
		s.publishProgress(ctx, runID, start/s.batchSize+1, batches, outcome, len(candidates), false)

		if end < len(candidates) {
			if err := s.pause(ctx, s.batchDelay); err != nil {
				outcome.Total = len(candidates)
				observability.RecordError(span, err)
				logger.Warn().Err(err).Int("processed", outcome.Processed()).Msg("hospital import aborted")
				return &outcome, err
			}
		}
	}

	outcome = outcome.Finish(len(candidates))
	span.SetAttributes(
		attribute.Int("import.imported", outcome.Imported),
		attribute.Int("import.skipped", outcome.Skipped),
		attribute.Int("import.failed", outcome.Failed),
	)
	logger.Info().Int("imported", outcome.Imported).Int("skipped", outcome.Skipped).Int("failed", outcome.Failed).Msg(outcome.Message)
	s.publishProgress(ctx, runID, batches, batches, outcome, len(candidates), true)

	return &outcome, nil
}

// processBatch skips known names, geocodes the rest concurrently and
// inserts the successes with one write.
func (s *HospitalImportService) processBatch(ctx context.Context, batch []entities.FacilityRecord, existing *NameSet) entities.BatchOutcome {
	var result entities.BatchOutcome

	pending := make([]entities.FacilityRecord, 0, len(batch))
	for _, rec := range batch {
		if existing.Contains(rec.FacilityName) {
			result.Skipped++
			continue
		}
		pending = append(pending, rec)
	}

	geocoded := make([]*entities.Opportunity, len(pending))
	var g errgroup.Group
	g.SetLimit(s.batchSize)
	for i, rec := range pending {
		g.Go(func() error {
			coords, err := s.geocode(ctx, FullAddress(rec))
			if err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).
					Str("facility_id", rec.FacilityID).
					Str("facility", rec.FacilityName).
					Msg("geocoding failed")
				return nil
			}
			geocoded[i] = NewHospitalOpportunity(rec, *coords)
			return nil
		})
	}
	_ = g.Wait()

	ready := make([]*entities.Opportunity, 0, len(geocoded))
	for _, o := range geocoded {
		if o != nil {
			ready = append(ready, o)
		}
	}
	result.Failed += len(pending) - len(ready)

	if len(ready) > 0 {
		if err := s.repo.CreateBatch(ctx, ready); err != nil {
			observability.LoggerFromContext(ctx).Error().Err(err).Int("count", len(ready)).Msg("failed to insert hospital batch")
			result.Failed += len(ready)
		} else {
			result.Imported += len(ready)
			s.index(ctx, ready)
		}
	}

	observability.RecordImportOutcome(ctx, s.metrics, observability.OutcomeImported, result.Imported)
	observability.RecordImportOutcome(ctx, s.metrics, observability.OutcomeSkipped, result.Skipped)
	observability.RecordImportOutcome(ctx, s.metrics, observability.OutcomeFailed, result.Failed)

	return result
}

func (s *HospitalImportService) geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	start := time.Now()
	coords, err := s.geocoder.Geocode(ctx, address)
	observability.RecordGeocode(ctx, s.metrics, time.Since(start), err == nil)
	return coords, err
}

func (s *HospitalImportService) index(ctx context.Context, opportunities []*entities.Opportunity) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexBatch(ctx, opportunities); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Int("count", len(opportunities)).Msg("failed to index hospital batch")
	}
}

func (s *HospitalImportService) publishProgress(ctx context.Context, runID string, batch, batches int, outcome entities.ImportOutcome, total int, done bool) {
	if s.progress == nil {
		return
	}
	event := &entities.ImportProgress{
		RunID:     runID,
		Batch:     batch,
		Batches:   batches,
		Imported:  outcome.Imported,
		Skipped:   outcome.Skipped,
		Failed:    outcome.Failed,
		Processed: outcome.Processed(),
		Total:     total,
		Done:      done,
		Timestamp: time.Now().UTC(),
	}
	if err := s.progress.PublishProgress(ctx, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("run_id", runID).Msg("failed to publish import progress")
	}
}

// selectCandidates applies the state filter and the offset/limit window.
func selectCandidates(records []entities.FacilityRecord, req ImportRequest) []entities.FacilityRecord {
	if req.State != "" {
		filtered := make([]entities.FacilityRecord, 0, len(records))
		for _, rec := range records {
			if rec.State == req.State {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	start := min(req.Offset, len(records))
	end := len(records)
	if req.Limit < end-start {
		end = start + req.Limit
	}
	return records[start:end]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
