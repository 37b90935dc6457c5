package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/cache"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/database"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/events"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/feed"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/providers/geolocation"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/search"
	"github.com/zatekoja/volunteerconnect/backend/internal/application/services"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
	"github.com/zatekoja/volunteerconnect/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var req services.ImportRequest
	flag.IntVar(&req.Limit, "limit", cfg.Import.DefaultLimit, "maximum hospitals to consider")
	flag.StringVar(&req.State, "state", "", "two-letter state filter; empty imports all states")
	flag.IntVar(&req.Offset, "offset", 0, "hospitals to skip before the limit applies")
	flag.Parse()

	observability.InitLogger("volunteer-connect-importer", cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("hospital import is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	var geocodeCache providers.CacheProvider
	var progress providers.ImportProgressPublisher
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, geocoding without cache")
		} else {
			defer redisClient.Close()
			geocodeCache = cache.NewRedisAdapter(redisClient)
			progress = events.NewRedisProgressBus(redisClient)
		}
	}

	geocoder, err := geolocation.NewProvider(cfg.Geolocation, geocodeCache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize geolocation provider")
	}

	importer := services.NewHospitalImportService(
		feed.NewCMSClient(cfg.Feed.URL, cfg.Feed.Timeout, nil),
		geocoder,
		database.NewOpportunityAdapter(pgClient),
		cfg.Import.BatchSize,
		cfg.Import.BatchDelay,
	)

	if progress != nil {
		importer.SetProgressPublisher(progress)
	}

	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("typesense unavailable, search indexing disabled")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to initialize typesense schema, search indexing disabled")
		} else {
			importer.SetIndexer(search.NewTypesenseAdapter(tsClient))
		}
	}

	outcome, err := importer.Import(ctx, req)
	if outcome != nil {
		log.Info().
			Int("imported", outcome.Imported).
			Int("skipped", outcome.Skipped).
			Int("failed", outcome.Failed).
			Int("total", outcome.Total).
			Str("message", outcome.Message).
			Msg("hospital import finished")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("hospital import failed")
	}
}
