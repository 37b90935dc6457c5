package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/database"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/search"
	"github.com/zatekoja/volunteerconnect/backend/internal/application/services"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
	"github.com/zatekoja/volunteerconnect/backend/pkg/config"
)

func main() {
	var reset bool
	var intervalFlag string
	var pageSize int
	flag.BoolVar(&reset, "reset", false, "delete the opportunities collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.IntVar(&pageSize, "page-size", 250, "rows read from the store per index request")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("volunteer-connect-indexer", cfg.Env)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset, pageSize); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			return
		}

		reset = false
		log.Info().Dur("next_in", interval).Msg("reindex complete")
		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool, pageSize int) error {
	if cfg.Typesense.URL == "" {
		return fmt.Errorf("TYPESENSE_URL not configured")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Str("collection", typesense.OpportunitiesCollection).Msg("deleting collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.OpportunitiesCollection).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	reindexer := services.NewReindexService(
		database.NewOpportunityAdapter(pgClient),
		search.NewTypesenseAdapter(tsClient),
		pageSize,
	)

	start := time.Now()
	total, err := reindexer.Reindex(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("opportunities", total).Dur("duration", time.Since(start)).Msg("opportunities indexed")
	return nil
}
