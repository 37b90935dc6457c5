package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/cache"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/database"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/events"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/feed"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/providers/geolocation"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/search"
	"github.com/zatekoja/volunteerconnect/backend/internal/api/handlers"
	"github.com/zatekoja/volunteerconnect/backend/internal/api/middleware"
	"github.com/zatekoja/volunteerconnect/backend/internal/api/routes"
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

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	configErr := cfg.Validate()
	if configErr != nil {
		log.Error().Err(configErr).Msg("hospital import is not configured; import requests will be rejected")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis backs the geocode cache, the response cache and idempotency keys.
	// Everything still works without it.
	var cacheProvider providers.CacheProvider
	var progressBus *events.RedisProgressBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			progressBus = events.NewRedisProgressBus(redisClient)
		}
	}

	var indexer providers.OpportunityIndexer
	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("typesense unavailable, search indexing disabled")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to initialize typesense schema, search indexing disabled")
		} else {
			indexer = search.NewTypesenseAdapter(tsClient)
		}
	}

	geocoder, err := geolocation.NewProvider(cfg.Geolocation, cacheProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize geolocation provider")
	}

	opportunityRepo := database.NewOpportunityAdapter(pgClient)

	var importHandler *handlers.HospitalImportHandler
	if configErr != nil {
		importHandler = handlers.NewMisconfiguredImportHandler(configErr)
	} else {
		importService := services.NewHospitalImportService(
			feed.NewCMSClient(cfg.Feed.URL, cfg.Feed.Timeout, nil),
			geocoder,
			opportunityRepo,
			cfg.Import.BatchSize,
			cfg.Import.BatchDelay,
		)
		importService.SetMetrics(metrics)
		if indexer != nil {
			importService.SetIndexer(indexer)
		}
		if progressBus != nil {
			importService.SetProgressPublisher(progressBus)
		}
		importHandler = handlers.NewHospitalImportHandler(importService, cacheProvider, cfg.Import.DefaultLimit, cfg.Import.IdempotencyTTL)
	}

	var progressHandler *handlers.ImportProgressHandler
	if progressBus != nil {
		progressHandler = handlers.NewImportProgressHandler(progressBus, 0)
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, middleware.DefaultRouteCaches(), metrics)
	}

	router := routes.NewRouter(
		importHandler,
		handlers.NewOpportunityHandler(services.NewOpportunityService(opportunityRepo)),
		handlers.NewGeolocationHandler(geocoder),
		progressHandler,
		cacheMiddleware,
		cfg.CORS.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		// A full import geocodes and stores hundreds of rows inside one
		// request; progress streams reconnect when this cuts them off.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
