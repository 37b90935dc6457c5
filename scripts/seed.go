package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/database"
	"github.com/zatekoja/volunteerconnect/backend/internal/adapters/search"
	"github.com/zatekoja/volunteerconnect/backend/internal/application/services"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
	"github.com/zatekoja/volunteerconnect/backend/pkg/config"
)

// Sample hospitals for local development, in the CMS export's shape.
var sampleHospitals = []struct {
	record entities.FacilityRecord
	coords providers.Coordinates
}{
	{
		record: entities.FacilityRecord{
			FacilityID: "010001", FacilityName: "SOUTHEAST HEALTH MEDICAL CENTER",
			Address: "1108 ROSS CLARK CIRCLE", City: "DOTHAN", State: "AL", ZIPCode: "36301",
			County: "HOUSTON", Telephone: "(334) 793-8701", HospitalType: "Acute Care Hospitals",
			HospitalOwnership: "Government - Hospital District or Authority", EmergencyServices: "Yes", OverallRating: "3",
		},
		coords: providers.Coordinates{Latitude: 31.2156, Longitude: -85.3615},
	},
	{
		record: entities.FacilityRecord{
			FacilityID: "050454", FacilityName: "UCSF MEDICAL CENTER",
			Address: "505 PARNASSUS AVE", City: "SAN FRANCISCO", State: "CA", ZIPCode: "94143",
			County: "SAN FRANCISCO", Telephone: "(415) 476-1000", HospitalType: "Acute Care Hospitals",
			HospitalOwnership: "Government - State", EmergencyServices: "Yes", OverallRating: "5",
		},
		coords: providers.Coordinates{Latitude: 37.7631, Longitude: -122.4575},
	},
	{
		record: entities.FacilityRecord{
			FacilityID: "330101", FacilityName: "NEW YORK-PRESBYTERIAN HOSPITAL",
			Address: "525 EAST 68TH STREET", City: "NEW YORK", State: "NY", ZIPCode: "10065",
			County: "NEW YORK", Telephone: "(212) 746-5454", HospitalType: "Acute Care Hospitals",
			HospitalOwnership: "Voluntary non-profit - Private", EmergencyServices: "Yes", OverallRating: "4",
		},
		coords: providers.Coordinates{Latitude: 40.7644, Longitude: -73.9540},
	},
	{
		record: entities.FacilityRecord{
			FacilityID: "450068", FacilityName: "MEMORIAL HERMANN HOSPITAL SYSTEM",
			Address: "1635 NORTH LOOP WEST", City: "HOUSTON", State: "TX", ZIPCode: "77008",
			County: "HARRIS", Telephone: "(713) 448-5555", HospitalType: "Critical Access Hospitals",
			HospitalOwnership: "Voluntary non-profit - Private", EmergencyServices: "No", OverallRating: "Not Available",
		},
		coords: providers.Coordinates{Latitude: 29.8091, Longitude: -95.4113},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("volunteer-connect-seed", cfg.Env)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating opportunities before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE opportunities RESTART IDENTITY CASCADE`); err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	repo := database.NewOpportunityAdapter(pgClient)

	existing, err := repo.ListNamesByType(ctx, entities.OpportunityTypeHospital)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load existing opportunities")
	}
	known := services.NewNameSet(existing)

	var opportunities []*entities.Opportunity
	for _, h := range sampleHospitals {
		if known.Contains(h.record.FacilityName) {
			continue
		}
		opportunities = append(opportunities, services.NewHospitalOpportunity(h.record, h.coords))
	}
	if len(opportunities) == 0 {
		log.Info().Msg("sample hospitals already present, nothing to seed")
		return
	}

	if err := repo.CreateBatch(ctx, opportunities); err != nil {
		log.Fatal().Err(err).Msg("failed to seed opportunities")
	}
	log.Info().Int("count", len(opportunities)).Msg("seeded opportunities")

	if cfg.Typesense.URL == "" {
		return
	}
	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("typesense unavailable, skipping search seed")
		return
	}
	if err := tsClient.InitSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to initialize typesense schema")
		return
	}
	if err := search.NewTypesenseAdapter(tsClient).IndexBatch(ctx, opportunities); err != nil {
		log.Warn().Err(err).Msg("failed to index seeded opportunities")
	}
}
