package services_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/repositories"
)

// Mocks

type MockFacilityFeed struct {
	mock.Mock
}

func (m *MockFacilityFeed) FetchCSV(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockGeolocationProvider struct {
	mock.Mock
}

func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.Coordinates), args.Error(1)
}

type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) ListNamesByType(ctx context.Context, opportunityType string) ([]string, error) {
	args := m.Called(ctx, opportunityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOpportunityRepository) CreateBatch(ctx context.Context, opportunities []*entities.Opportunity) error {
	args := m.Called(ctx, opportunities)
	return args.Error(0)
}

func (m *MockOpportunityRepository) List(ctx context.Context, filter repositories.OpportunityFilter) ([]*entities.OpportunityListing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.OpportunityListing), args.Error(1)
}

func (m *MockOpportunityRepository) Count(ctx context.Context, filter repositories.OpportunityFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

type MockOpportunityIndexer struct {
	mock.Mock
}

func (m *MockOpportunityIndexer) IndexBatch(ctx context.Context, opportunities []*entities.Opportunity) error {
	args := m.Called(ctx, opportunities)
	return args.Error(0)
}

type MockProgressPublisher struct {
	mock.Mock
}

func (m *MockProgressPublisher) PublishProgress(ctx context.Context, progress *entities.ImportProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

// Fixtures

const feedHeader = "Facility ID,Facility Name,Address,City/Town,State,ZIP Code,County/Parish,Telephone Number,Hospital Type,Hospital Ownership,Emergency Services,Hospital overall rating"

type hospitalRow struct {
	id, name, state string
}

func (h hospitalRow) address() string {
	return fmt.Sprintf("%s Main St, Springfield, %s 00000", h.id, h.state)
}

func buildFeed(rows ...hospitalRow) string {
	var b strings.Builder
	b.WriteString(feedHeader + "\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%s,%s Main St,Springfield,%s,00000,County,(555) 000-0000,Acute Care Hospitals,Proprietary,Yes,4\n",
			r.id, r.name, r.id, r.state)
	}
	return b.String()
}

func numberedRows(n int, state string) []hospitalRow {
	rows := make([]hospitalRow, n)
	for i := range rows {
		rows[i] = hospitalRow{id: fmt.Sprintf("%03d", i), name: fmt.Sprintf("Hospital %03d", i), state: state}
	}
	return rows
}

func names(opportunities []*entities.Opportunity) []string {
	out := make([]string, len(opportunities))
	for i, o := range opportunities {
		out[i] = o.Name
	}
	return out
}
