package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/repositories"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/volunteerconnect/backend/pkg/errors"
)

const (
	opportunitiesTable = "opportunities"
	// opportunitiesView joins opportunities with their review aggregates.
	opportunitiesView = "opportunities_with_ratings"
)

// OpportunityAdapter implements OpportunityRepository on PostgreSQL.
type OpportunityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.OpportunityRepository = (*OpportunityAdapter)(nil)

// NewOpportunityAdapter creates a new opportunity adapter
func NewOpportunityAdapter(client *postgres.Client) *OpportunityAdapter {
	return &OpportunityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListNamesByType returns every stored name of the given type.
func (a *OpportunityAdapter) ListNamesByType(ctx context.Context, opportunityType string) ([]string, error) {
	query, args, err := a.db.Select("name").
		From(opportunitiesTable).
		Where(goqu.C("type").Eq(opportunityType)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list opportunity names", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewInternalError("failed to scan opportunity name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list opportunity names", err)
	}

	return names, nil
}

// CreateBatch inserts all opportunities with one multi-row INSERT. Missing
// ids and creation times are filled in on the entities.
func (a *OpportunityAdapter) CreateBatch(ctx context.Context, opportunities []*entities.Opportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	now := time.Now().UTC()
	records := make([]interface{}, 0, len(opportunities))
	for _, o := range opportunities {
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		records = append(records, goqu.Record{
			"id":                    o.ID,
			"name":                  o.Name,
			"type":                  o.Type,
			"location":              o.Location,
			"address":               o.Address,
			"latitude":              nullFloat(o.Latitude),
			"longitude":             nullFloat(o.Longitude),
			"phone":                 nullString(o.Phone),
			"email":                 nullString(o.Email),
			"website":               nullString(o.Website),
			"hours_required":        o.HoursRequired,
			"acceptance_likelihood": string(o.AcceptanceLikelihood),
			"requirements":          pq.Array(o.Requirements),
			"description":           o.Description,
			"created_at":            o.CreatedAt,
		})
	}

	query, args, err := a.db.Insert(opportunitiesTable).Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert opportunities", err)
	}

	return nil
}

// List returns one page of the ratings view ordered by name.
func (a *OpportunityAdapter) List(ctx context.Context, filter repositories.OpportunityFilter) ([]*entities.OpportunityListing, error) {
	ds := a.db.Select(
		"id", "name", "type", "location", "address", "latitude", "longitude",
		"phone", "email", "website", "hours_required", "acceptance_likelihood",
		"requirements", "description", "created_at", "avg_rating", "review_count",
	).From(opportunitiesView).
		Where(filterConditions(filter)...).
		Order(goqu.C("name").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list opportunities", err)
	}
	defer rows.Close()

	listings := make([]*entities.OpportunityListing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan opportunity", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list opportunities", err)
	}

	return listings, nil
}

// Count returns the exact number of rows matching the filter.
func (a *OpportunityAdapter) Count(ctx context.Context, filter repositories.OpportunityFilter) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From(opportunitiesView).
		Where(filterConditions(filter)...).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count opportunities", err)
	}
	return count, nil
}

func filterConditions(filter repositories.OpportunityFilter) []exp.Expression {
	var conds []exp.Expression
	if t := strings.TrimSpace(filter.Type); t != "" && t != "all" {
		conds = append(conds, goqu.C("type").Eq(t))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		pattern := "%" + q + "%"
		conds = append(conds, goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("location").ILike(pattern),
		))
	}
	return conds
}

func scanListing(rows *sql.Rows) (*entities.OpportunityListing, error) {
	var (
		l                     entities.OpportunityListing
		lat, lon, avgRating   sql.NullFloat64
		phone, email, website sql.NullString
		likelihood            string
		requirements          pq.StringArray
		reviewCount           sql.NullInt64
	)

	err := rows.Scan(
		&l.ID, &l.Name, &l.Type, &l.Location, &l.Address, &lat, &lon,
		&phone, &email, &website, &l.HoursRequired, &likelihood,
		&requirements, &l.Description, &l.CreatedAt, &avgRating, &reviewCount,
	)
	if err != nil {
		return nil, err
	}

	l.Latitude = floatPtr(lat)
	l.Longitude = floatPtr(lon)
	l.Phone = stringPtr(phone)
	l.Email = stringPtr(email)
	l.Website = stringPtr(website)
	l.AcceptanceLikelihood = entities.AcceptanceLikelihood(likelihood)
	l.Requirements = []string(requirements)
	l.AvgRating = floatPtr(avgRating)
	l.ReviewCount = int(reviewCount.Int64)

	return &l, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
