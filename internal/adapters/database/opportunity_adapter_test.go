package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/repositories"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/volunteerconnect/backend/pkg/errors"
)

func newMockAdapter(t *testing.T) (*OpportunityAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOpportunityAdapter(postgres.NewFromDB(db)), mock
}

func float64Ptr(v float64) *float64 { return &v }

func TestOpportunityAdapter_ListNamesByType(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "name" FROM "opportunities" WHERE ("type" = 'hospital')`)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("General Hospital").AddRow("Mercy Medical"))

	names, err := adapter.ListNamesByType(context.Background(), entities.OpportunityTypeHospital)

	require.NoError(t, err)
	assert.Equal(t, []string{"General Hospital", "Mercy Medical"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityAdapter_ListNamesByType_Error(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT "name" FROM "opportunities"`).WillReturnError(errors.New("connection reset"))

	_, err := adapter.ListNamesByType(context.Background(), entities.OpportunityTypeHospital)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
}

func TestOpportunityAdapter_CreateBatch_SingleStatement(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	opportunities := []*entities.Opportunity{
		{Name: "General Hospital", Type: "hospital", Latitude: float64Ptr(31.2), Longitude: float64Ptr(-85.3), Requirements: []string{"Background check required"}},
		{Name: "Mercy Medical", Type: "hospital", Latitude: float64Ptr(34.0), Longitude: float64Ptr(-118.2)},
	}

	mock.ExpectExec(`INSERT INTO "opportunities" .* VALUES \(.*\), \(.*\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := adapter.CreateBatch(context.Background(), opportunities)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	for _, o := range opportunities {
		assert.NotEmpty(t, o.ID)
		assert.False(t, o.CreatedAt.IsZero())
	}
}

func TestOpportunityAdapter_CreateBatch_Empty(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	require.NoError(t, adapter.CreateBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityAdapter_CreateBatch_Error(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`INSERT INTO "opportunities"`).WillReturnError(errors.New("unique violation"))

	err := adapter.CreateBatch(context.Background(), []*entities.Opportunity{{Name: "A"}})
	assert.Error(t, err)
}

func TestOpportunityAdapter_List(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	columns := []string{
		"id", "name", "type", "location", "address", "latitude", "longitude",
		"phone", "email", "website", "hours_required", "acceptance_likelihood",
		"requirements", "description", "created_at", "avg_rating", "review_count",
	}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "opportunities_with_ratings" WHERE (("type" = 'hospital') AND (("name" ILIKE '%dothan%') OR ("location" ILIKE '%dothan%'))) ORDER BY "name" ASC LIMIT 20 OFFSET 40`)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"4f1c", "Southeast Health", "hospital", "DOTHAN, AL", "1108 ROSS CLARK CIRCLE, DOTHAN, AL 36301",
			31.2232, -85.3905, "(334) 793-8701", nil, nil, "4-8 hours/week", "high",
			`{"HIPAA compliance training required","Background check required"}`, "desc", created, 4.5, int64(12),
		))

	listings, err := adapter.List(context.Background(), repositories.OpportunityFilter{
		Type: "hospital", Search: "dothan", Limit: 20, Offset: 40,
	})

	require.NoError(t, err)
	require.Len(t, listings, 1)
	l := listings[0]
	assert.Equal(t, "Southeast Health", l.Name)
	assert.Equal(t, 31.2232, *l.Latitude)
	assert.Equal(t, "(334) 793-8701", *l.Phone)
	assert.Nil(t, l.Email)
	assert.Equal(t, entities.AcceptanceHigh, l.AcceptanceLikelihood)
	assert.Equal(t, []string{"HIPAA compliance training required", "Background check required"}, l.Requirements)
	assert.Equal(t, 4.5, *l.AvgRating)
	assert.Equal(t, 12, l.ReviewCount)
	assert.Equal(t, created, l.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityAdapter_Count_AllTypes(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "opportunities_with_ratings"`) + `$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := adapter.Count(context.Background(), repositories.OpportunityFilter{Type: "all"})

	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
