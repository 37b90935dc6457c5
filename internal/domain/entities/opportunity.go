package entities

import "time"

// OpportunityTypeHospital is the type assigned to imported hospitals.
const OpportunityTypeHospital = "hospital"

// DefaultHoursRequired is the weekly commitment advertised for hospital roles.
const DefaultHoursRequired = "4-8 hours/week"

// AcceptanceLikelihood estimates how likely a student applicant is accepted.
type AcceptanceLikelihood string

const (
	AcceptanceHigh   AcceptanceLikelihood = "high"
	AcceptanceMedium AcceptanceLikelihood = "medium"
	AcceptanceLow    AcceptanceLikelihood = "low"
)

// Opportunity is a place a student can volunteer. Name is its identity for
// deduplication during imports.
type Opportunity struct {
	ID                   string               `json:"id" db:"id"`
	Name                 string               `json:"name" db:"name"`
	Type                 string               `json:"type" db:"type"`
	Location             string               `json:"location" db:"location"`
	Address              string               `json:"address" db:"address"`
	Latitude             *float64             `json:"latitude" db:"latitude"`
	Longitude            *float64             `json:"longitude" db:"longitude"`
	Phone                *string              `json:"phone" db:"phone"`
	Email                *string              `json:"email" db:"email"`
	Website              *string              `json:"website" db:"website"`
	HoursRequired        string               `json:"hours_required" db:"hours_required"`
	AcceptanceLikelihood AcceptanceLikelihood `json:"acceptance_likelihood" db:"acceptance_likelihood"`
	Requirements         []string             `json:"requirements" db:"requirements"`
	Description          string               `json:"description" db:"description"`
	CreatedAt            time.Time            `json:"created_at" db:"created_at"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (o *Opportunity) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// OpportunityListing is an opportunity as shown to students, with review
// aggregates and, when the client shared a location, the distance in miles.
type OpportunityListing struct {
	Opportunity
	AvgRating   *float64 `json:"avg_rating" db:"avg_rating"`
	ReviewCount int      `json:"review_count" db:"review_count"`
	Distance    *float64 `json:"distance,omitempty" db:"-"`
}
