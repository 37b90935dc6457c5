package services

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
)

// AcceptanceLikelihoodFromRating maps a CMS star rating to a likelihood.
// Only the leading integer of the rating is considered, so "4.8" counts
// as 4; ratings without one are treated as medium.
func AcceptanceLikelihoodFromRating(rating string) entities.AcceptanceLikelihood {
	stars, ok := leadingInt(rating)
	switch {
	case !ok:
		return entities.AcceptanceMedium
	case stars >= 4:
		return entities.AcceptanceHigh
	case stars >= 3:
		return entities.AcceptanceMedium
	default:
		return entities.AcceptanceLow
	}
}

// BuildRequirements lists what a volunteer needs for the hospital.
func BuildRequirements(rec entities.FacilityRecord) []string {
	requirements := make([]string, 0, 5)
	if rec.HasEmergencyServices() {
		requirements = append(requirements, "Emergency services available")
	}
	if rec.HasRating() {
		requirements = append(requirements, fmt.Sprintf("CMS Rating: %s/5 stars", rec.OverallRating))
	}
	return append(requirements,
		"HIPAA compliance training required",
		"Background check required",
		"Minimum 18 years old",
	)
}

// BuildDescription renders the student-facing summary of a hospital.
func BuildDescription(rec entities.FacilityRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s located in %s, %s.",
		rec.FacilityName, strings.ToLower(rec.HospitalType), rec.City, rec.State)

	if rec.HospitalOwnership != "" {
		fmt.Fprintf(&b, " This %s facility", strings.ToLower(rec.HospitalOwnership))
	}

	if rec.HasEmergencyServices() {
		b.WriteString(" offers emergency services.")
	} else {
		b.WriteString(" provides healthcare services to the community.")
	}

	if rec.HasRating() {
		fmt.Fprintf(&b, " The facility has a CMS overall rating of %s out of 5 stars.", rec.OverallRating)
	}

	return b.String()
}

// FullAddress is the geocoding query and stored address of a hospital.
func FullAddress(rec entities.FacilityRecord) string {
	return fmt.Sprintf("%s, %s, %s %s", rec.Address, rec.City, rec.State, rec.ZIPCode)
}

// NewHospitalOpportunity builds the opportunity stored for a geocoded hospital.
func NewHospitalOpportunity(rec entities.FacilityRecord, coords providers.Coordinates) *entities.Opportunity {
	lat, lon := coords.Latitude, coords.Longitude

	var phone *string
	if rec.Telephone != "" {
		p := rec.Telephone
		phone = &p
	}

	return &entities.Opportunity{
		Name:                 rec.FacilityName,
		Type:                 entities.OpportunityTypeHospital,
		Location:             fmt.Sprintf("%s, %s", rec.City, rec.State),
		Address:              FullAddress(rec),
		Latitude:             &lat,
		Longitude:            &lon,
		Phone:                phone,
		HoursRequired:        entities.DefaultHoursRequired,
		AcceptanceLikelihood: AcceptanceLikelihoodFromRating(rec.OverallRating),
		Requirements:         BuildRequirements(rec),
		Description:          BuildDescription(rec),
	}
}

// leadingInt parses an optionally signed run of digits after leading
// whitespace and ignores whatever follows it.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Out of int range; the sign still decides the bucket.
		if s[0] == '-' {
			return -1, true
		}
		return 5, true
	}
	return n, true
}
