package entities

// CSV column names of the CMS Hospital General Information export.
const (
	ColumnFacilityID        = "Facility ID"
	ColumnFacilityName      = "Facility Name"
	ColumnAddress           = "Address"
	ColumnCity              = "City/Town"
	ColumnState             = "State"
	ColumnZIPCode           = "ZIP Code"
	ColumnCounty            = "County/Parish"
	ColumnTelephone         = "Telephone Number"
	ColumnHospitalType      = "Hospital Type"
	ColumnHospitalOwnership = "Hospital Ownership"
	ColumnEmergencyServices = "Emergency Services"
	ColumnOverallRating     = "Hospital overall rating"
)

// RatingNotAvailable is the placeholder CMS uses for unrated hospitals.
const RatingNotAvailable = "Not Available"

// FacilityRecord is one hospital row from the CMS directory. Columns that
// were absent from a row are empty strings.
type FacilityRecord struct {
	FacilityID        string
	FacilityName      string
	Address           string
	City              string
	State             string
	ZIPCode           string
	County            string
	Telephone         string
	HospitalType      string
	HospitalOwnership string
	EmergencyServices string
	OverallRating     string
}

// HasEmergencyServices reports whether the row advertises an emergency department.
func (r FacilityRecord) HasEmergencyServices() bool {
	return r.EmergencyServices == "Yes"
}

// HasRating reports whether the row carries a usable overall rating.
func (r FacilityRecord) HasRating() bool {
	return r.OverallRating != "" && r.OverallRating != RatingNotAvailable
}
