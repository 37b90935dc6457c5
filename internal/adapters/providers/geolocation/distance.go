package geolocation

import (
	"math"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
)

// EarthRadiusMiles is the mean Earth radius used for distance sorting.
const EarthRadiusMiles = 3959.0

// DistanceMiles returns the great-circle distance between two points.
func DistanceMiles(from, to providers.Coordinates) float64 {
	dLat := toRadians(to.Latitude - from.Latitude)
	dLon := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(from.Latitude))*math.Cos(toRadians(to.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
