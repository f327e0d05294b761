// Package geo provides great-circle distance helpers for center matching.
package geo

import "math"

const earthRadiusKm = 6371

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultLocation is used when a caller does not supply a position.
// Matches the booking flow's Delhi fallback.
var DefaultLocation = Coordinates{Lat: 28.6139, Lng: 77.2090}

// Distance returns the haversine distance between two points in kilometers,
// rounded to one decimal.
func Distance(a, b Coordinates) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusKm*c*10) / 10
}

// Resolve returns the supplied position when both fields are set, or the
// default fallback otherwise.
func Resolve(lat, lng *float64) Coordinates {
	if lat != nil && lng != nil {
		return Coordinates{Lat: *lat, Lng: *lng}
	}
	return DefaultLocation
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
