package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// Location represents a geographic coordinate.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Distance returns the great-circle distance in kilometers between two
// coordinates using the haversine formula. Pure: symmetric in its
// arguments and zero for identical points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceBetween is Distance over Location values.
func DistanceBetween(a, b Location) float64 {
	return Distance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// Round truncates a coordinate pair to three decimal places (~110 m).
// Lookups keyed by a rounded location are stable across small GPS jitter.
func Round(l Location) Location {
	return Location{
		Latitude:  math.Round(l.Latitude*1000) / 1000,
		Longitude: math.Round(l.Longitude*1000) / 1000,
	}
}

// Valid reports whether the coordinate lies within ±90 latitude and
// ±180 longitude.
func Valid(l Location) bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
