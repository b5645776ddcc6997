package geospatial

import "math"

const (
	earthRadiusKm = 6371.0

	// KmPerDegree is the length of one degree of latitude.
	KmPerDegree = 111.32
)

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineKm(lat1, lon1, lat2, lon2) * 1000
}

// HaversineKm calculates the great-circle distance in kilometres between two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox returns a box around a point extending radiusKm north and south.
// The east-west extent is corrected for meridian convergence and multiplied by aspect
// (width/height of the shape being placed); aspect <= 0 is treated as 1.
func BoundingBox(lat, lon, radiusKm, aspect float64) (minLat, minLon, maxLat, maxLon float64) {
	if aspect <= 0 {
		aspect = 1
	}
	latDelta := radiusKm / KmPerDegree
	lonDelta := latDelta / math.Cos(toRad(lat)) * aspect

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// KmToDegrees converts a ground distance to degrees of latitude.
func KmToDegrees(km float64) float64 {
	return km / KmPerDegree
}

// LngScale returns the factor that converts a latitude-degree offset into a
// longitude-degree offset of the same ground length at lat.
func LngScale(lat float64) float64 {
	c := math.Cos(toRad(lat))
	if c < 1e-6 {
		return 1
	}
	return 1 / c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
