package domain

import "math"

// Coordinate is a WGS 84 position in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// IsValid reports whether the coordinate is finite and within WGS 84 range.
func (c Coordinate) IsValid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Lerp returns the point at fraction t along the straight segment c→o.
func (c Coordinate) Lerp(o Coordinate, t float64) Coordinate {
	return Coordinate{
		Lat: c.Lat + (o.Lat-c.Lat)*t,
		Lng: c.Lng + (o.Lng-c.Lng)*t,
	}
}

// ScreenPoint is a pixel position on the drawing canvas. Y grows downward.
type ScreenPoint struct {
	X float64 `json:"x" validate:"gte=0"`
	Y float64 `json:"y" validate:"gte=0"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// FilterValid returns a copy of route without invalid coordinates.
func FilterValid(route []Coordinate) []Coordinate {
	out := make([]Coordinate, 0, len(route))
	for _, c := range route {
		if c.IsValid() {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy of route.
func Clone(route []Coordinate) []Coordinate {
	if route == nil {
		return nil
	}
	out := make([]Coordinate, len(route))
	copy(out, route)
	return out
}
