package pathing

import (
	"log/slog"
	"math"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/pkg/geospatial"
)

// Reference drawing surface size in screen units.
const (
	CanvasWidth  = 800.0
	CanvasHeight = 600.0
)

// DefaultRadiusKm is used when an anchored projection is requested without a radius.
const DefaultRadiusKm = 10.0

// DefaultBounds is the region drawings are placed on when no anchor is given.
var DefaultBounds = domain.Bounds{
	MinLat: 48.815,
	MaxLat: 48.905,
	MinLng: 2.25,
	MaxLng: 2.42,
}

// DensityFactor returns the keep-every-Nth stride for a drawing of n points.
func DensityFactor(n int) int {
	switch {
	case n <= 50:
		return 1
	case n <= 100:
		return 2
	case n <= 200:
		return 3
	default:
		return int(math.Ceil(float64(n) / 50))
	}
}

// DownSample keeps every DensityFactor(len(points))-th point plus the last one.
func DownSample[T any](points []T) []T {
	f := DensityFactor(len(points))
	if f <= 1 {
		return append([]T(nil), points...)
	}
	out := make([]T, 0, len(points)/f+1)
	for i, p := range points {
		if i%f == 0 || i == len(points)-1 {
			out = append(out, p)
		}
	}
	return out
}

// AspectRatio returns the width/height ratio of the drawing's extent, or 1 when it has no height.
func AspectRatio(points []domain.ScreenPoint) float64 {
	if len(points) == 0 {
		return 1
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if maxY-minY == 0 {
		return 1
	}
	return (maxX - minX) / (maxY - minY)
}

// BoundsFor returns the map region a drawing is projected onto.
func BoundsFor(points []domain.ScreenPoint, anchor *domain.Coordinate, radiusKm float64) domain.Bounds {
	if anchor == nil {
		return DefaultBounds
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	minLat, minLng, maxLat, maxLng := geospatial.BoundingBox(anchor.Lat, anchor.Lng, radiusKm, AspectRatio(points))
	return domain.Bounds{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
}

// Project maps canvas points to coordinates. Dense drawings are down-sampled
// first. Points that land outside WGS 84 range are dropped.
func Project(points []domain.ScreenPoint, anchor *domain.Coordinate, radiusKm float64) []domain.Coordinate {
	b := BoundsFor(points, anchor, radiusKm)
	sampled := DownSample(points)

	out := make([]domain.Coordinate, 0, len(sampled))
	for _, p := range sampled {
		c := domain.Coordinate{
			Lat: b.MaxLat - (p.Y/CanvasHeight)*(b.MaxLat-b.MinLat),
			Lng: b.MinLng + (p.X/CanvasWidth)*(b.MaxLng-b.MinLng),
		}
		if !c.IsValid() {
			slog.Warn("dropping projected point outside valid range", "x", p.X, "y", p.Y, "lat", c.Lat, "lng", c.Lng)
			continue
		}
		out = append(out, c)
	}
	return out
}

// ProjectGeo prepares already-geographic input the same way Project prepares a drawing.
func ProjectGeo(points []domain.Coordinate) []domain.Coordinate {
	valid := domain.FilterValid(points)
	if dropped := len(points) - len(valid); dropped > 0 {
		slog.Warn("dropping invalid input coordinates", "count", dropped)
	}
	return DownSample(valid)
}
