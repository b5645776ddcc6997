package pathing

import (
	"math"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/pkg/geospatial"
)

// SegmentKm returns the great-circle length of the segment a→b.
func SegmentKm(a, b domain.Coordinate) float64 {
	return geospatial.HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// PathDistanceKm returns the total great-circle length of route.
func PathDistanceKm(route []domain.Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(route); i++ {
		total += SegmentKm(route[i-1], route[i])
	}
	return total
}

// vec is a planar offset in kilometres.
type vec struct{ x, y float64 }

func (v vec) len() float64 { return math.Hypot(v.x, v.y) }

// planar maps b into a local equirectangular frame centred on a.
func planar(a, b domain.Coordinate) vec {
	lngKm := geospatial.KmPerDegree / geospatial.LngScale(a.Lat)
	return vec{
		x: (b.Lng - a.Lng) * lngKm,
		y: (b.Lat - a.Lat) * geospatial.KmPerDegree,
	}
}
