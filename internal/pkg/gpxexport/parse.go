package gpxexport

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

// Summary describes a parsed GPX document.
type Summary struct {
	Name       string
	Points     int
	DistanceKm float64
	Bounds     domain.Bounds
}

// ParseTrack returns every track point in document order.
func ParseTrack(data []byte) ([]domain.Coordinate, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}
	var out []domain.Coordinate
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				out = append(out, domain.Coordinate{Lat: p.Latitude, Lng: p.Longitude})
			}
		}
	}
	return out, nil
}

// Inspect summarises a GPX document.
func Inspect(data []byte) (*Summary, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}
	b := g.Bounds()
	return &Summary{
		Name:       g.Name,
		Points:     countPoints(g),
		DistanceKm: g.Length2D() / 1000,
		Bounds: domain.Bounds{
			MinLat: b.MinLatitude,
			MaxLat: b.MaxLatitude,
			MinLng: b.MinLongitude,
			MaxLng: b.MaxLongitude,
		},
	}, nil
}
