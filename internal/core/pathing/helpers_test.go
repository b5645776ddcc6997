package pathing_test

import (
	"math"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

// line returns n points heading east from a Paris origin, ~74 m apart.
func line(n int) []domain.Coordinate {
	out := make([]domain.Coordinate, n)
	for i := range out {
		out[i] = domain.Coordinate{Lat: 48.85, Lng: 2.30 + float64(i)*0.001}
	}
	return out
}

// square returns a closed loop of side points per edge, ending on its start.
func square(side int) []domain.Coordinate {
	const d = 0.01
	var out []domain.Coordinate
	corners := []domain.Coordinate{
		{Lat: 48.85, Lng: 2.30},
		{Lat: 48.85, Lng: 2.30 + d},
		{Lat: 48.85 + d, Lng: 2.30 + d},
		{Lat: 48.85 + d, Lng: 2.30},
	}
	for c := 0; c < 4; c++ {
		a, b := corners[c], corners[(c+1)%4]
		for i := 0; i < side; i++ {
			out = append(out, a.Lerp(b, float64(i)/float64(side)))
		}
	}
	return append(out, corners[0])
}

func indexOf(route []domain.Coordinate, c domain.Coordinate) int {
	return indexFrom(route, c, 0)
}

func indexFrom(route []domain.Coordinate, c domain.Coordinate, from int) int {
	for i := from; i < len(route); i++ {
		if route[i] == c {
			return i
		}
	}
	return -1
}

func near(a, b domain.Coordinate, eps float64) bool {
	return math.Abs(a.Lat-b.Lat) <= eps && math.Abs(a.Lng-b.Lng) <= eps
}
