package pathing

import (
	"math"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

// closedShapeRatio is the start/end gap, relative to the shape's larger
// dimension, under which a drawing counts as a loop.
const closedShapeRatio = 0.1

// IsClosed reports whether route ends close to where it starts.
func IsClosed(route []domain.Coordinate) bool {
	if len(route) < 3 {
		return false
	}
	ref := route[0]
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for _, c := range route[1:] {
		v := planar(ref, c)
		minX, maxX = math.Min(minX, v.x), math.Max(maxX, v.x)
		minY, maxY = math.Min(minY, v.y), math.Max(maxY, v.y)
	}
	gap := planar(ref, route[len(route)-1]).len()
	return gap < math.Max(maxX-minX, maxY-minY)*closedShapeRatio
}

// OptimalStart picks the index a route should start from.
//
// For loops the candidates are the detector's critical points; an open shape
// can only be entered at either end. With an anchor, the candidate nearest to
// it within maxDistanceKm wins. Otherwise a loop starts at the candidate
// scoring best on closeness to the shape's edge plus sharpness of the turn.
// Open shapes without an anchor start at 0.
func (d *Detector) OptimalStart(route []domain.Coordinate, anchor *domain.Coordinate, maxDistanceKm float64) int {
	if len(route) <= 2 {
		return 0
	}
	closed := IsClosed(route)
	if !closed && anchor == nil {
		return 0
	}

	candidates := []int{0, len(route) - 1}
	if closed {
		candidates = d.Critical(route)
	}

	if anchor != nil {
		if i := nearestWithin(route, candidates, *anchor, maxDistanceKm); i >= 0 {
			return i
		}
		if !closed {
			return 0
		}
	}

	best, bestScore := 0, math.Inf(-1)
	for _, i := range candidates {
		if s := startScore(route, i); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

func nearestWithin(route []domain.Coordinate, candidates []int, anchor domain.Coordinate, maxKm float64) int {
	best, bestKm := -1, math.Inf(1)
	for _, i := range candidates {
		d := SegmentKm(anchor, route[i])
		if d < bestKm && (maxKm <= 0 || d <= maxKm) {
			best, bestKm = i, d
		}
	}
	return best
}

// startScore rewards points near the shape's outline (up to 10) and sharp turns (up to 20).
func startScore(route []domain.Coordinate, i int) float64 {
	ref := route[0]
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for _, c := range route[1:] {
		v := planar(ref, c)
		minX, maxX = math.Min(minX, v.x), math.Max(maxX, v.x)
		minY, maxY = math.Min(minY, v.y), math.Max(maxY, v.y)
	}
	size := math.Max(maxX-minX, maxY-minY)

	score := 0.0
	if size > 0 {
		p := planar(ref, route[i])
		edge := math.Min(math.Min(p.x-minX, maxX-p.x), math.Min(p.y-minY, maxY-p.y))
		pct := edge / size * 100
		score += (20 - math.Min(20, pct)) / 2
	}
	return score + directionChange(route, i)*10
}

// directionChange is 1-cos of the turning angle at i: 0 straight on, 2 for a reversal.
func directionChange(route []domain.Coordinate, i int) float64 {
	if i <= 0 || i >= len(route)-1 {
		return 0
	}
	v1 := planar(route[i-1], route[i])
	v2 := planar(route[i], route[i+1])
	l1, l2 := v1.len(), v2.len()
	if l1 < 1e-12 || l2 < 1e-12 {
		return 0
	}
	return 1 - (v1.x*v2.x+v1.y*v2.y)/(l1*l2)
}

// StartAt returns route beginning at index start. A loop is rotated: its
// closing point is dropped and the loop re-closed at the new start. An open
// route starting at its last index is reversed. Any other start leaves the
// route unchanged.
func StartAt(route []domain.Coordinate, start int) []domain.Coordinate {
	if start <= 0 || start >= len(route) {
		return domain.Clone(route)
	}
	if !IsClosed(route) {
		if start != len(route)-1 {
			return domain.Clone(route)
		}
		out := make([]domain.Coordinate, len(route))
		for i, c := range route {
			out[len(route)-1-i] = c
		}
		return out
	}
	loop := route[:len(route)-1]
	if start >= len(loop) {
		return domain.Clone(route)
	}
	out := make([]domain.Coordinate, 0, len(route))
	out = append(out, loop[start:]...)
	out = append(out, loop[:start]...)
	return append(out, loop[start])
}
