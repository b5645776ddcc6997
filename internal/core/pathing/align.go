package pathing

import "github.com/samirrijal/sketchroute/internal/core/domain"

// Alignment defaults.
const (
	DefaultAlignRadiusKm = 0.2
	alignRouteWeight     = 0.7
)

// AlignToWaypoints pulls a routed path back toward the waypoints it was built from.
// For each waypoint, the nearest route point at or after the previous match is
// found. A match within radiusKm is replaced by the waypoint itself; a farther
// one is moved 30% of the way toward it. Route order and length are unchanged.
func AlignToWaypoints(route, waypoints []domain.Coordinate, radiusKm float64) []domain.Coordinate {
	out := domain.Clone(route)
	if len(out) == 0 || len(waypoints) == 0 {
		return out
	}
	if radiusKm <= 0 {
		radiusKm = DefaultAlignRadiusKm
	}

	from := 0
	for _, wp := range waypoints {
		best, bestKm := -1, 0.0
		for i := from; i < len(out); i++ {
			d := SegmentKm(route[i], wp)
			if best < 0 || d < bestKm {
				best, bestKm = i, d
			}
		}
		if best < 0 {
			break
		}
		if bestKm <= radiusKm {
			out[best] = wp
		} else {
			out[best] = wp.Lerp(route[best], alignRouteWeight)
		}
		from = best + 1
	}
	return out
}
