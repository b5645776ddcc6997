package pathing

import "github.com/samirrijal/sketchroute/internal/core/domain"

// Limit truncates route once its accumulated length reaches maxDistanceKm,
// interpolating the final point on the segment that crosses the budget.
// Routes within budget, and routes shorter than two points, are returned unchanged.
func Limit(route []domain.Coordinate, maxDistanceKm float64) []domain.Coordinate {
	if len(route) < 2 || maxDistanceKm <= 0 {
		return domain.Clone(route)
	}
	if PathDistanceKm(route) <= maxDistanceKm {
		return domain.Clone(route)
	}

	out := []domain.Coordinate{route[0]}
	total := 0.0
	for i := 1; i < len(route); i++ {
		seg := SegmentKm(route[i-1], route[i])
		if total+seg > maxDistanceKm {
			ratio := (maxDistanceKm - total) / seg
			if ratio > 0 {
				out = append(out, route[i-1].Lerp(route[i], ratio))
			}
			break
		}
		total += seg
		out = append(out, route[i])
	}
	return out
}
