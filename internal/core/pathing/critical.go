package pathing

import (
	"math"
	"sort"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

// DefaultCurvatureThreshold separates shape corners from noise.
const DefaultCurvatureThreshold = 0.1

// shortPathLen is the length at or below which every point is critical.
const shortPathLen = 5

// Detector classifies route points by how sharply the path turns at them.
type Detector struct {
	Threshold float64
}

// NewDetector returns a Detector. A non-positive threshold selects DefaultCurvatureThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultCurvatureThreshold
	}
	return &Detector{Threshold: threshold}
}

// Curvature scores the turn at route[i] on a 0..2 scale.
//
// The score is 2*area/(|v1|*|v2|) for the triangle formed with both neighbours,
// i.e. |sin θ| of the turning angle. Turns sharper than a right angle are
// unfolded to 2-|sin θ| so the score keeps growing up to a full reversal.
// Endpoints and points next to a zero-length segment score 0.
func Curvature(route []domain.Coordinate, i int) float64 {
	if i <= 0 || i >= len(route)-1 {
		return 0
	}
	cur := route[i]
	v1 := planar(route[i-1], cur)
	v2 := planar(cur, route[i+1])

	l1, l2 := v1.len(), v2.len()
	if l1 < 1e-12 || l2 < 1e-12 {
		return 0
	}

	cross := v1.x*v2.y - v1.y*v2.x
	sin := math.Min(1, math.Abs(cross)/(l1*l2))
	if v1.x*v2.x+v1.y*v2.y < 0 {
		return 2 - sin
	}
	return sin
}

// Critical returns the ascending indices of points that carry the shape.
// The first and last index are always included.
func (d *Detector) Critical(route []domain.Coordinate) []int {
	n := len(route)
	if n == 0 {
		return nil
	}
	if n <= shortPathLen {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	idx := []int{0}
	for i := 1; i < n-1; i++ {
		if Curvature(route, i) > d.Threshold {
			idx = append(idx, i)
		}
	}
	return append(idx, n-1)
}

// Reduce keeps at most maxPoints points of route, preferring critical ones and
// filling any remaining budget with evenly spaced samples of the rest.
// Order is preserved and the endpoints are always kept. maxPoints below 2 is raised to 2.
func (d *Detector) Reduce(route []domain.Coordinate, maxPoints int) []domain.Coordinate {
	return pick(route, d.Keep(route, maxPoints))
}

// Keep returns the ascending indices Reduce retains.
func (d *Detector) Keep(route []domain.Coordinate, maxPoints int) []int {
	if maxPoints < 2 {
		maxPoints = 2
	}
	if len(route) <= maxPoints {
		all := make([]int, len(route))
		for i := range all {
			all[i] = i
		}
		return all
	}

	critical := d.Critical(route)

	var keep []int
	if len(critical) <= maxPoints {
		keep = append(keep, critical...)
		keep = append(keep, stratifiedSample(complement(len(route), critical), maxPoints-len(critical))...)
	} else {
		keep = topByCurvature(route, critical, maxPoints-2)
		keep = append(keep, 0, len(route)-1)
	}
	sort.Ints(keep)
	return keep
}

// Reduce applies the default Detector.
func Reduce(route []domain.Coordinate, maxPoints int) []domain.Coordinate {
	return NewDetector(DefaultCurvatureThreshold).Reduce(route, maxPoints)
}

// annotated ties a coordinate to its position in the source route.
type annotated struct {
	domain.Coordinate
	Index     int
	Curvature float64
}

// topByCurvature ranks the interior critical points and returns the indices of the best k.
func topByCurvature(route []domain.Coordinate, critical []int, k int) []int {
	ranked := make([]annotated, 0, len(critical))
	for _, i := range critical {
		if i == 0 || i == len(route)-1 {
			continue
		}
		ranked = append(ranked, annotated{Coordinate: route[i], Index: i, Curvature: Curvature(route, i)})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Curvature != ranked[b].Curvature {
			return ranked[a].Curvature > ranked[b].Curvature
		}
		return ranked[a].Index < ranked[b].Index
	})
	if k > len(ranked) {
		k = len(ranked)
	}

	out := make([]int, 0, k)
	for _, a := range ranked[:k] {
		out = append(out, a.Index)
	}
	return out
}

// stratifiedSample picks k entries of idx spread evenly across it.
func stratifiedSample(idx []int, k int) []int {
	if k <= 0 || len(idx) == 0 {
		return nil
	}
	if len(idx) <= k {
		return append([]int(nil), idx...)
	}
	step := float64(len(idx)) / float64(k)
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, idx[int(math.Floor(float64(i)*step))])
	}
	return out
}

// complement returns the indices in [0,n) that are not in sorted.
func complement(n int, sorted []int) []int {
	out := make([]int, 0, n-len(sorted))
	j := 0
	for i := 0; i < n; i++ {
		if j < len(sorted) && sorted[j] == i {
			j++
			continue
		}
		out = append(out, i)
	}
	return out
}

func pick(route []domain.Coordinate, idx []int) []domain.Coordinate {
	out := make([]domain.Coordinate, len(idx))
	for i, j := range idx {
		out[i] = route[j]
	}
	return out
}
