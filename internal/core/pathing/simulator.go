package pathing

import (
	"math"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/pkg/geospatial"
)

const (
	// variationRatio caps the road-like deviation relative to the mean segment length.
	variationRatio = 0.05
	// maxVariationKm is the absolute ceiling on that deviation.
	maxVariationKm = 0.05
)

// MaxSimulatedPoints bounds the interpolated route before smoothing. Long
// segments share it evenly and are interpolated more coarsely.
const MaxSimulatedPoints = 5000

// Simulator produces a road-like route from waypoints without a routing provider.
type Simulator struct {
	smoother *Smoother
}

// NewSimulator returns a Simulator that finishes every route with smoother.
func NewSimulator(smoother *Smoother) *Simulator {
	if smoother == nil {
		smoother = NewSmoother(nil)
	}
	return &Simulator{smoother: smoother}
}

// Simulate interpolates between consecutive waypoints at the profile's step
// size and bends each intermediate point with deterministic 2-D noise.
// The displacement fades to zero at the waypoints themselves.
func (s *Simulator) Simulate(waypoints []domain.Coordinate, profile domain.TravelProfile) []domain.Coordinate {
	valid := domain.FilterValid(waypoints)
	if len(valid) <= 1 {
		return valid
	}
	settings := profile.Settings()
	amp := amplitude(valid, settings.VariationScale)

	perSegment := max(1, MaxSimulatedPoints/(len(valid)-1))

	out := make([]domain.Coordinate, 0, len(valid)*4)
	for i := 0; i < len(valid)-1; i++ {
		start, end := valid[i], valid[i+1]
		out = append(out, start)

		n := min(perSegment, int(math.Ceil(SegmentKm(start, end)*1000/settings.InterpolationStepMeters)))
		for j := 1; j < n; j++ {
			t := float64(j) / float64(n)
			p := start.Lerp(end, t)
			dLat, dLng := noise(i, t, settings.PrimaryNoiseWeight, settings.SecondaryNoiseWeight)
			taper := math.Sin(math.Pi * t)
			p.Lat += amp * taper * dLat
			p.Lng += amp * taper * dLng * geospatial.LngScale(p.Lat)
			if p.IsValid() {
				out = append(out, p)
			}
		}
	}
	out = append(out, valid[len(valid)-1])

	return s.smoother.Smooth(out, profile)
}

// amplitude returns the peak deviation in degrees for a waypoint set.
func amplitude(waypoints []domain.Coordinate, scale float64) float64 {
	avgKm := PathDistanceKm(waypoints) / float64(len(waypoints)-1)
	return geospatial.KmToDegrees(math.Min(avgKm*variationRatio, maxVariationKm)) * scale
}

// noise is a pair of phase-shifted waves seeded by the segment index and the
// point's position t along it. Each component stays within [-1, 1] when the
// weights sum to 1.
func noise(segment int, t, primary, secondary float64) (float64, float64) {
	phase := float64(segment)*1.7 + 2*math.Pi*t
	lat := primary*math.Sin(phase) + secondary*math.Cos(2.3*phase+0.5)
	lng := primary*math.Cos(1.3*phase+1.1) + secondary*math.Sin(3.1*phase)
	return lat, lng
}
