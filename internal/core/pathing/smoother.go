package pathing

import (
	"math/rand/v2"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/pkg/geospatial"
)

// naturalDeviationRatio bounds foot jitter relative to the local segment length.
const naturalDeviationRatio = 0.015

// RandomSource yields floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// GlobalRandom draws from the process-wide math/rand/v2 generator and is safe for concurrent use.
var GlobalRandom RandomSource = globalRandom{}

// Smoother softens routes with Chaikin corner cutting and, for profiles that
// ask for it, a small natural deviation.
type Smoother struct {
	rnd RandomSource
}

// NewSmoother returns a Smoother. A nil source disables the natural deviation.
func NewSmoother(rnd RandomSource) *Smoother {
	return &Smoother{rnd: rnd}
}

// Smooth applies the profile's smoothing to route.
func (s *Smoother) Smooth(route []domain.Coordinate, profile domain.TravelProfile) []domain.Coordinate {
	settings := profile.Settings()

	out := domain.Clone(route)
	for i := 0; i < settings.SmoothingIterations; i++ {
		out = Chaikin(out)
	}
	if settings.NaturalDeviation && s.rnd != nil {
		out = s.deviate(out)
	}
	return out
}

// Chaikin runs one corner-cutting pass. Routes shorter than three points are returned unchanged.
func Chaikin(route []domain.Coordinate) []domain.Coordinate {
	if len(route) < 3 {
		return domain.Clone(route)
	}

	out := make([]domain.Coordinate, 0, 2*len(route))
	out = append(out, route[0])
	for i := 0; i < len(route)-1; i++ {
		p0, p1 := route[i], route[i+1]
		out = append(out, p0.Lerp(p1, 0.25), p0.Lerp(p1, 0.75))
	}
	return append(out, route[len(route)-1])
}

func (s *Smoother) deviate(route []domain.Coordinate) []domain.Coordinate {
	out := domain.Clone(route)
	for i := 1; i < len(route)-1; i++ {
		avgKm := (SegmentKm(route[i-1], route[i]) + SegmentKm(route[i], route[i+1])) / 2
		maxDev := geospatial.KmToDegrees(avgKm * naturalDeviationRatio)
		out[i].Lat += (s.rnd.Float64() - 0.5) * maxDev
		out[i].Lng += (s.rnd.Float64() - 0.5) * maxDev
	}
	return out
}
