package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/sketchroute/internal/pkg/geospatial"
)

func TestHaversine_KnownDistance(t *testing.T) {
	// Notre-Dame to the Eiffel Tower, roughly 4.1 km.
	d := geospatial.HaversineKm(48.8530, 2.3499, 48.8584, 2.2945)
	if d < 4.0 || d > 4.2 {
		t.Fatalf("expected ~4.1 km, got %f", d)
	}
	m := geospatial.Haversine(48.8530, 2.3499, 48.8584, 2.2945)
	if math.Abs(m-d*1000) > 1e-6 {
		t.Errorf("meters and km disagree: %f vs %f", m, d*1000)
	}
}

func TestHaversine_SamePoint(t *testing.T) {
	if d := geospatial.HaversineKm(43.26, -2.93, 43.26, -2.93); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestBoundingBox(t *testing.T) {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(0, 0, geospatial.KmPerDegree, 1)
	if math.Abs(minLat+1) > 1e-9 || math.Abs(maxLat-1) > 1e-9 {
		t.Errorf("lat extent = [%f, %f], want [-1, 1]", minLat, maxLat)
	}
	if math.Abs(minLon+1) > 1e-9 || math.Abs(maxLon-1) > 1e-9 {
		t.Errorf("lon extent = [%f, %f], want [-1, 1]", minLon, maxLon)
	}
}

func TestBoundingBox_AspectAndLatitude(t *testing.T) {
	_, minLon, _, maxLon := geospatial.BoundingBox(60, 10, geospatial.KmPerDegree, 2)
	// cos(60°) = 0.5 doubles the span, aspect doubles it again.
	if got := (maxLon - minLon) / 2; math.Abs(got-4) > 1e-6 {
		t.Errorf("lon half-span = %f, want 4", got)
	}

	_, minLon, _, maxLon = geospatial.BoundingBox(0, 0, geospatial.KmPerDegree, 0)
	if math.Abs(maxLon-minLon-2) > 1e-9 {
		t.Errorf("non-positive aspect should behave like 1, span %f", maxLon-minLon)
	}
}
