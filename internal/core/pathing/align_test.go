package pathing_test

import (
	"testing"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/core/pathing"
)

func TestAlignToWaypoints_SnapsNearby(t *testing.T) {
	route := line(10)
	// ~50 m north of route[4].
	wp := domain.Coordinate{Lat: route[4].Lat + 0.00045, Lng: route[4].Lng}

	got := pathing.AlignToWaypoints(route, []domain.Coordinate{route[0], wp, route[9]}, pathing.DefaultAlignRadiusKm)
	if len(got) != len(route) {
		t.Fatalf("length changed: %d -> %d", len(route), len(got))
	}
	if got[4] != wp {
		t.Errorf("expected route[4] replaced by the waypoint, got %v", got[4])
	}
	if got[3] != route[3] || got[5] != route[5] {
		t.Error("unmatched points must not move")
	}
}

func TestAlignToWaypoints_BlendsDistant(t *testing.T) {
	route := line(10)
	// ~1.1 km north of route[4].
	wp := domain.Coordinate{Lat: route[4].Lat + 0.01, Lng: route[4].Lng}

	got := pathing.AlignToWaypoints(route, []domain.Coordinate{wp}, pathing.DefaultAlignRadiusKm)
	want := domain.Coordinate{Lat: route[4].Lat + 0.003, Lng: route[4].Lng}
	if !near(got[4], want, 1e-9) {
		t.Errorf("expected 30%% pull toward the waypoint, got %v want %v", got[4], want)
	}
}

func TestAlignToWaypoints_SearchesForward(t *testing.T) {
	route := line(10)
	// Both waypoints sit nearest to route[2]; the second must match later.
	wps := []domain.Coordinate{route[2], route[2]}
	got := pathing.AlignToWaypoints(route, wps, pathing.DefaultAlignRadiusKm)
	if got[2] != route[2] {
		t.Errorf("first match moved: %v", got[2])
	}
	if got[3] != route[2] {
		t.Errorf("second waypoint should land on route[3], got %v", got[3])
	}
}

func TestAlignToWaypoints_DoesNotAliasInput(t *testing.T) {
	route := line(4)
	orig := route[1]
	_ = pathing.AlignToWaypoints(route, []domain.Coordinate{{Lat: 48.8501, Lng: 2.301}}, 1)
	if route[1] != orig {
		t.Error("input route was modified")
	}
}
