package pathing_test

import (
	"reflect"
	"testing"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/core/pathing"
)

func TestSimulate_SingleWaypoint(t *testing.T) {
	sim := pathing.NewSimulator(nil)
	one := []domain.Coordinate{{Lat: 48.85, Lng: 2.3}}
	if got := sim.Simulate(one, domain.ProfileFoot); !reflect.DeepEqual(got, one) {
		t.Errorf("single waypoint changed: %v", got)
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	sim := pathing.NewSimulator(pathing.NewSmoother(nil))
	wps := []domain.Coordinate{{Lat: 48.85, Lng: 2.30}, {Lat: 48.86, Lng: 2.31}, {Lat: 48.85, Lng: 2.32}}
	a := sim.Simulate(wps, domain.ProfileBike)
	b := sim.Simulate(wps, domain.ProfileBike)
	if !reflect.DeepEqual(a, b) {
		t.Error("simulation without jitter must be reproducible")
	}
}

func TestSimulate_Shape(t *testing.T) {
	sim := pathing.NewSimulator(pathing.NewSmoother(pathing.GlobalRandom))
	wps := []domain.Coordinate{{Lat: 48.85, Lng: 2.30}, {Lat: 48.86, Lng: 2.31}, {Lat: 48.85, Lng: 2.32}}

	for _, p := range domain.Profiles {
		got := sim.Simulate(wps, p)
		if len(got) <= len(wps) {
			t.Errorf("%s: expected intermediate points, got %d", p, len(got))
		}
		if got[0] != wps[0] || got[len(got)-1] != wps[len(wps)-1] {
			t.Errorf("%s: endpoints must be kept", p)
		}
		for i, c := range got {
			if !c.IsValid() {
				t.Fatalf("%s: invalid point %d: %v", p, i, c)
			}
		}
		// The detour stays modest: well under 50% longer than the straight legs.
		if d, straight := pathing.PathDistanceKm(got), pathing.PathDistanceKm(wps); d > straight*1.5 {
			t.Errorf("%s: simulated %f km for %f km of waypoints", p, d, straight)
		}
	}
}

func TestSimulate_CarDeviatesLessThanFoot(t *testing.T) {
	sim := pathing.NewSimulator(pathing.NewSmoother(nil))
	wps := []domain.Coordinate{{Lat: 48.85, Lng: 2.30}, {Lat: 48.85, Lng: 2.33}}

	maxOff := func(route []domain.Coordinate) float64 {
		m := 0.0
		for _, c := range route {
			if d := c.Lat - 48.85; d > m {
				m = d
			} else if -d > m {
				m = -d
			}
		}
		return m
	}
	car := maxOff(sim.Simulate(wps, domain.ProfileCar))
	foot := maxOff(sim.Simulate(wps, domain.ProfileFoot))
	if car >= foot {
		t.Errorf("car deviation %g should be below foot deviation %g", car, foot)
	}
}

func TestSimulate_FiltersInvalid(t *testing.T) {
	sim := pathing.NewSimulator(nil)
	wps := []domain.Coordinate{{Lat: 48.85, Lng: 2.30}, {Lat: 200, Lng: 0}, {Lat: 48.86, Lng: 2.30}}
	for i, c := range sim.Simulate(wps, domain.ProfileCar) {
		if !c.IsValid() {
			t.Fatalf("invalid point %d: %v", i, c)
		}
	}
}

func TestSimulate_BoundedForDistantWaypoints(t *testing.T) {
	sim := pathing.NewSimulator(pathing.NewSmoother(nil))
	wps := []domain.Coordinate{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 179.9}, {Lat: 0.1, Lng: 0}, {Lat: 0.1, Lng: 179.9}}

	for _, p := range domain.Profiles {
		got := sim.Simulate(wps, p)
		passes := p.Settings().SmoothingIterations
		if limit := (pathing.MaxSimulatedPoints + 1) << passes; len(got) > limit {
			t.Errorf("%s: %d points, want at most %d", p, len(got), limit)
		}
		if got[0] != wps[0] || got[len(got)-1] != wps[len(wps)-1] {
			t.Errorf("%s: endpoints must be kept", p)
		}
	}
}
