package pathing_test

import (
	"reflect"
	"testing"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/core/pathing"
)

type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

func TestChaikin(t *testing.T) {
	r := []domain.Coordinate{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 4}, {Lat: 4, Lng: 4}}
	got := pathing.Chaikin(r)
	want := []domain.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1}, {Lat: 0, Lng: 3},
		{Lat: 1, Lng: 4}, {Lat: 3, Lng: 4},
		{Lat: 4, Lng: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chaikin = %v, want %v", got, want)
	}
}

func TestChaikin_TwoPointsUnchanged(t *testing.T) {
	r := line(2)
	if got := pathing.Chaikin(r); !reflect.DeepEqual(got, r) {
		t.Errorf("two point route changed: %v", got)
	}
}

func TestSmooth_IterationsPerProfile(t *testing.T) {
	s := pathing.NewSmoother(nil)
	r := line(5)
	tests := []struct {
		profile domain.TravelProfile
		passes  int
	}{
		{domain.ProfileCar, 1},
		{domain.ProfileBike, 2},
		{domain.ProfileFoot, 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.profile), func(t *testing.T) {
			want := r
			for i := 0; i < tt.passes; i++ {
				want = pathing.Chaikin(want)
			}
			got := s.Smooth(r, tt.profile)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("expected %d Chaikin passes, got %d points", tt.passes, len(got))
			}
		})
	}
}

func TestSmooth_NeverShrinksAndKeepsEndpoints(t *testing.T) {
	s := pathing.NewSmoother(pathing.GlobalRandom)
	r := square(4)
	for _, p := range domain.Profiles {
		got := s.Smooth(r, p)
		if len(got) < len(r) {
			t.Errorf("%s: %d points smoothed to %d", p, len(r), len(got))
		}
		if got[0] != r[0] || got[len(got)-1] != r[len(r)-1] {
			t.Errorf("%s: endpoints moved", p)
		}
	}
}

func TestSmooth_FootDeviation(t *testing.T) {
	r := line(6)
	base := pathing.NewSmoother(nil).Smooth(r, domain.ProfileFoot)

	centred := pathing.NewSmoother(fixedRandom(0.5)).Smooth(r, domain.ProfileFoot)
	if !reflect.DeepEqual(centred, base) {
		t.Error("a centred random source must not move any point")
	}

	high := pathing.NewSmoother(fixedRandom(0.99)).Smooth(r, domain.ProfileFoot)
	if high[0] != base[0] || high[len(high)-1] != base[len(base)-1] {
		t.Fatal("endpoints must not be jittered")
	}
	moved := false
	for i := 1; i < len(high)-1; i++ {
		dLat := high[i].Lat - base[i].Lat
		if dLat < 0 {
			t.Fatalf("point %d moved south with a high draw", i)
		}
		if dLat > 0 {
			moved = true
		}
		// 1.5% of a ~20 m neighbourhood is well under a metre.
		if dLat > 1e-5 {
			t.Fatalf("point %d moved too far: %g°", i, dLat)
		}
	}
	if !moved {
		t.Error("expected interior points to be jittered")
	}
}

func TestSmooth_NoDeviationForCar(t *testing.T) {
	r := line(6)
	got := pathing.NewSmoother(fixedRandom(0.99)).Smooth(r, domain.ProfileCar)
	if !reflect.DeepEqual(got, pathing.Chaikin(r)) {
		t.Error("car routes must not be jittered")
	}
}
