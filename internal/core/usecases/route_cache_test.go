package usecases_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/core/usecases"
)

func TestRouteCacheKey(t *testing.T) {
	a := parisLine()
	b := parisLine()
	b[1].Lat += 0.000001 // below the 5-decimal rounding

	ka := usecases.RouteCacheKey(a, domain.ProfileFoot)
	if !strings.HasPrefix(ka, "route:foot:") {
		t.Errorf("unexpected key %s", ka)
	}
	if kb := usecases.RouteCacheKey(b, domain.ProfileFoot); kb != ka {
		t.Errorf("rounding should make keys equal: %s vs %s", ka, kb)
	}
	if kc := usecases.RouteCacheKey(a, domain.ProfileCar); kc == ka {
		t.Error("profile must be part of the key")
	}
	b[1].Lat += 0.001
	if kd := usecases.RouteCacheKey(b, domain.ProfileFoot); kd == ka {
		t.Error("different waypoints must give different keys")
	}
}

func TestRouteCache_PutGet(t *testing.T) {
	backend := newMockCache()
	rc := usecases.NewRouteCache(backend, time.Minute)
	ctx := context.Background()

	if _, ok := rc.Get(ctx, "route:foot:x"); ok {
		t.Fatal("expected miss on empty cache")
	}

	rc.Put(ctx, "route:foot:x", parisLine())
	got, ok := rc.Get(ctx, "route:foot:x")
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got) != len(parisLine()) || got[2] != parisLine()[2] {
		t.Errorf("unexpected route %v", got)
	}

	got[0].Lat = 0
	again, _ := rc.Get(ctx, "route:foot:x")
	if again[0].Lat == 0 {
		t.Error("each read must decode a fresh copy")
	}
}

func TestRouteCache_ExpiredEntry(t *testing.T) {
	backend := newMockCache()
	backend.data["route:foot:old"] = []byte(`{"route":[{"lat":1,"lng":1},{"lat":2,"lng":2}],"timestamp":"2001-01-01T00:00:00Z"}`)
	rc := usecases.NewRouteCache(backend, time.Minute)

	if _, ok := rc.Get(context.Background(), "route:foot:old"); ok {
		t.Fatal("stale entry must be a miss")
	}
	if _, ok := backend.data["route:foot:old"]; ok {
		t.Error("stale entry should be evicted")
	}
}

func TestRouteCache_CorruptEntry(t *testing.T) {
	backend := newMockCache()
	backend.data["route:foot:bad"] = []byte(`{not json`)
	rc := usecases.NewRouteCache(backend, time.Minute)

	if _, ok := rc.Get(context.Background(), "route:foot:bad"); ok {
		t.Fatal("corrupt entry must be a miss")
	}
}

func TestRouteCache_NilBackend(t *testing.T) {
	rc := usecases.NewRouteCache(nil, 0)
	rc.Put(context.Background(), "k", parisLine())
	if _, ok := rc.Get(context.Background(), "k"); ok {
		t.Error("nil backend never hits")
	}
}
