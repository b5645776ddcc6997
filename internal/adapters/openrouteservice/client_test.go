package openrouteservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samirrijal/sketchroute/internal/adapters/openrouteservice"
	"github.com/samirrijal/sketchroute/internal/core/domain"
)

var waypoints = []domain.Coordinate{
	{Lat: 48.8530, Lng: 2.3499},
	{Lat: 48.8584, Lng: 2.2945},
}

const directionsBody = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"summary": {"distance": 4.3}},
    "geometry": {"type": "LineString", "coordinates": [[2.3499, 48.8530], [2.3300, 48.8560], [2.2945, 48.8584]]}
  }]
}`

func newClient(url, key string) *openrouteservice.Client {
	return openrouteservice.New(openrouteservice.Config{BaseURL: url, APIKey: key})
}

func TestDirections(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(directionsBody))
	}))
	defer srv.Close()

	route, err := newClient(srv.URL, "secret").Directions(context.Background(), waypoints, domain.ProfileBike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v2/directions/cycling-regular/geojson" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "secret" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody["preference"] != "recommended" || gotBody["units"] != "km" {
		t.Errorf("unexpected body %v", gotBody)
	}
	coords, _ := gotBody["coordinates"].([]any)
	first, _ := coords[0].([]any)
	if len(first) != 2 || first[0] != 2.3499 || first[1] != 48.853 {
		t.Errorf("coordinates must be [lng, lat], got %v", first)
	}
	opts, _ := gotBody["options"].(map[string]any)
	if avoid, _ := opts["avoid_features"].([]any); len(avoid) == 0 {
		t.Errorf("expected avoid_features, got %v", opts)
	}

	if len(route) != 3 {
		t.Fatalf("expected 3 points, got %d", len(route))
	}
	if route[1] != (domain.Coordinate{Lat: 48.8560, Lng: 2.3300}) {
		t.Errorf("point order or axes wrong: %v", route[1])
	}
}

func TestDirections_MissingKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, "").Directions(context.Background(), waypoints, domain.ProfileFoot)
	if !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if called {
		t.Error("no request should be sent without a key")
	}
}

func TestDirections_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"forbidden", http.StatusForbidden, `{"error":"bad key"}`},
		{"malformed", http.StatusOK, `not json`},
		{"no features", http.StatusOK, `{"type":"FeatureCollection","features":[]}`},
		{"single point", http.StatusOK, `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[2.3,48.8]]}}]}`},
		{"wrong geometry", http.StatusOK, `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[2.3,48.8]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newClient(srv.URL, "k").Directions(context.Background(), waypoints, domain.ProfileFoot)
			if !errors.Is(err, domain.ErrExternalService) {
				t.Errorf("expected ErrExternalService, got %v", err)
			}
		})
	}
}

func TestDirections_Deadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(directionsBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newClient(srv.URL, "k").Directions(ctx, waypoints, domain.ProfileCar)
	if !errors.Is(err, domain.ErrExternalService) {
		t.Errorf("expected ErrExternalService, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Errorf("request outlived its deadline: %v", elapsed)
	}
}

func TestSnap(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"locations":[{"location":[2.35,48.8531],"snapped_distance":12.3},null],"metadata":{}}`))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL, "k").Snap(context.Background(), waypoints, domain.ProfileFoot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v2/snap/foot-walking/json" {
		t.Errorf("path = %s", gotPath)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0] == nil || *got[0] != (domain.Coordinate{Lat: 48.8531, Lng: 2.35}) {
		t.Errorf("snapped[0] = %v", got[0])
	}
	if got[1] != nil {
		t.Errorf("unsnappable location should be nil, got %v", got[1])
	}
}

func TestSnap_LengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"locations":[]}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, "k").Snap(context.Background(), waypoints, domain.ProfileFoot)
	if !errors.Is(err, domain.ErrExternalService) {
		t.Errorf("expected ErrExternalService, got %v", err)
	}
}
