package main

import (
	"testing"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

func TestLoadRequest(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		points int
		screen int
		title  string
	}{
		{
			name:   "request body",
			input:  `{"screenPoints":[{"x":0,"y":0},{"x":100,"y":0},{"x":100,"y":100}],"maxDistanceKm":10,"profile":"bike"}`,
			screen: 3,
		},
		{
			name:   "geometry",
			input:  `{"type":"LineString","coordinates":[[2.34,48.85],[2.35,48.86]]}`,
			points: 2,
		},
		{
			name:   "feature",
			input:  `{"type":"Feature","properties":{"name":"Loop"},"geometry":{"type":"LineString","coordinates":[[2.34,48.85],[2.35,48.86],[2.36,48.85]]}}`,
			points: 3,
			title:  "Loop",
		},
		{
			name:   "feature collection",
			input:  `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[2.34,48.85],[2.35,48.86]]}}]}`,
			points: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := loadRequest([]byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(req.Points) != tt.points || len(req.ScreenPoints) != tt.screen {
				t.Errorf("got %d points, %d screen points", len(req.Points), len(req.ScreenPoints))
			}
			if req.Name != tt.title {
				t.Errorf("name = %q, want %q", req.Name, tt.title)
			}
		})
	}
}

func TestLoadRequest_AxisOrder(t *testing.T) {
	req, err := loadRequest([]byte(`{"type":"LineString","coordinates":[[2.34,48.85],[2.35,48.86]]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Points[0] != (domain.Coordinate{Lat: 48.85, Lng: 2.34}) {
		t.Errorf("geojson is lng,lat: got %+v", req.Points[0])
	}
}

func TestLoadRequest_Errors(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"type":"Point","coordinates":[2.34,48.85]}`,
		`{"type":"FeatureCollection","features":[]}`,
	} {
		if _, err := loadRequest([]byte(in)); err == nil {
			t.Errorf("expected error for %s", in)
		}
	}
}
