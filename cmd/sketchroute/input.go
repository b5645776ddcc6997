package main

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

// loadRequest reads a drawing. It accepts the JSON body of
// POST /v1/routes/generate, or a GeoJSON LineString as a geometry, Feature
// or FeatureCollection whose first feature is the path.
func loadRequest(data []byte) (domain.GenerateRequest, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return domain.GenerateRequest{}, fmt.Errorf("parse drawing: %w", err)
	}

	if probe.Type == "" {
		var req domain.GenerateRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse drawing: %w", err)
		}
		return req, nil
	}

	line, name, err := lineFromGeoJSON(probe.Type, data)
	if err != nil {
		return domain.GenerateRequest{}, err
	}
	req := domain.GenerateRequest{Name: name, Points: make([]domain.Coordinate, 0, len(line))}
	for _, p := range line {
		req.Points = append(req.Points, domain.Coordinate{Lat: p.Lat(), Lng: p.Lon()})
	}
	return req, nil
}

func lineFromGeoJSON(kind string, data []byte) (orb.LineString, string, error) {
	var (
		geom orb.Geometry
		name string
	)
	switch kind {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, "", fmt.Errorf("parse geojson: %w", err)
		}
		if len(fc.Features) == 0 {
			return nil, "", fmt.Errorf("geojson has no features")
		}
		geom, name = fc.Features[0].Geometry, fc.Features[0].Properties.MustString("name", "")
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, "", fmt.Errorf("parse geojson: %w", err)
		}
		geom, name = f.Geometry, f.Properties.MustString("name", "")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, "", fmt.Errorf("parse geojson: %w", err)
		}
		geom = g.Geometry()
	}

	line, ok := geom.(orb.LineString)
	if !ok {
		return nil, "", fmt.Errorf("drawing must be a LineString, got %T", geom)
	}
	return line, name, nil
}
