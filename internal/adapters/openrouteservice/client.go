// Package openrouteservice implements ports.RoutingProvider against the
// OpenRouteService v2 REST API.
package openrouteservice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

// DefaultBaseURL is the public OpenRouteService endpoint.
const DefaultBaseURL = "https://api.openrouteservice.org"

const (
	fallbackTimeout = 30 * time.Second
	maxErrorBody    = 256
)

// Config configures a Client.
type Config struct {
	BaseURL           string
	APIKey            string
	RequestsPerMinute int
	SnapRadiusMeters  float64
}

// Client talks to OpenRouteService over fasthttp.
type Client struct {
	baseURL    string
	apiKey     string
	snapRadius float64
	http       *fasthttp.Client
	limiter    *rate.Limiter
}

// New creates a Client. A zero RequestsPerMinute disables client-side rate limiting.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if cfg.SnapRadiusMeters <= 0 {
		cfg.SnapRadiusMeters = 350
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}

	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		snapRadius: cfg.SnapRadiusMeters,
		http: &fasthttp.Client{
			Name:                "sketchroute",
			MaxConnsPerHost:     32,
			ReadTimeout:         fallbackTimeout,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: time.Minute,
		},
		limiter: limiter,
	}
}

type directionsRequest struct {
	Coordinates [][2]float64       `json:"coordinates"`
	Preference  string             `json:"preference"`
	Units       string             `json:"units"`
	Options     *directionsOptions `json:"options,omitempty"`
}

type directionsOptions struct {
	AvoidFeatures []string `json:"avoid_features,omitempty"`
}

// Directions requests a road-following route through waypoints.
func (c *Client) Directions(ctx context.Context, waypoints []domain.Coordinate, profile domain.TravelProfile) ([]domain.Coordinate, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("%w: directions need at least 2 waypoints, got %d", domain.ErrInvalidInput, len(waypoints))
	}
	settings := profile.Settings()

	req := directionsRequest{
		Coordinates: lngLat(waypoints),
		Preference:  "recommended",
		Units:       "km",
	}
	if len(settings.AvoidFeatures) > 0 {
		req.Options = &directionsOptions{AvoidFeatures: settings.AvoidFeatures}
	}

	body, err := c.post(ctx, "/v2/directions/"+settings.APIProfile+"/geojson", req)
	if err != nil {
		return nil, err
	}
	return decodeRoute(body)
}

type snapRequest struct {
	Locations [][2]float64 `json:"locations"`
	Radius    float64      `json:"radius"`
}

type snapResponse struct {
	Locations []*struct {
		Location []float64 `json:"location"`
	} `json:"locations"`
}

// Snap moves each location onto the nearest road within the configured radius.
func (c *Client) Snap(ctx context.Context, locations []domain.Coordinate, profile domain.TravelProfile) ([]*domain.Coordinate, error) {
	if len(locations) == 0 {
		return nil, nil
	}
	body, err := c.post(ctx, "/v2/snap/"+profile.Settings().APIProfile+"/json", snapRequest{
		Locations: lngLat(locations),
		Radius:    c.snapRadius,
	})
	if err != nil {
		return nil, err
	}

	var resp snapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode snap response: %v", domain.ErrExternalService, err)
	}
	if len(resp.Locations) != len(locations) {
		return nil, fmt.Errorf("%w: snap returned %d locations for %d inputs", domain.ErrExternalService, len(resp.Locations), len(locations))
	}

	out := make([]*domain.Coordinate, len(locations))
	for i, l := range resp.Locations {
		if l == nil || len(l.Location) < 2 {
			continue
		}
		pt := domain.Coordinate{Lat: l.Location[1], Lng: l.Location[0]}
		if pt.IsValid() {
			out[i] = &pt
		}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", domain.ErrExternalService, err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json, application/geo+json")
	req.Header.Set("Authorization", c.apiKey)
	req.SetBody(data)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(fallbackTimeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", domain.ErrExternalService, path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", domain.ErrExternalService, path, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		msg := resp.Body()
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: POST %s returned %d: %s", domain.ErrExternalService, path, status, msg)
	}
	return append([]byte(nil), resp.Body()...), nil
}

// decodeRoute reads the first feature of a GeoJSON directions response.
func decodeRoute(body []byte) ([]domain.Coordinate, error) {
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode directions response: %v", domain.ErrExternalService, err)
	}
	if len(fc.Features) == 0 || fc.Features[0].Geometry == nil {
		return nil, fmt.Errorf("%w: no route in directions response", domain.ErrExternalService)
	}

	var line orb.LineString
	switch g := fc.Features[0].Geometry.(type) {
	case orb.LineString:
		line = g
	case orb.MultiLineString:
		for _, part := range g {
			line = append(line, part...)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected geometry %s", domain.ErrExternalService, g.GeoJSONType())
	}

	route := make([]domain.Coordinate, 0, len(line))
	for _, p := range line {
		c := domain.Coordinate{Lat: p.Lat(), Lng: p.Lon()}
		if c.IsValid() {
			route = append(route, c)
		}
	}
	if len(route) < 2 {
		return nil, fmt.Errorf("%w: route geometry has %d usable points", domain.ErrExternalService, len(route))
	}
	return route, nil
}

func lngLat(coords []domain.Coordinate) [][2]float64 {
	out := make([][2]float64, len(coords))
	for i, c := range coords {
		out[i] = [2]float64{c.Lng, c.Lat}
	}
	return out
}
