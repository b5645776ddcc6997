package domain

import "time"

// GenerationMethod tells how the road-following route was obtained.
type GenerationMethod string

const (
	MethodAPI        GenerationMethod = "api"
	MethodSimulation GenerationMethod = "simulation"
)

// GenerateRequest is the input for one route generation.
// Exactly one of Points and ScreenPoints is used; Points wins when both are set.
type GenerateRequest struct {
	Points        []Coordinate  `json:"points,omitempty" validate:"omitempty,dive"`
	ScreenPoints  []ScreenPoint `json:"screenPoints,omitempty" validate:"omitempty,dive"`
	MaxDistanceKm float64       `json:"maxDistanceKm" validate:"gt=0,lte=100"`
	UserLocation  *Coordinate   `json:"userLocation,omitempty" validate:"omitempty"`
	Profile       string        `json:"profile,omitempty" validate:"omitempty,oneof=foot bike car"`
	Name          string        `json:"name,omitempty" validate:"max=200"`
	Description   string        `json:"description,omitempty" validate:"max=1000"`
}

// RouteMetadata describes how a route was produced.
type RouteMetadata struct {
	OriginalPointsCount int              `json:"originalPointsCount"`
	FinalPointsCount    int              `json:"finalPointsCount"`
	GenerationMethod    GenerationMethod `json:"generationMethod"`
	ProcessingTimeMs    int64            `json:"processingTimeMs"`
	Profile             TravelProfile    `json:"profile"`
	Attempts            int              `json:"attempts"`
	CacheHit            bool             `json:"cacheHit"`
	StartIndex          int              `json:"startIndex"`
}

// GeneratedRoute is the result of a successful generation.
type GeneratedRoute struct {
	Success     bool          `json:"success"`
	Coordinates []Coordinate  `json:"coordinates"`
	GPXContent  string        `json:"gpxContent"`
	Distance    string        `json:"distance"`
	DistanceKm  float64       `json:"-"`
	StartPoint  Coordinate    `json:"startPoint"`
	Metadata    RouteMetadata `json:"metadata"`
}

// RouteGeneratedEvent is published after each successful generation.
type RouteGeneratedEvent struct {
	ID               string           `json:"id"`
	Profile          TravelProfile    `json:"profile"`
	GenerationMethod GenerationMethod `json:"generationMethod"`
	DistanceKm       float64          `json:"distanceKm"`
	Points           int              `json:"points"`
	StartPoint       Coordinate       `json:"startPoint"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}
