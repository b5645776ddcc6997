package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

// ErrCacheMiss is returned by CacheService.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// RoutingProvider is an external road-routing service.
type RoutingProvider interface {
	// Directions returns a road-following route through waypoints, in order.
	Directions(ctx context.Context, waypoints []domain.Coordinate, profile domain.TravelProfile) ([]domain.Coordinate, error)
	// Snap moves each location onto the nearest road. The result has the same
	// length as locations; a nil entry means no road was found nearby.
	Snap(ctx context.Context, locations []domain.Coordinate, profile domain.TravelProfile) ([]*domain.Coordinate, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRouteGenerated(ctx context.Context, event *domain.RouteGeneratedEvent) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
