package usecases_test

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/core/pathing"
	"github.com/samirrijal/sketchroute/internal/core/ports"
	"github.com/samirrijal/sketchroute/internal/core/usecases"
	"github.com/samirrijal/sketchroute/internal/pkg/retry"
)

// --- Mock RoutingProvider ---

type mockProvider struct {
	mu           sync.Mutex
	directions   int
	directionsFn func(ctx context.Context, waypoints []domain.Coordinate, profile domain.TravelProfile) ([]domain.Coordinate, error)
	snapFn       func(ctx context.Context, locations []domain.Coordinate, profile domain.TravelProfile) ([]*domain.Coordinate, error)
}

func (m *mockProvider) Directions(ctx context.Context, waypoints []domain.Coordinate, profile domain.TravelProfile) ([]domain.Coordinate, error) {
	m.mu.Lock()
	m.directions++
	m.mu.Unlock()
	if m.directionsFn != nil {
		return m.directionsFn(ctx, waypoints, profile)
	}
	return densify(waypoints), nil
}

func (m *mockProvider) Snap(ctx context.Context, locations []domain.Coordinate, profile domain.TravelProfile) ([]*domain.Coordinate, error) {
	if m.snapFn != nil {
		return m.snapFn(ctx, locations, profile)
	}
	return make([]*domain.Coordinate, len(locations)), nil
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.directions
}

// densify inserts a midpoint into every segment, like a road that bends a little.
func densify(waypoints []domain.Coordinate) []domain.Coordinate {
	out := make([]domain.Coordinate, 0, 2*len(waypoints))
	for i, w := range waypoints {
		if i > 0 {
			mid := waypoints[i-1].Lerp(w, 0.5)
			mid.Lat += 0.0004
			out = append(out, mid)
		}
		out = append(out, w)
	}
	return out
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	events    []*domain.RouteGeneratedEvent
	publishFn func(ctx context.Context, event *domain.RouteGeneratedEvent) error
}

func (m *mockPublisher) PublishRouteGenerated(ctx context.Context, event *domain.RouteGeneratedEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}

// --- helpers ---

type instantTimer struct{ c chan time.Time }

func (t *instantTimer) Start(time.Duration) { t.c <- time.Now() }
func (t *instantTimer) Stop()               {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

func instantRetrier() *retry.Retrier {
	return retry.New(retry.DefaultPolicy, retry.WithTimer(func() backoff.Timer {
		return &instantTimer{c: make(chan time.Time, 1)}
	}))
}

func newFetcher(provider ports.RoutingProvider, cache ports.CacheService, snap bool) *usecases.RouteFetcher {
	var rc *usecases.RouteCache
	if cache != nil {
		rc = usecases.NewRouteCache(cache, 0)
	}
	smoother := pathing.NewSmoother(nil)
	return usecases.NewRouteFetcher(provider, rc, instantRetrier(),
		pathing.NewDetector(pathing.DefaultCurvatureThreshold),
		pathing.NewSimulator(smoother),
		usecases.FetcherOptions{SnapEnabled: snap},
	)
}

func newService(provider ports.RoutingProvider, publisher ports.EventPublisher) *usecases.GenerationService {
	return usecases.NewGenerationService(
		newFetcher(provider, newMockCache(), false),
		pathing.NewDetector(pathing.DefaultCurvatureThreshold),
		pathing.NewSmoother(nil),
		publisher,
	)
}

// parisLine is an open, gently curving walk across central Paris.
func parisLine() []domain.Coordinate {
	return []domain.Coordinate{
		{Lat: 48.8530, Lng: 2.3400},
		{Lat: 48.8550, Lng: 2.3450},
		{Lat: 48.8560, Lng: 2.3520},
		{Lat: 48.8590, Lng: 2.3570},
	}
}
