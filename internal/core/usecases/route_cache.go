package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/core/ports"
	"github.com/samirrijal/sketchroute/internal/pkg/metrics"
)

// DefaultRouteTTL is how long a provider route stays reusable.
const DefaultRouteTTL = 10 * time.Minute

type cacheEntry struct {
	Route     []domain.Coordinate `json:"route"`
	Timestamp time.Time           `json:"timestamp"`
}

// RouteCache stores provider routes keyed by profile and waypoints.
// A nil backend turns every operation into a no-op.
type RouteCache struct {
	backend ports.CacheService
	ttl     time.Duration
	now     func() time.Time
}

// NewRouteCache wraps backend. A non-positive ttl uses DefaultRouteTTL.
func NewRouteCache(backend ports.CacheService, ttl time.Duration) *RouteCache {
	if ttl <= 0 {
		ttl = DefaultRouteTTL
	}
	return &RouteCache{backend: backend, ttl: ttl, now: time.Now}
}

// RouteCacheKey derives the cache key for waypoints rounded to 5 decimals.
func RouteCacheKey(waypoints []domain.Coordinate, profile domain.TravelProfile) string {
	h := xxhash.New()
	buf := make([]byte, 0, 32)
	for _, w := range waypoints {
		buf = strconv.AppendFloat(buf[:0], round5(w.Lat), 'f', 5, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, round5(w.Lng), 'f', 5, 64)
		buf = append(buf, ';')
		_, _ = h.Write(buf)
	}
	return "route:" + string(profile) + ":" + strconv.FormatUint(h.Sum64(), 16)
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// Get returns a fresh copy of the cached route, if present and not expired.
func (c *RouteCache) Get(ctx context.Context, key string) ([]domain.Coordinate, bool) {
	if c == nil || c.backend == nil {
		return nil, false
	}
	data, err := c.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			slog.WarnContext(ctx, "route cache read failed", "key", key, "error", err)
		}
		metrics.CacheMisses.WithLabelValues("route").Inc()
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.WarnContext(ctx, "discarding corrupt route cache entry", "key", key, "error", err)
		_ = c.backend.Delete(ctx, key)
		metrics.CacheMisses.WithLabelValues("route").Inc()
		return nil, false
	}
	if c.now().Sub(entry.Timestamp) > c.ttl || len(entry.Route) < 2 {
		_ = c.backend.Delete(ctx, key)
		metrics.CacheMisses.WithLabelValues("route").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("route").Inc()
	return entry.Route, true
}

// Put stores route under key. Failures are logged and otherwise ignored.
func (c *RouteCache) Put(ctx context.Context, key string, route []domain.Coordinate) {
	if c == nil || c.backend == nil {
		return
	}
	data, err := json.Marshal(cacheEntry{Route: route, Timestamp: c.now()})
	if err != nil {
		slog.WarnContext(ctx, "route cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.backend.Set(ctx, key, data, int(c.ttl/time.Second)); err != nil {
		slog.WarnContext(ctx, "route cache write failed", "key", key, "error", err)
	}
}
