package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/core/pathing"
	"github.com/samirrijal/sketchroute/internal/core/ports"
	"github.com/samirrijal/sketchroute/internal/pkg/metrics"
	"github.com/samirrijal/sketchroute/internal/pkg/retry"
)

// FetchResult is a road-following route and how it was obtained.
type FetchResult struct {
	Route    []domain.Coordinate
	Method   domain.GenerationMethod
	Attempts int
	CacheHit bool
}

// FetcherOptions tunes a RouteFetcher.
type FetcherOptions struct {
	SnapEnabled   bool
	AlignRadiusKm float64
}

// RouteFetcher turns waypoints into a road-following route, falling back to
// a simulated route when the provider cannot deliver one.
type RouteFetcher struct {
	provider  ports.RoutingProvider
	cache     *RouteCache
	retrier   *retry.Retrier
	detector  *pathing.Detector
	simulator *pathing.Simulator
	opts      FetcherOptions
	group     singleflight.Group
}

// NewRouteFetcher creates a RouteFetcher. provider and cache may be nil.
func NewRouteFetcher(
	provider ports.RoutingProvider,
	cache *RouteCache,
	retrier *retry.Retrier,
	detector *pathing.Detector,
	simulator *pathing.Simulator,
	opts FetcherOptions,
) *RouteFetcher {
	if retrier == nil {
		retrier = retry.New(retry.DefaultPolicy)
	}
	if detector == nil {
		detector = pathing.NewDetector(pathing.DefaultCurvatureThreshold)
	}
	if simulator == nil {
		simulator = pathing.NewSimulator(pathing.NewSmoother(pathing.GlobalRandom))
	}
	if opts.AlignRadiusKm <= 0 {
		opts.AlignRadiusKm = pathing.DefaultAlignRadiusKm
	}
	return &RouteFetcher{
		provider:  provider,
		cache:     cache,
		retrier:   retrier,
		detector:  detector,
		simulator: simulator,
		opts:      opts,
	}
}

// Fetch never fails: provider errors degrade to MethodSimulation.
func (f *RouteFetcher) Fetch(ctx context.Context, waypoints []domain.Coordinate, profile domain.TravelProfile) FetchResult {
	clean := domain.FilterValid(waypoints)
	if len(clean) < 2 || f.provider == nil {
		return FetchResult{Route: f.simulator.Simulate(clean, profile), Method: domain.MethodSimulation}
	}

	key := RouteCacheKey(clean, profile)
	if route, ok := f.cache.Get(ctx, key); ok {
		return FetchResult{Route: route, Method: domain.MethodAPI, CacheHit: true}
	}

	// The shared fetch outlives any single caller; the retrier bounds it with
	// per-attempt timeouts.
	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(key, func() (any, error) {
		return f.fetchRemote(shared, key, clean, profile), nil
	})
	select {
	case r := <-ch:
		res := r.Val.(FetchResult)
		if r.Shared {
			res.Route = domain.Clone(res.Route)
		}
		return res
	case <-ctx.Done():
		slog.DebugContext(ctx, "caller gave up on shared route fetch", "error", ctx.Err())
		return FetchResult{Route: f.simulator.Simulate(clean, profile), Method: domain.MethodSimulation}
	}
}

func (f *RouteFetcher) fetchRemote(ctx context.Context, key string, clean []domain.Coordinate, profile domain.TravelProfile) FetchResult {
	snapped := clean
	if f.opts.SnapEnabled {
		snapped = f.snap(ctx, clean, profile)
	}
	keep := f.detector.Keep(snapped, profile.Settings().MaxWaypoints)
	waypoints := make([]domain.Coordinate, len(keep))
	reduced := make([]domain.Coordinate, len(keep))
	for i, j := range keep {
		waypoints[i], reduced[i] = snapped[j], clean[j]
	}

	var route []domain.Coordinate
	outcome := f.retrier.Do(ctx, "directions", func(actx context.Context) error {
		r, err := f.provider.Directions(actx, waypoints, profile)
		if err == nil {
			r = domain.FilterValid(r)
			if len(r) < 2 {
				err = fmt.Errorf("%w: route has %d valid points", domain.ErrExternalService, len(r))
			}
		}
		if err != nil {
			metrics.ProviderAttempts.WithLabelValues("directions", "failure").Inc()
			if errors.Is(err, domain.ErrMissingAPIKey) {
				return retry.Permanent(err)
			}
			return err
		}
		metrics.ProviderAttempts.WithLabelValues("directions", "success").Inc()
		route = r
		return nil
	})

	if outcome.Exhausted() {
		slog.WarnContext(ctx, "routing provider unavailable, simulating route",
			"profile", profile,
			"attempts", outcome.Attempts,
			"error", outcome.Err,
		)
		return FetchResult{
			Route:    f.simulator.Simulate(clean, profile),
			Method:   domain.MethodSimulation,
			Attempts: outcome.Attempts,
		}
	}

	aligned := pathing.AlignToWaypoints(route, reduced, f.opts.AlignRadiusKm)
	f.cache.Put(ctx, key, aligned)
	return FetchResult{Route: aligned, Method: domain.MethodAPI, Attempts: outcome.Attempts}
}

// snap is best effort: one attempt, and unsnappable points keep their raw position.
func (f *RouteFetcher) snap(ctx context.Context, waypoints []domain.Coordinate, profile domain.TravelProfile) []domain.Coordinate {
	sctx, cancel := context.WithTimeout(ctx, f.retrier.Policy().AttemptTimeout)
	defer cancel()

	snapped, err := f.provider.Snap(sctx, waypoints, profile)
	if err != nil || len(snapped) != len(waypoints) {
		metrics.ProviderAttempts.WithLabelValues("snap", "failure").Inc()
		slog.DebugContext(ctx, "snap to road skipped", "error", err)
		return waypoints
	}
	metrics.ProviderAttempts.WithLabelValues("snap", "success").Inc()

	out := make([]domain.Coordinate, len(waypoints))
	for i, w := range waypoints {
		out[i] = w
		if snapped[i] != nil {
			out[i] = *snapped[i]
		}
	}
	return out
}
