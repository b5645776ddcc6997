package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/core/pathing"
	"github.com/samirrijal/sketchroute/internal/core/ports"
	"github.com/samirrijal/sketchroute/internal/pkg/gpxexport"
	"github.com/samirrijal/sketchroute/internal/pkg/metrics"
	"github.com/samirrijal/sketchroute/internal/pkg/telemetry"
)

// GenerationService turns a drawing into a road-following route and its GPX export.
type GenerationService struct {
	fetcher    *RouteFetcher
	detector   *pathing.Detector
	smoother   *pathing.Smoother
	publisher  ports.EventPublisher
	serializer gpxexport.Serializer
	validate   *validator.Validate
	tracer     trace.Tracer
	now        func() time.Time
}

// NewGenerationService creates a GenerationService. publisher may be nil.
func NewGenerationService(fetcher *RouteFetcher, detector *pathing.Detector, smoother *pathing.Smoother, publisher ports.EventPublisher) *GenerationService {
	if detector == nil {
		detector = pathing.NewDetector(pathing.DefaultCurvatureThreshold)
	}
	if smoother == nil {
		smoother = pathing.NewSmoother(pathing.GlobalRandom)
	}
	return &GenerationService{
		fetcher:   fetcher,
		detector:  detector,
		smoother:  smoother,
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		tracer:    otel.Tracer(telemetry.TracerName),
		now:       time.Now,
	}
}

// Generate runs the full pipeline for one request.
func (s *GenerationService) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GeneratedRoute, error) {
	started := s.now()
	ctx, span := s.tracer.Start(ctx, "GenerationService.Generate")
	defer span.End()

	profile, points, err := s.prepare(ctx, req)
	if err != nil {
		return nil, s.fail(span, "validate", err)
	}
	span.SetAttributes(
		attribute.String("route.profile", string(profile)),
		attribute.Int("route.input_points", len(points)),
	)

	_, startSpan := s.tracer.Start(ctx, "pathing.OptimalStart")
	startIdx := s.detector.OptimalStart(points, req.UserLocation, req.MaxDistanceKm)
	ordered := pathing.StartAt(points, startIdx)
	startSpan.SetAttributes(attribute.Int("route.start_index", startIdx))
	startSpan.End()

	fetchCtx, fetchSpan := s.tracer.Start(ctx, "RouteFetcher.Fetch")
	res := s.fetcher.Fetch(fetchCtx, ordered, profile)
	fetchSpan.SetAttributes(
		attribute.String("route.method", string(res.Method)),
		attribute.Int("route.attempts", res.Attempts),
		attribute.Bool("route.cache_hit", res.CacheHit),
	)
	fetchSpan.End()

	_, shapeSpan := s.tracer.Start(ctx, "pathing.Shape")
	route := pathing.Limit(res.Route, req.MaxDistanceKm)
	if res.Method == domain.MethodAPI {
		route = s.smoother.Smooth(route, profile)
	}
	// jitter can stretch the route past the budget again
	route = pathing.Limit(domain.FilterValid(route), req.MaxDistanceKm)
	shapeSpan.End()

	_, gpxSpan := s.tracer.Start(ctx, "gpxexport.Serialize")
	distanceKm := pathing.PathDistanceKm(route)
	doc, err := s.serializer.Serialize(route, gpxexport.Metadata{Name: req.Name, Description: req.Description})
	gpxSpan.End()
	if err != nil {
		return nil, s.fail(span, "gpx", err)
	}

	out := &domain.GeneratedRoute{
		Success:     true,
		Coordinates: route,
		GPXContent:  doc,
		Distance:    fmt.Sprintf("%.2f km", distanceKm),
		DistanceKm:  distanceKm,
		StartPoint:  route[0],
		Metadata: domain.RouteMetadata{
			OriginalPointsCount: len(points),
			FinalPointsCount:    len(route),
			GenerationMethod:    res.Method,
			ProcessingTimeMs:    s.now().Sub(started).Milliseconds(),
			Profile:             profile,
			Attempts:            res.Attempts,
			CacheHit:            res.CacheHit,
			StartIndex:          startIdx,
		},
	}

	metrics.RoutesGenerated.WithLabelValues(string(profile), string(res.Method)).Inc()
	metrics.GenerationDuration.WithLabelValues(string(profile), string(res.Method)).Observe(s.now().Sub(started).Seconds())
	metrics.RoutePoints.WithLabelValues(string(profile)).Observe(float64(len(route)))

	s.publish(ctx, out)

	slog.InfoContext(ctx, "route generated",
		"profile", profile,
		"method", res.Method,
		"points", len(route),
		"distance_km", distanceKm,
		"cache_hit", res.CacheHit,
	)
	return out, nil
}

// prepare validates req and converts its points to cleaned coordinates.
func (s *GenerationService) prepare(ctx context.Context, req domain.GenerateRequest) (domain.TravelProfile, []domain.Coordinate, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}
	if req.UserLocation != nil && !req.UserLocation.IsValid() {
		return "", nil, fmt.Errorf("%w: userLocation is outside WGS 84 range", domain.ErrInvalidInput)
	}
	profile, err := domain.ParseProfile(req.Profile)
	if err != nil {
		return "", nil, err
	}

	var points []domain.Coordinate
	switch {
	case len(req.Points) > 0:
		points = pathing.ProjectGeo(req.Points)
	case len(req.ScreenPoints) > 0:
		points = pathing.Project(req.ScreenPoints, req.UserLocation, req.MaxDistanceKm)
	}
	if len(points) < 2 {
		return "", nil, fmt.Errorf("%w: at least 2 valid points are required, got %d", domain.ErrInvalidInput, len(points))
	}
	return profile, points, nil
}

func (s *GenerationService) publish(ctx context.Context, route *domain.GeneratedRoute) {
	if s.publisher == nil {
		return
	}
	event := &domain.RouteGeneratedEvent{
		ID:               uuid.NewString(),
		Profile:          route.Metadata.Profile,
		GenerationMethod: route.Metadata.GenerationMethod,
		DistanceKm:       route.DistanceKm,
		Points:           len(route.Coordinates),
		StartPoint:       route.StartPoint,
		GeneratedAt:      s.now().UTC(),
	}
	if err := s.publisher.PublishRouteGenerated(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish route event failed", "id", event.ID, "error", err)
	}
}

func (s *GenerationService) fail(span trace.Span, stage string, err error) error {
	metrics.GenerationFailures.WithLabelValues(stage).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)
	return &domain.StageError{Stage: stage, Err: err}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
