// Command sketchroute generates routes from drawings and inspects GPX files
// without running the HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/samirrijal/sketchroute/internal/adapters/memory"
	"github.com/samirrijal/sketchroute/internal/adapters/openrouteservice"
	"github.com/samirrijal/sketchroute/internal/core/pathing"
	"github.com/samirrijal/sketchroute/internal/core/ports"
	"github.com/samirrijal/sketchroute/internal/core/usecases"
	"github.com/samirrijal/sketchroute/internal/pkg/config"
	"github.com/samirrijal/sketchroute/internal/pkg/gpxexport"
	"github.com/samirrijal/sketchroute/internal/pkg/logging"
	"github.com/samirrijal/sketchroute/internal/pkg/retry"
)

const usage = `usage:
  sketchroute generate --in drawing.json [--out route.gpx] [--profile foot|bike|car] [--max-km N] [--name NAME] [--offline]
  sketchroute inspect route.gpx`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(ctx, os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		err = fmt.Errorf("unknown command: %s\n%s", os.Args[1], usage)
	}
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}

func runGenerate(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	in := fs.StringP("in", "i", "", "drawing file: a request JSON body or a GeoJSON LineString")
	out := fs.StringP("out", "o", "", "GPX output file (default stdout)")
	profile := fs.StringP("profile", "p", "", "travel profile: foot, bike or car (overrides the file)")
	maxKm := fs.Float64("max-km", 0, "maximum route length in km (overrides the file)")
	name := fs.String("name", "", "track name (overrides the file)")
	offline := fs.Bool("offline", false, "never call the routing provider, always simulate")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required\n%s", usage)
	}

	logging.Setup(*logLevel, "text")

	cfg, err := config.Load("sketchroute-cli")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read drawing: %w", err)
	}
	req, err := loadRequest(data)
	if err != nil {
		return err
	}
	if *profile != "" {
		req.Profile = *profile
	}
	if *maxKm > 0 {
		req.MaxDistanceKm = *maxKm
	}
	if *name != "" {
		req.Name = *name
	}
	if req.MaxDistanceKm == 0 {
		req.MaxDistanceKm = pathing.DefaultRadiusKm
	}

	var provider ports.RoutingProvider
	if !*offline && cfg.Routing.APIKey != "" {
		provider = openrouteservice.New(openrouteservice.Config{
			BaseURL:           cfg.Routing.BaseURL,
			APIKey:            cfg.Routing.APIKey,
			RequestsPerMinute: cfg.Routing.RequestsPerMinute,
			SnapRadiusMeters:  cfg.Routing.SnapRadius,
		})
	}

	detector := pathing.NewDetector(cfg.Pipeline.CurvatureThreshold)
	smoother := pathing.NewSmoother(pathing.GlobalRandom)
	fetcher := usecases.NewRouteFetcher(
		provider,
		usecases.NewRouteCache(memory.New(8, cfg.Cache.TTL), cfg.Cache.TTL),
		retry.New(retry.Policy{
			MaxAttempts:    cfg.Routing.MaxAttempts,
			BaseDelay:      cfg.Routing.BaseBackoff,
			MaxDelay:       cfg.Routing.MaxBackoff,
			AttemptTimeout: cfg.Routing.AttemptTimeout,
		}),
		detector,
		pathing.NewSimulator(smoother),
		usecases.FetcherOptions{
			SnapEnabled:   cfg.Routing.SnapEnabled,
			AlignRadiusKm: cfg.Routing.AlignRadiusM / 1000,
		},
	)
	svc := usecases.NewGenerationService(fetcher, detector, smoother, nil)

	route, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	if *out == "" {
		fmt.Print(route.GPXContent)
	} else if err := os.WriteFile(*out, []byte(route.GPXContent), 0o644); err != nil {
		return fmt.Errorf("write gpx: %w", err)
	}

	fmt.Fprintf(os.Stderr, "%s route, %s, %d points (%s, %d attempts)\n",
		route.Metadata.Profile, route.Distance, len(route.Coordinates),
		route.Metadata.GenerationMethod, route.Metadata.Attempts)
	return nil
}

func runInspect(args []string) error {
	fs := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect takes exactly one GPX file\n%s", usage)
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read gpx: %w", err)
	}
	s, err := gpxexport.Inspect(data)
	if err != nil {
		return err
	}

	fmt.Printf("name:     %s\n", s.Name)
	fmt.Printf("points:   %d\n", s.Points)
	fmt.Printf("distance: %.2f km\n", s.DistanceKm)
	fmt.Printf("bounds:   %.5f,%.5f .. %.5f,%.5f\n", s.Bounds.MinLat, s.Bounds.MinLng, s.Bounds.MaxLat, s.Bounds.MaxLng)
	return nil
}
