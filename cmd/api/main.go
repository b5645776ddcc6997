package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/sketchroute/internal/adapters/http"
	"github.com/samirrijal/sketchroute/internal/adapters/memory"
	natsadapter "github.com/samirrijal/sketchroute/internal/adapters/nats"
	"github.com/samirrijal/sketchroute/internal/adapters/openrouteservice"
	"github.com/samirrijal/sketchroute/internal/adapters/valkey"
	"github.com/samirrijal/sketchroute/internal/core/pathing"
	"github.com/samirrijal/sketchroute/internal/core/ports"
	"github.com/samirrijal/sketchroute/internal/core/usecases"
	"github.com/samirrijal/sketchroute/internal/pkg/config"
	"github.com/samirrijal/sketchroute/internal/pkg/logging"
	"github.com/samirrijal/sketchroute/internal/pkg/retry"
	"github.com/samirrijal/sketchroute/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("sketchroute-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	deps := &http.Dependencies{Version: version}

	// Route cache
	var cache ports.CacheService
	switch cfg.Cache.Backend {
	case "valkey":
		vc, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, using in-process cache", "error", err)
			cache = memory.New(cfg.Cache.Size, cfg.Cache.TTL)
		} else {
			defer vc.Close()
			cache = vc
			deps.Cache = vc
		}
	case "memory":
		cache = memory.New(cfg.Cache.Size, cfg.Cache.TTL)
	}

	// Routing provider
	if cfg.Routing.APIKey == "" {
		slog.Warn("routing.api_key not set, every route will be simulated")
	}
	provider := openrouteservice.New(openrouteservice.Config{
		BaseURL:           cfg.Routing.BaseURL,
		APIKey:            cfg.Routing.APIKey,
		RequestsPerMinute: cfg.Routing.RequestsPerMinute,
		SnapRadiusMeters:  cfg.Routing.SnapRadius,
	})

	// NATS
	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}

		// Raw NATS connection for WebSocket relay
		natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		} else {
			defer natsConn.Close()
			deps.NATS = natsConn
		}
	}

	// Pipeline
	retrier := retry.New(retry.Policy{
		MaxAttempts:    cfg.Routing.MaxAttempts,
		BaseDelay:      cfg.Routing.BaseBackoff,
		MaxDelay:       cfg.Routing.MaxBackoff,
		AttemptTimeout: cfg.Routing.AttemptTimeout,
	})
	detector := pathing.NewDetector(cfg.Pipeline.CurvatureThreshold)
	smoother := pathing.NewSmoother(pathing.GlobalRandom)
	fetcher := usecases.NewRouteFetcher(
		provider,
		usecases.NewRouteCache(cache, cfg.Cache.TTL),
		retrier,
		detector,
		pathing.NewSimulator(smoother),
		usecases.FetcherOptions{
			SnapEnabled:   cfg.Routing.SnapEnabled,
			AlignRadiusKm: cfg.Routing.AlignRadiusM / 1000,
		},
	)
	deps.Routes = usecases.NewGenerationService(fetcher, detector, smoother, publisher)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    2 * 1024 * 1024, // dense drawings run to a few thousand points
		AppName:      "Sketchroute API",
		ErrorHandler: http.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		ExposeHeaders:    "Content-Disposition, X-Generation-Method, X-Route-Distance",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "cache", cfg.Cache.Backend, "nats", cfg.NATS.Enabled)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Generation can take several provider attempts; give it room to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
