package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/samirrijal/sketchroute/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Routing.MaxAttempts != 3 || cfg.Routing.BaseBackoff != time.Second || cfg.Routing.MaxBackoff != 5*time.Second {
		t.Errorf("unexpected retry defaults %+v", cfg.Routing)
	}
	if cfg.Routing.AttemptTimeout != 30*time.Second {
		t.Errorf("attempt timeout = %v", cfg.Routing.AttemptTimeout)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("unexpected cache defaults %+v", cfg.Cache)
	}
	if cfg.Telemetry.ServiceName != "api" {
		t.Errorf("service name = %s", cfg.Telemetry.ServiceName)
	}
	if cfg.Pipeline.CurvatureThreshold != 0.1 {
		t.Errorf("curvature threshold = %g", cfg.Pipeline.CurvatureThreshold)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SKETCHROUTE_ROUTING_API_KEY", "abc")
	t.Setenv("SKETCHROUTE_SERVER_PORT", "9090")
	t.Setenv("SKETCHROUTE_CACHE_TTL", "2m")

	cfg, err := config.Load("api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Routing.APIKey != "abc" {
		t.Errorf("api key = %q", cfg.Routing.APIKey)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SKETCHROUTE_CACHE_BACKEND", "disk")

	if _, err := config.Load("api"); err == nil || !strings.Contains(err.Error(), "cache.backend") {
		t.Errorf("expected cache.backend error, got %v", err)
	}
}

func valid() config.Config {
	return config.Config{
		Server:   config.ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 60},
		Routing:  config.RoutingConfig{BaseURL: "http://ors", MaxAttempts: 3, AttemptTimeout: time.Second, BaseBackoff: time.Second, MaxBackoff: 5 * time.Second, SnapRadius: 350, AlignRadiusM: 200},
		Cache:    config.CacheConfig{Backend: "memory", TTL: time.Minute, Size: 10},
		Pipeline: config.PipelineConfig{CurvatureThreshold: 0.1},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{"ok", func(c *config.Config) {}, ""},
		{"bad port", func(c *config.Config) { c.Server.Port = 0 }, "server.port"},
		{"no attempts", func(c *config.Config) { c.Routing.MaxAttempts = 0 }, "routing.max_attempts"},
		{"backoff inverted", func(c *config.Config) { c.Routing.MaxBackoff = 0 }, "routing.base_backoff"},
		{"valkey without addr", func(c *config.Config) { c.Cache.Backend = "valkey" }, "valkey.addr"},
		{"nats without url", func(c *config.Config) { c.NATS.Enabled = true }, "nats.url"},
		{"threshold", func(c *config.Config) { c.Pipeline.CurvatureThreshold = 0 }, "curvature_threshold"},
		{"no cache skips ttl", func(c *config.Config) { c.Cache = config.CacheConfig{Backend: "none"} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := valid()
	cfg.Server.Port = -1
	cfg.Routing.BaseURL = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "server.port") || !strings.Contains(err.Error(), "routing.base_url") {
		t.Errorf("expected both violations, got %v", err)
	}
}
