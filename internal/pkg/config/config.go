package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// RoutingConfig configures the road-routing provider and the retry policy around it.
type RoutingConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	AttemptTimeout    time.Duration `mapstructure:"attempt_timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	BaseBackoff       time.Duration `mapstructure:"base_backoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
	SnapEnabled       bool          `mapstructure:"snap_enabled"`
	SnapRadius        float64       `mapstructure:"snap_radius"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	AlignRadiusM      float64       `mapstructure:"align_radius_m"`
}

// CacheConfig selects the route cache backend. Backend is "memory", "valkey" or "none".
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Size    int           `mapstructure:"size"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type PipelineConfig struct {
	CurvatureThreshold float64 `mapstructure:"curvature_threshold"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: SKETCHROUTE_ROUTING_API_KEY → routing.api_key
	v.SetEnvPrefix("SKETCHROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("routing.base_url", "https://api.openrouteservice.org")
	v.SetDefault("routing.api_key", "")
	v.SetDefault("routing.attempt_timeout", 30*time.Second)
	v.SetDefault("routing.max_attempts", 3)
	v.SetDefault("routing.base_backoff", time.Second)
	v.SetDefault("routing.max_backoff", 5*time.Second)
	v.SetDefault("routing.snap_enabled", true)
	v.SetDefault("routing.snap_radius", 350.0)
	v.SetDefault("routing.requests_per_minute", 40)
	v.SetDefault("routing.align_radius_m", 200.0)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.size", 1024)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("pipeline.curvature_threshold", 0.1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Routing.BaseURL == "" {
		errs = append(errs, "routing.base_url is required")
	}
	if c.Routing.MaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("routing.max_attempts must be at least 1, got %d", c.Routing.MaxAttempts))
	}
	if c.Routing.AttemptTimeout <= 0 {
		errs = append(errs, "routing.attempt_timeout must be positive")
	}
	if c.Routing.BaseBackoff < 0 || c.Routing.MaxBackoff < c.Routing.BaseBackoff {
		errs = append(errs, "routing.base_backoff must be >= 0 and <= routing.max_backoff")
	}
	if c.Routing.SnapRadius <= 0 {
		errs = append(errs, "routing.snap_radius must be positive")
	}
	if c.Routing.RequestsPerMinute < 0 {
		errs = append(errs, "routing.requests_per_minute must not be negative")
	}
	if c.Routing.AlignRadiusM <= 0 {
		errs = append(errs, "routing.align_radius_m must be positive")
	}
	switch c.Cache.Backend {
	case "memory", "none":
	case "valkey":
		if c.Valkey.Addr == "" {
			errs = append(errs, "valkey.addr is required when cache.backend is valkey")
		}
	default:
		errs = append(errs, fmt.Sprintf("cache.backend must be memory, valkey or none, got %q", c.Cache.Backend))
	}
	if c.Cache.Backend != "none" && c.Cache.TTL <= 0 {
		errs = append(errs, "cache.ttl must be positive")
	}
	if c.Cache.Backend == "memory" && c.Cache.Size <= 0 {
		errs = append(errs, "cache.size must be positive")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats.enabled is true")
	}
	if c.Telemetry.Enabled && c.Telemetry.TempoAddr == "" {
		errs = append(errs, "telemetry.tempo_addr is required when telemetry.enabled is true")
	}
	if c.Pipeline.CurvatureThreshold <= 0 || c.Pipeline.CurvatureThreshold >= 2 {
		errs = append(errs, fmt.Sprintf("pipeline.curvature_threshold must be in (0, 2), got %g", c.Pipeline.CurvatureThreshold))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
