// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

// Package config provides layered configuration for NextTrack:
// struct defaults, then an optional YAML file, then environment variables,
// each layer overriding the previous one.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zayLatt25/NextTrack/internal/recommend"
)

// Config is the root configuration for the NextTrack server.
type Config struct {
	Server    ServerConfig    `koanf:"server" validate:"required"`
	Catalog   CatalogConfig   `koanf:"catalog" validate:"required"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host" validate:"required"`

	// Port is the listen port.
	Port int `koanf:"port" validate:"min=1,max=65535"`

	// ReadTimeout bounds reading a request including the body.
	ReadTimeout time.Duration `koanf:"read_timeout" validate:"min=1s"`

	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"min=1s"`

	// ShutdownTimeout bounds graceful shutdown after SIGTERM.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// CatalogConfig configures the external music catalog client.
type CatalogConfig struct {
	// BaseURL is the catalog API root, e.g. "https://api.catalog.example".
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Token is the bearer token for catalog authentication.
	Token string `koanf:"token"`

	// Timeout bounds each catalog call.
	Timeout time.Duration `koanf:"timeout" validate:"min=100ms"`

	// SearchLimit bounds results per search query.
	SearchLimit int `koanf:"search_limit" validate:"min=1,max=50"`

	// RequestsPerSecond throttles outbound catalog calls. Zero disables
	// throttling.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0"`

	// Burst is the rate limiter burst size.
	Burst int `koanf:"burst" validate:"min=1"`

	// CacheSize is the maximum number of cached catalog responses.
	// Zero disables the cache.
	CacheSize int `koanf:"cache_size" validate:"min=0"`

	// CacheTTL bounds how long a cached catalog response stays valid.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"min=0"`

	// BreakerFailureThreshold is the consecutive-failure count that opens
	// the circuit breaker.
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold" validate:"min=1"`

	// BreakerCooldown is how long the breaker stays open before probing.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"min=1s"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`

	// Caller includes caller information in log lines.
	Caller bool `koanf:"caller"`
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	// Profile selects the scoring profile: classic or enhanced.
	Profile string `koanf:"profile" validate:"omitempty,oneof=classic enhanced"`

	// MaxQueries caps discovery queries per request.
	MaxQueries int `koanf:"max_queries" validate:"min=1,max=20"`

	// MaxRecommendations caps the returned list length.
	MaxRecommendations int `koanf:"max_recommendations" validate:"min=1,max=100"`

	// TrendWindow is the popularity-trend slope window.
	TrendWindow int `koanf:"trend_window" validate:"min=2,max=10"`
}

// RateLimitConfig configures inbound HTTP rate limiting.
type RateLimitConfig struct {
	// RequestsPerMinute is the per-client request budget. Zero disables
	// rate limiting.
	RequestsPerMinute int `koanf:"requests_per_minute" validate:"min=0"`
}

// defaultConfig returns a Config with production defaults. These are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8470,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Catalog: CatalogConfig{
			BaseURL:                 "https://api.deezer.com",
			Timeout:                 5 * time.Second,
			SearchLimit:             20,
			RequestsPerSecond:       10,
			Burst:                   5,
			CacheSize:               2048,
			CacheTTL:                10 * time.Minute,
			BreakerFailureThreshold: 5,
			BreakerCooldown:         30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			Profile:            "enhanced",
			MaxQueries:         6,
			MaxRecommendations: 20,
			TrendWindow:        3,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
		},
	}
}

// Validate checks the configuration using struct tags plus cross-field
// rules the tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.Catalog.CacheSize > 0 && c.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("catalog.cache_ttl must be positive when the cache is enabled")
	}
	return nil
}

// EngineConfig builds the recommendation engine configuration from the
// service configuration.
func (c *Config) EngineConfig() *recommend.Config {
	engine := recommend.DefaultConfig()
	engine.Profile = c.Recommend.Profile
	engine.Limits.MaxQueries = c.Recommend.MaxQueries
	engine.Limits.MaxRecommendations = c.Recommend.MaxRecommendations
	engine.Limits.TrendWindow = c.Recommend.TrendWindow
	return engine
}
