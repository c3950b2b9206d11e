// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/nexttrack/config.yaml",
	"/etc/nexttrack/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration in three layers: struct defaults, an
// optional YAML file, then environment variables, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if origins := k.String("server.cors_origins"); strings.Contains(origins, ",") {
		cfg.Server.CORSOrigins = splitTrim(origins)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile resolves the config file path: the env override first,
// then the default search paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps environment variable names to koanf config paths.
//
//	HTTP_PORT          -> server.port
//	CATALOG_BASE_URL   -> catalog.base_url
//	LOG_LEVEL          -> logging.level
//	RECOMMEND_PROFILE  -> recommend.profile
func envTransform(key string) string {
	key = strings.ToLower(key)

	mappings := map[string]string{
		"http_host":                "server.host",
		"http_port":                "server.port",
		"http_read_timeout":        "server.read_timeout",
		"http_write_timeout":       "server.write_timeout",
		"http_shutdown_timeout":    "server.shutdown_timeout",
		"cors_origins":             "server.cors_origins",
		"catalog_base_url":         "catalog.base_url",
		"catalog_token":            "catalog.token",
		"catalog_timeout":          "catalog.timeout",
		"catalog_search_limit":     "catalog.search_limit",
		"catalog_rps":              "catalog.requests_per_second",
		"catalog_burst":            "catalog.burst",
		"catalog_cache_size":       "catalog.cache_size",
		"catalog_cache_ttl":        "catalog.cache_ttl",
		"catalog_breaker_failures": "catalog.breaker_failure_threshold",
		"catalog_breaker_cooldown": "catalog.breaker_cooldown",
		"log_level":                "logging.level",
		"log_format":               "logging.format",
		"log_caller":               "logging.caller",
		"recommend_profile":        "recommend.profile",
		"recommend_max_queries":    "recommend.max_queries",
		"recommend_max_results":    "recommend.max_recommendations",
		"recommend_trend_window":   "recommend.trend_window",
		"rate_limit_per_minute":    "rate_limit.requests_per_minute",
	}
	if path, ok := mappings[key]; ok {
		return path
	}
	// Unmapped variables are ignored rather than guessed at.
	return ""
}

// splitTrim splits a comma-separated string and trims whitespace.
func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
