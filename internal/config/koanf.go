// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/screenscout/config.yaml",
	"/etc/screenscout/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all sensible default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		TMDB: TMDBConfig{
			APIKey:         "",
			BaseURL:        "https://api.themoviedb.org/3",
			Language:       "en",
			Timeout:        10 * time.Second,
			MaxRetries:     3,
			RetryBaseDelay: 1 * time.Second,
			RateLimit:      40, // provider allows ~50 req/s; stay under it
			Breaker: BreakerConfig{
				FailureThreshold: 5,
				Cooldown:         30 * time.Second,
			},
		},
		Cache: CacheConfig{
			TrendingTTL:        24 * time.Hour,
			SearchTTL:          15 * time.Minute,
			DetailsTTL:         12 * time.Hour,
			SuggestionsTTL:     time.Hour,
			RecommendationsTTL: 30 * time.Minute,
			CleanupInterval:    5 * time.Minute,
		},
		Search: SearchConfig{
			FetchPages:      3,
			DefaultPageSize: 20,
			MaxPageSize:     50,
			RelevanceFloor:  10,
		},
		Recommend: RecommendConfig{
			GenreDecay:        0.95,
			DetailDecay:       0.9,
			DirectorWeight:    2.5,
			DeepSignalItems:   3,
			SecondaryDeadline: 1500 * time.Millisecond,
			HomeFeedSize:      20,
			ItemDetailSize:    12,
			GenreCap:          3,
			OutlierScore:      30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if found)
//  3. Environment variables: highest priority
//
// The resulting Config is validated before being returned; a missing
// provider API key fails here rather than on the first upstream call.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// TMDB_API_KEY -> tmdb.api_key, SERVER_PORT -> server.port, etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path of the first file found, or empty string.
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

// envSectionPrefixes maps environment variable prefixes to config sections.
// Variables without a known prefix are ignored so unrelated environment
// noise never leaks into the configuration.
var envSectionPrefixes = map[string]string{
	"server_":    "server.",
	"tmdb_":      "tmdb.",
	"cache_":     "cache.",
	"search_":    "search.",
	"recommend_": "recommend.",
	"log_":       "logging.",
}

// envTransformFunc transforms environment variable names to koanf paths.
//
// Examples:
//   - TMDB_API_KEY        -> tmdb.api_key
//   - TMDB_BREAKER_COOLDOWN -> tmdb.breaker.cooldown
//   - SERVER_PORT         -> server.port
//   - CACHE_SEARCH_TTL    -> cache.search_ttl
//   - LOG_LEVEL           -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	for prefix, section := range envSectionPrefixes {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)

		// Breaker settings nest one level deeper under tmdb.
		if section == "tmdb." && strings.HasPrefix(rest, "breaker_") {
			return "tmdb.breaker." + strings.TrimPrefix(rest, "breaker_")
		}
		return section + rest
	}

	// Unknown variable: return empty to skip it.
	return ""
}

// sliceConfigPaths lists config paths that must be parsed as
// comma-separated slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as plain strings; YAML values are
// already slices and pass through untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok {
			continue
		}
		var parts []string
		for _, item := range strings.Split(str, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
