// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the Screenscout server.
//
// Configuration is loaded via Koanf v2 with layered sources
// (highest priority wins): environment variables, optional YAML
// config file, built-in defaults. See Load().
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Cache     CacheConfig     `koanf:"cache"`
	Search    SearchConfig    `koanf:"search"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// ReadTimeout and WriteTimeout bound slow clients, not upstream calls.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout is the grace period for in-flight requests on SIGTERM.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitReqs / RateLimitWindow configure per-IP request rate limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// TMDBConfig holds settings for the upstream metadata provider client.
type TMDBConfig struct {
	// APIKey authenticates every provider request. Required.
	APIKey string `koanf:"api_key"`

	// BaseURL is the provider API root. Overridable for testing.
	BaseURL string `koanf:"base_url"`

	// Language is the platform default language code. The preference
	// extractor excludes it when deriving a top-language signal.
	Language string `koanf:"language"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries bounds retry attempts for transient failures
	// (HTTP 429, 5xx, connection errors).
	MaxRetries int `koanf:"max_retries"`

	// RetryBaseDelay is the first backoff delay; it doubles each attempt.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RateLimit is the client-side request budget per second toward
	// the provider. Zero disables client-side rate limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// Breaker configures the circuit breaker guarding the provider.
	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker tuning.
type BreakerConfig struct {
	// FailureThreshold is the consecutive-failure count that opens the circuit.
	FailureThreshold uint32 `koanf:"failure_threshold"`

	// Cooldown is how long the circuit stays open before allowing a probe.
	Cooldown time.Duration `koanf:"cooldown"`
}

// CacheConfig holds per-category TTLs for the compute-or-serve cache.
type CacheConfig struct {
	TrendingTTL        time.Duration `koanf:"trending_ttl"`
	SearchTTL          time.Duration `koanf:"search_ttl"`
	DetailsTTL         time.Duration `koanf:"details_ttl"`
	SuggestionsTTL     time.Duration `koanf:"suggestions_ttl"`
	RecommendationsTTL time.Duration `koanf:"recommendations_ttl"`

	// CleanupInterval is how often expired entries are swept.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// SearchConfig tunes the search relevance pipeline.
type SearchConfig struct {
	// FetchPages is how many raw provider pages are merged per query.
	FetchPages int `koanf:"fetch_pages"`

	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	// RelevanceFloor drops noise when sorting by relevance.
	RelevanceFloor float64 `koanf:"relevance_floor"`
}

// RecommendConfig tunes preference extraction and ranking.
type RecommendConfig struct {
	// GenreDecay weights watch history by recency (decay^index).
	GenreDecay float64 `koanf:"genre_decay"`

	// DetailDecay weights the deep-signal items fetched for details.
	DetailDecay float64 `koanf:"detail_decay"`

	// DirectorWeight multiplies director credits over other people.
	DirectorWeight float64 `koanf:"director_weight"`

	// DeepSignalItems is how many recent history/list entries get a
	// full detail fetch during preference extraction.
	DeepSignalItems int `koanf:"deep_signal_items"`

	// SecondaryDeadline bounds the enhancement discovery sources.
	// Expired sources resolve to empty result sets, not errors.
	SecondaryDeadline time.Duration `koanf:"secondary_deadline"`

	// HomeFeedSize and ItemDetailSize are the final list lengths.
	HomeFeedSize   int `koanf:"home_feed_size"`
	ItemDetailSize int `koanf:"item_detail_size"`

	// GenreCap limits items sharing a primary genre in the home feed.
	GenreCap int `koanf:"genre_cap"`

	// OutlierScore bypasses the genre cap for exceptional candidates.
	OutlierScore float64 `koanf:"outlier_score"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that required configuration is present and valid.
// A missing provider API key fails here, before any network call.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLimits()
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url must not be empty")
	}
	if _, err := url.Parse(c.TMDB.BaseURL); err != nil {
		return fmt.Errorf("tmdb.base_url is not a valid URL: %w", err)
	}
	if c.TMDB.MaxRetries < 0 {
		return fmt.Errorf("tmdb.max_retries must not be negative")
	}
	if c.TMDB.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("tmdb.breaker.failure_threshold must be at least 1")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Search.FetchPages < 1 {
		return fmt.Errorf("search.fetch_pages must be at least 1")
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("search.max_page_size must be >= search.default_page_size")
	}
	if c.Recommend.GenreDecay <= 0 || c.Recommend.GenreDecay > 1 {
		return fmt.Errorf("recommend.genre_decay must be in (0, 1], got %v", c.Recommend.GenreDecay)
	}
	if c.Recommend.DetailDecay <= 0 || c.Recommend.DetailDecay > 1 {
		return fmt.Errorf("recommend.detail_decay must be in (0, 1], got %v", c.Recommend.DetailDecay)
	}
	if c.Recommend.HomeFeedSize < 1 || c.Recommend.ItemDetailSize < 1 {
		return fmt.Errorf("recommend output sizes must be at least 1")
	}
	return nil
}
