// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

// Package main is the entry point for the Screenscout server.
//
// Screenscout serves personalized movie and TV recommendations, search
// and typeahead suggestions on top of the TMDB metadata provider. The
// caller owns all user state: watch history and saved lists travel in
// the request, nothing is persisted server-side.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and optional config file (Koanf v2)
//  2. Upstream client: TMDB HTTP client with retries, rate limiting and
//     a circuit breaker
//  3. Caches: per-category in-memory stores plus the title suggestion index
//  4. Services: recommendation and search pipelines
//  5. HTTP server: chi router under /api/v1 plus /health and /metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (config.yaml),
// built-in defaults. TMDB_API_KEY is the only required setting.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests up to the
// configured shutdown timeout, then stops the cache sweepers.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/screenscout/screenscout/internal/api"
	"github.com/screenscout/screenscout/internal/cache"
	"github.com/screenscout/screenscout/internal/config"
	"github.com/screenscout/screenscout/internal/logging"
	"github.com/screenscout/screenscout/internal/recommend"
	"github.com/screenscout/screenscout/internal/search"
	"github.com/screenscout/screenscout/internal/tmdb"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("listen", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Str("tmdb_base_url", cfg.TMDB.BaseURL).
		Msg("Starting Screenscout")

	client := tmdb.NewClient(&cfg.TMDB)

	stores := map[string]*cache.Store{
		"feeds":    cache.New("feeds", cfg.Cache.RecommendationsTTL, cfg.Cache.CleanupInterval),
		"details":  cache.New("details", cfg.Cache.DetailsTTL, cfg.Cache.CleanupInterval),
		"trending": cache.New("trending", cfg.Cache.TrendingTTL, cfg.Cache.CleanupInterval),
		"search":   cache.New("search", cfg.Cache.SearchTTL, cfg.Cache.CleanupInterval),
		"proxy":    cache.New("proxy", cfg.Cache.DetailsTTL, cfg.Cache.CleanupInterval),
	}
	defer func() {
		for _, store := range stores {
			store.Stop()
		}
	}()

	recService := recommend.NewService(client, recommend.Caches{
		Feeds:    stores["feeds"],
		Details:  stores["details"],
		Trending: stores["trending"],
	}, &cfg.Recommend, &cfg.Cache, cfg.TMDB.Language)

	searchService := search.NewService(client, stores["search"], cache.NewTrie(),
		&cfg.Search, &cfg.Cache)

	handler := api.NewHandler(recService, searchService, client, stores["proxy"], stores)
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Serve until a shutdown signal arrives.
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown incomplete")
	}

	logging.Info().Msg("Application stopped gracefully")
}
