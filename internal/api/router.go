// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/screenscout/screenscout/internal/config"
	"github.com/screenscout/screenscout/internal/middleware"
)

// Router wires the endpoint handlers into the chi route tree.
type Router struct {
	handler *Handler
	cfg     *config.ServerConfig
}

// NewRouter creates the router.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so our middleware works with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.cfg.RateLimitReqs, router.cfg.RateLimitWindow))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		// Recommendations. POST because the caller-owned viewing
		// history travels in the body.
		r.Post("/recommendations", router.handler.HomeFeed)
		r.Post("/recommendations/{type}/{id}", router.handler.ItemFeed)

		// Detail modal and trending.
		r.Get("/media/{type}/{id}/modal", router.handler.MediaModal)
		r.Get("/trending", router.handler.Trending)

		// Search and typeahead.
		r.Get("/search", router.handler.Search)
		r.Get("/suggestions", router.handler.Suggestions)

		// Allowlisted provider passthrough.
		r.Get("/proxy/*", router.handler.Proxy)

		// External cache invalidation on user state change.
		r.Post("/cache/invalidate", router.handler.InvalidateCache)
	})

	// Observability endpoints stay outside the rate-limited tree.
	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
