// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/screenscout/screenscout/internal/logging"
)

// proxyAllowlist holds the provider path prefixes the generic
// passthrough may touch. Everything else is rejected, so the proxy
// cannot be used to reach arbitrary provider endpoints with our key.
var proxyAllowlist = []string{
	"collection/",
	"person/",
	"genre/movie/list",
	"genre/tv/list",
	"configuration",
	"watch/providers/",
}

// proxyTTL caches passthrough responses per path+query. Provider
// reference data changes rarely.
const proxyTTL = 6 * time.Hour

// Proxy handles GET /api/v1/proxy/*.
// A cached, allowlisted passthrough to the metadata provider for
// reference data the core pipelines do not model.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	path := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if path == "" || !proxyAllowed(path) {
		rw.NotFound("Proxy path not available")
		return
	}

	query := r.URL.Query()
	cacheKey := "proxy:" + path + "?" + query.Encode()

	v, fromCache, err := h.proxy.GetOrCompute(r.Context(), cacheKey, proxyTTL,
		func(ctx context.Context) (interface{}, error) {
			return h.client.Raw(ctx, path, query)
		})
	if err != nil {
		writeServiceError(rw, r, err)
		return
	}

	log := logging.Ctx(r.Context())
	log.Debug().Str("path", path).Bool("cached", fromCache).
		Msg("proxy request served")

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if fromCache {
		w.Header().Set("X-Cache", "HIT")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(v.([]byte)); err != nil {
		log := logging.Ctx(r.Context())
		log.Error().Err(err).Msg("proxy response write failed")
	}
}

// proxyAllowed reports whether the path matches an allowlisted prefix.
// Path traversal is rejected outright.
func proxyAllowed(path string) bool {
	if strings.Contains(path, "..") {
		return false
	}
	for _, prefix := range proxyAllowlist {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
