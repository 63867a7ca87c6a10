// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package api

import (
	"net/http"
	"time"
)

// serverStart is used for uptime reporting.
var serverStart = time.Now()

// cacheHealth is the per-store snapshot in the health payload.
type cacheHealth struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Entries   int64   `json:"entries"`
	HitRate   float64 `json:"hit_rate_pct"`
}

// healthResponse is the health endpoint payload.
type healthResponse struct {
	Status        string                 `json:"status"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	BreakerState  string                 `json:"breaker_state"`
	Caches        map[string]cacheHealth `json:"caches"`
}

// Health handles GET /health.
//
// The service is degraded, not down, when the provider circuit is open:
// cached and trending responses still work. Health always returns 200
// so orchestrators do not restart a process that is serving traffic.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	breaker := h.client.BreakerState()
	if breaker == "open" {
		status = "degraded"
	}

	caches := make(map[string]cacheHealth, len(h.stores))
	for name, store := range h.stores {
		stats := store.GetStats()
		caches[name] = cacheHealth{
			Hits:      stats.Hits,
			Misses:    stats.Misses,
			Evictions: stats.Evictions,
			Entries:   stats.TotalKeys,
			HitRate:   store.HitRate(),
		}
	}

	WriteSuccess(w, r, healthResponse{
		Status:        status,
		UptimeSeconds: int64(time.Since(serverStart).Seconds()),
		BreakerState:  breaker,
		Caches:        caches,
	})
}
