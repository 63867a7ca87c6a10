// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are registered via promauto at package initialization and exposed
at the /metrics endpoint in Prometheus text format.

The package instruments:
  - Upstream provider requests (latency, outcomes, retries, coalescing)
  - Circuit breaker state and transitions
  - Cache hit/miss/eviction rates per category
  - Recommendation source fan-out outcomes
  - API endpoint latency and throughput

Example Grafana queries:

	rate(upstream_requests_total{outcome="failure"}[5m])
	cache_hits_total / (cache_hits_total + cache_misses_total)
	histogram_quantile(0.99, rate(api_request_duration_seconds_bucket[5m]))
*/
package metrics
