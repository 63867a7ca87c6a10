// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

// Package tmdb is the resilient client for the upstream metadata
// provider. All upstream access goes through Client, which coalesces
// identical concurrent requests, trips a circuit breaker on sustained
// transient failure, retries with exponential backoff and normalizes
// the provider's movie/TV wire variants into the shared domain model.
package tmdb
