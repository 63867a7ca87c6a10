// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

// Package cache provides the in-memory TTL caches that sit between the
// HTTP handlers and the recommendation/search pipelines.
//
// Store is a compute-or-serve cache: GetOrCompute either returns a
// fresh cached value or runs the supplied producer, and concurrent
// misses on the same key are coalesced into a single computation.
// Every category of cached data (home feeds, item recommendations,
// search results, title details, trending) gets its own named Store so
// TTLs and hit rates are tuned and observed independently.
//
// Trie is a prefix index over recently seen titles, backing the
// typeahead suggestion endpoint without an upstream round trip.
package cache
