// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

// Package recommend turns a user's watch history and saved list into
// ranked recommendation feeds.
//
// The pipeline has three stages. The Extractor derives a taste profile
// (genres, people, keywords, language, era) from viewing signals with
// recency decay. The Orchestrator fans the profile out into tagged
// parallel retrieval queries against the upstream provider, awaiting
// primary sources and racing enhancement sources against a deadline.
// Rank merges the tagged results into one additively scored candidate
// set, applies affinity boosts and exclusions, and selects the final
// list with a per-genre diversity cap for the home feed.
//
// Service wires the stages behind per-category caches and provides the
// degradation paths: no viewing signal serves trending, and any
// personalization failure on the home feed falls back to trending
// rather than erroring.
package recommend
