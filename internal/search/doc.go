// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

// Package search implements the free-text search pipeline and the
// typeahead suggestion endpoint.
//
// A query fans out into parallel fetches of the first provider pages,
// filters the merged candidates through independent structural
// predicates, scores title relevance (exact, prefix, substring, then
// edit-distance fuzzy with a token-overlap bonus) blended with
// popularity, rating and recency signals, sorts by the requested key,
// drops relevance noise, deduplicates and paginates. The scored set is
// cached per query variant; page slicing happens per request.
package search
