// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package search

import (
	"strings"
	"time"

	"github.com/screenscout/screenscout/internal/models"
)

// Title-match scores. Exact beats prefix beats substring beats fuzzy;
// the fuzzy path only engages above a similarity threshold so random
// titles never accumulate phantom relevance.
const (
	scoreExactMatch     = 100.0
	scorePrefixMatch    = 80.0
	scoreSubstringMatch = 60.0

	fuzzyThreshold = 0.7
	fuzzyMaxScore  = 50.0
	overlapMax     = 30.0
)

// Signal-strength caps for the non-title components.
const (
	popularityMax  = 20.0
	voteAverageMax = 15.0
	voteCountMax   = 10.0
	recencyMax     = 10.0
	movieBonus     = 3.0
)

// popularityPivot normalizes provider popularity, which is unbounded;
// values at or above the pivot earn the full popularity score.
const popularityPivot = 100.0

// voteCountPivot saturates the vote-count signal.
const voteCountPivot = 5000.0

// relevanceScore computes the additive relevance of one item for a
// lowercased query.
func relevanceScore(query string, item models.MediaItem, now time.Time) float64 {
	title := strings.ToLower(item.Title)

	var score float64
	switch {
	case title == query:
		score = scoreExactMatch
	case strings.HasPrefix(title, query):
		score = scorePrefixMatch
	case strings.Contains(title, query):
		score = scoreSubstringMatch
	default:
		if sim := similarity(query, title); sim > fuzzyThreshold {
			score = sim * fuzzyMaxScore
		}
		score += tokenOverlap(query, title) * overlapMax
	}

	score += clamp(item.Popularity/popularityPivot) * popularityMax
	score += clamp(item.VoteAverage/10.0) * voteAverageMax
	score += clamp(float64(item.VoteCount)/voteCountPivot) * voteCountMax
	score += recencyScore(item.Year(), now.Year())

	if item.MediaType == models.MediaTypeMovie {
		score += movieBonus
	}
	return score
}

// recencyScore awards tiered points by title age in years.
func recencyScore(releaseYear, currentYear int) float64 {
	if releaseYear == 0 {
		return 0
	}
	age := currentYear - releaseYear
	switch {
	case age < 0:
		return recencyMax // announced, not yet released
	case age <= 1:
		return recencyMax
	case age <= 3:
		return 7
	case age <= 7:
		return 4
	case age <= 15:
		return 2
	default:
		return 0
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
