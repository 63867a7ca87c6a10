// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package recommend

import (
	"sort"

	"github.com/screenscout/screenscout/internal/models"
)

// Per-source score weights. Franchise membership dominates; agreement
// across many weak sources can still beat a single strong one because
// every match also earns the flat base increment.
const (
	weightBase = 4.0

	weightFranchise       = 20.0
	weightSimilar         = 12.0
	weightRecommendations = 12.0
	weightPerson          = 10.0
	weightKeyword         = 6.0
	weightGenrePopularity = 6.0
	weightGenreQuality    = 6.0
	weightEraGenre        = 6.0
	weightLanguage        = 6.0
	weightStudio          = 6.0
)

// Content-affinity boosts applied once per item after accumulation.
const (
	boostGenreMatch    = 4.0
	boostLanguageMatch = 3.0
	boostEraMatch      = 3.0
)

// List-membership adjustments. Item-detail recommendations boost saved
// items to support "continue this journey"; the home feed slightly
// penalizes them to favor discovery.
const (
	ListedBoost   = 5.0
	ListedPenalty = -3.0
)

var sourceWeights = map[string]float64{
	SourceFranchise:       weightFranchise,
	SourceSimilar:         weightSimilar,
	SourceRecommendations: weightRecommendations,
	SourcePerson:          weightPerson,
	SourceKeyword:         weightKeyword,
	SourceGenrePopularity: weightGenrePopularity,
	SourceGenreQuality:    weightGenreQuality,
	SourceEraGenre:        weightEraGenre,
	SourceLanguage:        weightLanguage,
	SourceStudio:          weightStudio,
}

// RankContext carries the per-call ranking parameters.
type RankContext struct {
	Profile *models.TasteProfile

	// Exclude removes items outright: watch history for the home feed,
	// the reference item itself for item-detail recommendations.
	Exclude map[models.ItemKey]struct{}

	// Listed marks the user's saved list; ListedAdjust is applied once
	// to each listed item (ListedBoost or ListedPenalty per call site).
	Listed       map[models.ItemKey]struct{}
	ListedAdjust float64

	// Diverse enables the genre-cap selection pass (home feed only).
	Diverse      bool
	GenreCap     int
	OutlierScore float64

	TargetSize int
}

// RankedItem is one scored candidate with its contributing sources.
type RankedItem struct {
	models.MediaItem
	Score   float64  `json:"score"`
	Sources []string `json:"sources"`
}

// candidate is per-request ranking state for one item.
type candidate struct {
	item    models.MediaItem
	score   float64
	sources []string
	order   int // first-seen position, stable tiebreak
}

// Rank merges tagged source results into one ordered, bounded list.
// Scoring is purely additive, so accumulation order across sources
// never changes a score; calling Rank twice with identical inputs
// yields identical output.
func Rank(results []models.SourceResult, rc RankContext) []RankedItem {
	candidates := map[models.ItemKey]*candidate{}
	order := 0

	// Accumulate per-source weights plus the flat base increment.
	for _, sr := range results {
		weight, known := sourceWeights[sr.Source]
		if !known {
			weight = weightBase
		}
		for _, item := range sr.Items {
			key := item.Key()
			c, ok := candidates[key]
			if !ok {
				c = &candidate{item: item, order: order}
				candidates[key] = c
				order++
			}
			c.score += weight + weightBase
			c.sources = append(c.sources, sr.Source)
		}
	}

	// Boost, filter, collect.
	ranked := make([]*candidate, 0, len(candidates))
	for key, c := range candidates {
		if _, excluded := rc.Exclude[key]; excluded {
			continue
		}
		if !c.item.HasImage() {
			continue
		}

		c.score += c.item.VoteAverage
		if rc.Profile != nil {
			if genreOverlap(c.item.GenreIDs, rc.Profile.TopGenres) {
				c.score += boostGenreMatch
			}
			if rc.Profile.TopLanguage != "" && c.item.OriginalLanguage == rc.Profile.TopLanguage {
				c.score += boostLanguageMatch
			}
			if rc.Profile.TopEra != 0 && c.item.Decade() == rc.Profile.TopEra {
				c.score += boostEraMatch
			}
		}
		if _, listed := rc.Listed[key]; listed {
			c.score += rc.ListedAdjust
		}

		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	var selected []*candidate
	if rc.Diverse {
		selected = selectDiverse(ranked, rc)
	} else {
		selected = ranked
	}

	if rc.TargetSize > 0 && len(selected) > rc.TargetSize {
		selected = selected[:rc.TargetSize]
	}

	out := make([]RankedItem, len(selected))
	for i, c := range selected {
		out[i] = RankedItem{MediaItem: c.item, Score: c.score, Sources: c.sources}
	}
	return out
}

// selectDiverse walks the score-sorted candidates greedily, capping how
// many items may share a primary genre. Outlier scores bypass the cap.
// If the pass comes up short of the target, skipped items backfill in
// score order.
func selectDiverse(ranked []*candidate, rc RankContext) []*candidate {
	genreCount := map[int]int{}
	var selected, skipped []*candidate

	for _, c := range ranked {
		if rc.TargetSize > 0 && len(selected) >= rc.TargetSize {
			break
		}
		genre := c.item.PrimaryGenre()
		if genre != 0 && genreCount[genre] >= rc.GenreCap && c.score < rc.OutlierScore {
			skipped = append(skipped, c)
			continue
		}
		genreCount[genre]++
		selected = append(selected, c)
	}

	for _, c := range skipped {
		if rc.TargetSize > 0 && len(selected) >= rc.TargetSize {
			break
		}
		selected = append(selected, c)
	}
	return selected
}

// genreOverlap reports whether any genre id appears in both sets.
func genreOverlap(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
