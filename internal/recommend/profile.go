// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package recommend

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/screenscout/screenscout/internal/config"
	"github.com/screenscout/screenscout/internal/logging"
	"github.com/screenscout/screenscout/internal/models"
)

// Extractor derives a taste profile from a user's ordered watch history
// and saved list. Genre affinity comes from the whole history with
// exponential recency decay; people, keywords, language and era come
// from full detail lookups on the few most recent entries.
type Extractor struct {
	provider Provider
	cfg      *config.RecommendConfig

	// defaultLanguage is the platform default; a user whose top
	// language matches it carries no signal.
	defaultLanguage string
}

// NewExtractor creates a profile extractor. defaultLanguage is the
// provider language code ("en-US"); only its base tag is compared.
func NewExtractor(provider Provider, cfg *config.RecommendConfig, defaultLanguage string) *Extractor {
	return &Extractor{
		provider:        provider,
		cfg:             cfg,
		defaultLanguage: baseLanguage(defaultLanguage),
	}
}

// weighted accumulates decayed affinity per key.
type weighted[K comparable] map[K]float64

func (w weighted[K]) add(key K, weight float64) {
	w[key] += weight
}

// top returns up to n keys by descending weight. Ties break on the
// natural order of insertion being irrelevant here, so they break by
// weight only; callers treat equal-weight picks as interchangeable.
func (w weighted[K]) top(n int) []K {
	type pair struct {
		key    K
		weight float64
	}
	pairs := make([]pair, 0, len(w))
	for k, v := range w {
		pairs = append(pairs, pair{k, v})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].weight > pairs[j].weight })
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	keys := make([]K, len(pairs))
	for i, p := range pairs {
		keys[i] = p.key
	}
	return keys
}

// BuildProfile computes a taste profile for the user. An empty history
// and list produce an empty profile, never an error. Detail fetch
// failures for individual items are logged and skipped.
func (e *Extractor) BuildProfile(ctx context.Context, user models.UserContext) *models.TasteProfile {
	profile := &models.TasteProfile{}
	if len(user.WatchHistory) == 0 && len(user.SavedList) == 0 {
		return profile
	}

	profile.TopGenres = e.genreAffinity(user.WatchHistory)
	e.deepSignals(ctx, user, profile)
	return profile
}

// genreAffinity walks history most-recent-first, decaying each entry's
// contribution, and keeps the top three genres.
func (e *Extractor) genreAffinity(history []models.WatchHistoryItem) []int {
	genres := weighted[int]{}
	weight := 1.0
	for _, entry := range history {
		for _, g := range entry.GenreIDs {
			genres.add(g, weight)
		}
		weight *= e.cfg.GenreDecay
	}
	return genres.top(3)
}

// deepSignals fetches full details for the most recent history and list
// entries concurrently and accumulates person, keyword, language and
// era affinity from them.
func (e *Extractor) deepSignals(ctx context.Context, user models.UserContext, profile *models.TasteProfile) {
	seeds := e.seedKeys(user)
	if len(seeds) == 0 {
		return
	}

	details := make([]*models.MediaDetail, len(seeds))
	var wg sync.WaitGroup
	for i, key := range seeds {
		wg.Add(1)
		go func(i int, key models.ItemKey) {
			defer wg.Done()
			d, err := e.provider.Details(ctx, key)
			if err != nil {
				// One missing detail degrades the profile, not the request.
				log := logging.Ctx(ctx)
				log.Debug().Err(err).Stringer("item", key).
					Msg("profile detail fetch skipped")
				return
			}
			details[i] = d
		}(i, key)
	}
	wg.Wait()

	people := weighted[int]{}
	keywords := weighted[int]{}
	languages := weighted[string]{}
	eras := weighted[int]{}

	weight := 1.0
	for _, d := range details {
		if d == nil {
			weight *= e.cfg.DetailDecay
			continue
		}

		for _, p := range d.Directors {
			people.add(p.ID, weight*e.cfg.DirectorWeight)
		}
		for _, p := range d.Cast {
			people.add(p.ID, weight)
		}
		for _, k := range d.Keywords {
			keywords.add(k.ID, weight)
		}
		if lang := baseLanguage(d.OriginalLanguage); lang != "" && lang != e.defaultLanguage {
			languages.add(lang, weight)
		}
		if decade := d.Decade(); decade > 0 {
			eras.add(decade, weight)
		}

		weight *= e.cfg.DetailDecay
	}

	profile.TopPeople = people.top(2)
	profile.TopKeywords = keywords.top(3)
	if langs := languages.top(1); len(langs) == 1 {
		profile.TopLanguage = langs[0]
	}
	if topEras := eras.top(1); len(topEras) == 1 {
		profile.TopEra = topEras[0]
	}
}

// seedKeys picks the most recent history entries plus the most recent
// list entries, deduplicated, for deep detail lookups.
func (e *Extractor) seedKeys(user models.UserContext) []models.ItemKey {
	n := e.cfg.DeepSignalItems
	seen := map[models.ItemKey]struct{}{}
	var seeds []models.ItemKey

	take := func(entries []models.WatchHistoryItem) {
		count := 0
		for _, entry := range entries {
			if count >= n {
				return
			}
			key := entry.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			seeds = append(seeds, key)
			count++
		}
	}

	take(user.WatchHistory)
	take(user.SavedList)
	return seeds
}

// baseLanguage strips a region subtag: "en-US" becomes "en".
func baseLanguage(code string) string {
	if i := strings.IndexByte(code, '-'); i > 0 {
		return code[:i]
	}
	return code
}
