// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/screenscout/screenscout/internal/config"
	"github.com/screenscout/screenscout/internal/logging"
	"github.com/screenscout/screenscout/internal/metrics"
	"github.com/screenscout/screenscout/internal/models"
	"github.com/screenscout/screenscout/internal/tmdb"
)

// Source tags. The ranking engine maps these to score weights.
const (
	SourceFranchise       = "franchise"
	SourceSimilar         = "similar"
	SourceRecommendations = "recommendations"
	SourcePerson          = "person"
	SourceKeyword         = "keyword"
	SourceGenrePopularity = "genre_popularity"
	SourceGenreQuality    = "genre_quality"
	SourceEraGenre        = "era_genre"
	SourceLanguage        = "language"
	SourceStudio          = "studio"
)

// discoverMinVotes filters out titles with too few ratings for the
// quality-sorted discovery query to be meaningful.
const discoverMinVotes = 200

// Orchestrator issues the tagged parallel retrieval queries that feed
// the ranking engine. Primary sources are awaited without a deadline;
// secondary enhancement sources run under a short context deadline that
// cancels the underlying calls on expiry, resolving to empty results
// instead of delaying the response. A failing source is dropped, never
// fatal.
type Orchestrator struct {
	provider Provider
	cfg      *config.RecommendConfig
}

// NewOrchestrator creates a retrieval orchestrator.
func NewOrchestrator(provider Provider, cfg *config.RecommendConfig) *Orchestrator {
	return &Orchestrator{provider: provider, cfg: cfg}
}

// source is one tagged retrieval query.
type source struct {
	name    string
	primary bool
	fetch   func(ctx context.Context) ([]models.MediaItem, error)
}

// ForHome builds and runs the retrieval set for a home feed. The
// profile must carry at least one signal; genre discovery is primary,
// everything else is enhancement.
func (o *Orchestrator) ForHome(ctx context.Context, profile *models.TasteProfile) []models.SourceResult {
	var sources []source

	if len(profile.TopGenres) > 0 {
		genres := profile.TopGenres
		sources = append(sources,
			source{name: SourceGenrePopularity, primary: true, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
				return o.discoverBoth(ctx, tmdb.DiscoverQuery{GenreIDs: genres, SortBy: "popularity.desc"})
			}},
			source{name: SourceGenreQuality, primary: true, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
				return o.discoverBoth(ctx, tmdb.DiscoverQuery{GenreIDs: genres, SortBy: "vote_average.desc", MinVotes: discoverMinVotes})
			}},
		)
	}

	sources = append(sources, o.enhancementSources(profile, nil)...)
	return o.gather(ctx, sources)
}

// ForItem builds and runs the retrieval set anchored on one reference
// item. Franchise, similar and recommendations are primary; profile-
// and item-derived discovery queries are enhancement.
func (o *Orchestrator) ForItem(ctx context.Context, ref *models.MediaDetail, profile *models.TasteProfile) []models.SourceResult {
	key := ref.Key()
	var sources []source

	if ref.Collection != nil {
		id := ref.Collection.ID
		sources = append(sources, source{name: SourceFranchise, primary: true, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
			return o.provider.Collection(ctx, id)
		}})
	}

	// The detail payload already carries similar/recommended lists when
	// it was fetched with sub-resources; refetch only when absent.
	sources = append(sources,
		source{name: SourceSimilar, primary: true, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
			if len(ref.Similar) > 0 {
				return ref.Similar, nil
			}
			return o.provider.Similar(ctx, key)
		}},
		source{name: SourceRecommendations, primary: true, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
			if len(ref.Recommended) > 0 {
				return ref.Recommended, nil
			}
			return o.provider.Recommendations(ctx, key)
		}},
	)

	sources = append(sources, o.enhancementSources(profile, ref)...)
	return o.gather(ctx, sources)
}

// enhancementSources derives the secondary discovery queries from the
// profile and, when present, the reference item. Reference-item signals
// win over profile signals for person/keyword/studio since the caller
// is looking at that item right now.
func (o *Orchestrator) enhancementSources(profile *models.TasteProfile, ref *models.MediaDetail) []source {
	var sources []source

	personIDs := profile.TopPeople
	keywordIDs := profile.TopKeywords
	genres := profile.TopGenres
	era := profile.TopEra
	language := profile.TopLanguage

	if ref != nil {
		if len(ref.Directors) > 0 {
			personIDs = []int{ref.Directors[0].ID}
		}
		if len(ref.Keywords) > 0 {
			keywordIDs = nil
			for i, k := range ref.Keywords {
				if i >= 3 {
					break
				}
				keywordIDs = append(keywordIDs, k.ID)
			}
		}
		if len(ref.GenreIDs) > 0 {
			genres = ref.GenreIDs
		}
		if d := ref.Decade(); d > 0 {
			era = d
		}
		if len(ref.Studios) > 0 {
			studioID := ref.Studios[0].ID
			sources = append(sources, source{name: SourceStudio, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
				return o.discoverBoth(ctx, tmdb.DiscoverQuery{StudioID: studioID, SortBy: "popularity.desc"})
			}})
		}
	}

	for _, personID := range personIDs {
		id := personID
		sources = append(sources, source{name: SourcePerson, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
			// Person discovery only exists for movies upstream.
			return o.provider.Discover(ctx, models.MediaTypeMovie, tmdb.DiscoverQuery{PersonID: id, SortBy: "popularity.desc"})
		}})
	}

	if len(keywordIDs) > 0 {
		ids := keywordIDs
		sources = append(sources, source{name: SourceKeyword, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
			return o.discoverBoth(ctx, tmdb.DiscoverQuery{KeywordIDs: ids, SortBy: "popularity.desc"})
		}})
	}

	if era > 0 && len(genres) > 0 {
		q := tmdb.DiscoverQuery{GenreIDs: genres, YearStart: era, YearEnd: era + 9, SortBy: "popularity.desc"}
		sources = append(sources, source{name: SourceEraGenre, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
			return o.discoverBoth(ctx, q)
		}})
	}

	if language != "" {
		lang := language
		sources = append(sources, source{name: SourceLanguage, fetch: func(ctx context.Context) ([]models.MediaItem, error) {
			return o.discoverBoth(ctx, tmdb.DiscoverQuery{Language: lang, SortBy: "popularity.desc", MinVotes: discoverMinVotes})
		}})
	}

	return sources
}

// gather runs all sources concurrently and settles them all. Secondary
// sources share a deadline context; on expiry their underlying calls
// are cancelled and they contribute nothing.
func (o *Orchestrator) gather(ctx context.Context, sources []source) []models.SourceResult {
	secondaryCtx, cancel := context.WithTimeout(ctx, o.cfg.SecondaryDeadline)
	defer cancel()

	results := make([]models.SourceResult, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src source) {
			defer wg.Done()

			fetchCtx := ctx
			if !src.primary {
				fetchCtx = secondaryCtx
			}

			start := time.Now()
			items, err := src.fetch(fetchCtx)
			switch {
			case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
				metrics.RecommendSourcesTotal.WithLabelValues(src.name, "deadline").Inc()
				log := logging.Ctx(ctx)
				log.Debug().Str("source", src.name).
					Dur("elapsed", time.Since(start)).
					Msg("enhancement source missed deadline")
			case err != nil:
				metrics.RecommendSourcesTotal.WithLabelValues(src.name, "failure").Inc()
				log := logging.Ctx(ctx)
				log.Debug().Err(err).Str("source", src.name).
					Msg("retrieval source failed")
			default:
				metrics.RecommendSourcesTotal.WithLabelValues(src.name, "success").Inc()
				results[i] = models.SourceResult{Source: src.name, Items: items}
			}
		}(i, src)
	}
	wg.Wait()

	// Compact: drop failed and empty slots, preserving source order.
	settled := results[:0]
	for _, r := range results {
		if len(r.Items) > 0 {
			settled = append(settled, r)
		}
	}
	return settled
}

// discoverBoth runs the same discovery query against movies and TV
// concurrently and concatenates. One side failing drops that side only.
func (o *Orchestrator) discoverBoth(ctx context.Context, q tmdb.DiscoverQuery) ([]models.MediaItem, error) {
	var (
		wg     sync.WaitGroup
		movies []models.MediaItem
		shows  []models.MediaItem
		mErr   error
		tErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		movies, mErr = o.provider.Discover(ctx, models.MediaTypeMovie, q)
	}()
	go func() {
		defer wg.Done()
		shows, tErr = o.provider.Discover(ctx, models.MediaTypeTV, q)
	}()
	wg.Wait()

	if mErr != nil && tErr != nil {
		return nil, mErr
	}
	return append(movies, shows...), nil
}
