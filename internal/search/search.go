// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/screenscout/screenscout/internal/cache"
	"github.com/screenscout/screenscout/internal/config"
	"github.com/screenscout/screenscout/internal/logging"
	"github.com/screenscout/screenscout/internal/models"
	"github.com/screenscout/screenscout/internal/tmdb"
)

// Provider is the slice of the upstream client the search pipeline
// needs.
type Provider interface {
	SearchMulti(ctx context.Context, query string, page int) (*tmdb.Page, error)
	Trending(ctx context.Context, mediaType, window string) ([]models.MediaItem, error)
}

// Service runs the search relevance pipeline: multi-page fetch, filter,
// score, sort, deduplicate, paginate. Results are cached per normalized
// query+filters+sort, and every result seen feeds the suggestion index.
type Service struct {
	provider Provider
	store    *cache.Store
	titles   *cache.Trie
	cfg      *config.SearchConfig
	ttl      *config.CacheConfig

	// now is stubbed in tests for stable recency scoring.
	now func() time.Time
}

// NewService creates the search service.
func NewService(provider Provider, store *cache.Store, titles *cache.Trie, cfg *config.SearchConfig, ttl *config.CacheConfig) *Service {
	return &Service{
		provider: provider,
		store:    store,
		titles:   titles,
		cfg:      cfg,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Search executes one query. An empty or whitespace query returns the
// empty result shape without touching the network. The second return
// reports whether the scored result set came from cache.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, bool, error) {
	query := strings.ToLower(strings.TrimSpace(req.Query))
	if query == "" {
		return models.EmptySearchResult(), false, nil
	}

	req.Page, req.PageSize = s.normalizePaging(req.Page, req.PageSize)
	if !req.SortBy.Valid() {
		req.SortBy = models.SortRelevance
	}

	// The scored, sorted, deduplicated set is cached once per query
	// variant; pagination slices the cached set per call.
	type setParams struct {
		Query   string
		Filters models.SearchFilters
		SortBy  models.SortKey
	}
	key := cache.GenerateKey("search", setParams{Query: query, Filters: req.Filters, SortBy: req.SortBy})

	v, fromCache, err := s.store.GetOrCompute(ctx, key, s.ttl.SearchTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.buildResultSet(ctx, query, req.Filters, req.SortBy)
		})
	if err != nil {
		return nil, false, err
	}

	return paginate(v.([]models.MediaItem), req.Page, req.PageSize), fromCache, nil
}

// buildResultSet runs the fetch/filter/score/sort/dedupe stages.
func (s *Service) buildResultSet(ctx context.Context, query string, filters models.SearchFilters, sortBy models.SortKey) ([]models.MediaItem, error) {
	raw, err := s.fetchPages(ctx, query)
	if err != nil {
		return nil, err
	}

	now := s.now()
	type scored struct {
		item  models.MediaItem
		score float64
	}

	var survivors []scored
	for _, item := range raw {
		if !passesFilters(item, filters) {
			continue
		}
		survivors = append(survivors, scored{item: item, score: relevanceScore(query, item, now)})
	}

	switch sortBy {
	case models.SortRecency:
		sort.SliceStable(survivors, func(i, j int) bool {
			return survivors[i].item.ReleaseDate > survivors[j].item.ReleaseDate
		})
	case models.SortPopularity:
		sort.SliceStable(survivors, func(i, j int) bool {
			return survivors[i].item.Popularity > survivors[j].item.Popularity
		})
	case models.SortRating:
		sort.SliceStable(survivors, func(i, j int) bool {
			return survivors[i].item.VoteAverage > survivors[j].item.VoteAverage
		})
	default:
		sort.SliceStable(survivors, func(i, j int) bool {
			return survivors[i].score > survivors[j].score
		})
	}

	// Relevance noise floor, then dedupe across the merged pages.
	seen := map[models.ItemKey]struct{}{}
	items := make([]models.MediaItem, 0, len(survivors))
	for _, sc := range survivors {
		if sortBy == models.SortRelevance && sc.score <= s.cfg.RelevanceFloor {
			continue
		}
		key := sc.item.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, sc.item)
		s.titles.Add(sc.item.Title, key, sc.item.Popularity)
	}

	log := logging.Ctx(ctx)
	log.Debug().Str("query", query).Int("raw", len(raw)).
		Int("kept", len(items)).Msg("search result set built")
	return items, nil
}

// fetchPages pulls the configured number of provider pages in parallel
// and concatenates them in page order. Page 1 failing fails the search;
// a deeper page failing just truncates the merge.
func (s *Service) fetchPages(ctx context.Context, query string) ([]models.MediaItem, error) {
	pages := make([][]models.MediaItem, s.cfg.FetchPages)
	errs := make([]error, s.cfg.FetchPages)

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.FetchPages; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			page, err := s.provider.SearchMulti(ctx, query, i+1)
			if err != nil {
				errs[i] = err
				return
			}
			pages[i] = page.Items
		}(i)
	}
	wg.Wait()

	if errs[0] != nil {
		return nil, errs[0]
	}

	var merged []models.MediaItem
	for i, items := range pages {
		if errs[i] != nil {
			log := logging.Ctx(ctx)
			log.Debug().Err(errs[i]).Int("page", i+1).
				Msg("search page fetch dropped")
			continue
		}
		merged = append(merged, items...)
	}
	return merged, nil
}

// passesFilters applies the structural predicates; all must pass.
func passesFilters(item models.MediaItem, f models.SearchFilters) bool {
	if f.MediaType != "" && item.MediaType != f.MediaType {
		return false
	}

	year := item.Year()
	if f.YearStart > 0 && (year == 0 || year < f.YearStart) {
		return false
	}
	if f.YearEnd > 0 && (year == 0 || year > f.YearEnd) {
		return false
	}

	if f.MinRating > 0 && item.VoteAverage < f.MinRating {
		return false
	}

	if len(f.GenreIDs) > 0 {
		match := false
		for _, want := range f.GenreIDs {
			for _, got := range item.GenreIDs {
				if want == got {
					match = true
				}
			}
		}
		if !match {
			return false
		}
	}
	return true
}

// normalizePaging applies defaults and bounds.
func (s *Service) normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}
	return page, pageSize
}

// paginate slices the full result set for one page.
func paginate(items []models.MediaItem, page, pageSize int) *models.SearchResult {
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &models.SearchResult{
		Results: items[start:end],
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    page < totalPages,
		},
	}
}
