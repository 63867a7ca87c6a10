// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package search

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenscout/screenscout/internal/cache"
	"github.com/screenscout/screenscout/internal/config"
	"github.com/screenscout/screenscout/internal/models"
	"github.com/screenscout/screenscout/internal/tmdb"
)

type fakeProvider struct {
	searchCalls atomic.Int32
	searchMulti func(ctx context.Context, query string, page int) (*tmdb.Page, error)
	trending    func(ctx context.Context, mediaType, window string) ([]models.MediaItem, error)
}

func (f *fakeProvider) SearchMulti(ctx context.Context, query string, page int) (*tmdb.Page, error) {
	f.searchCalls.Add(1)
	if f.searchMulti == nil {
		return &tmdb.Page{Page: page, TotalPages: 1}, nil
	}
	return f.searchMulti(ctx, query, page)
}

func (f *fakeProvider) Trending(ctx context.Context, mediaType, window string) ([]models.MediaItem, error) {
	if f.trending == nil {
		return nil, nil
	}
	return f.trending(ctx, mediaType, window)
}

func searchItem(id int, title, date string) models.MediaItem {
	return models.MediaItem{
		ID:          id,
		MediaType:   models.MediaTypeMovie,
		Title:       title,
		PosterPath:  "/p.jpg",
		ReleaseDate: date,
		VoteAverage: 7.5,
		VoteCount:   1000,
		Popularity:  50,
	}
}

func singlePage(items ...models.MediaItem) func(ctx context.Context, query string, page int) (*tmdb.Page, error) {
	return func(ctx context.Context, query string, page int) (*tmdb.Page, error) {
		if page > 1 {
			return &tmdb.Page{Page: page, TotalPages: 1}, nil
		}
		return &tmdb.Page{Items: items, Page: 1, TotalPages: 1}, nil
	}
}

func newTestSearch(t *testing.T, provider Provider) *Service {
	t.Helper()
	store := cache.New("search", time.Minute, time.Minute)
	t.Cleanup(store.Stop)

	svc := NewService(provider, store, cache.NewTrie(), &config.SearchConfig{
		FetchPages:      3,
		DefaultPageSize: 20,
		MaxPageSize:     50,
		RelevanceFloor:  10,
	}, &config.CacheConfig{SearchTTL: time.Minute, SuggestionsTTL: time.Minute})
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestSearchEmptyQueryNoNetwork(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestSearch(t, provider)

	for _, q := range []string{"", "   ", "\t"} {
		res, fromCache, err := svc.Search(context.Background(), models.SearchRequest{Query: q})
		require.NoError(t, err)
		assert.False(t, fromCache)
		assert.Empty(t, res.Results)
		assert.Equal(t, 1, res.Pagination.Page)
		assert.Equal(t, 0, res.Pagination.Total)
		assert.False(t, res.Pagination.HasMore)
	}
	assert.Equal(t, int32(0), provider.searchCalls.Load(), "degenerate queries must not reach the provider")
}

func TestSearchFuzzyTolerance(t *testing.T) {
	provider := &fakeProvider{searchMulti: singlePage(
		searchItem(27205, "Inception", "2010-07-16"),
		searchItem(1, "Intermission", "2003-08-29"),
		searchItem(2, "Insomnia", "2002-05-24"),
	)}
	svc := newTestSearch(t, provider)

	res, _, err := svc.Search(context.Background(), models.SearchRequest{Query: "incepton"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Results)

	top := res.Results
	if len(top) > 3 {
		top = top[:3]
	}
	found := false
	for _, item := range top {
		if item.Title == "Inception" {
			found = true
		}
	}
	assert.True(t, found, "a one-letter typo must still surface the intended title in the top 3")
}

func TestSearchYearRangeFilter(t *testing.T) {
	provider := &fakeProvider{searchMulti: singlePage(
		searchItem(1, "Alpha", "2014-01-01"),
		searchItem(2, "Alpha Returns", "2016-06-15"),
		searchItem(3, "Alpha Forever", "2020-12-31"),
		searchItem(4, "Alpha Beyond", "2021-01-01"),
		searchItem(5, "Alpha Undated", ""),
	)}
	svc := newTestSearch(t, provider)

	res, _, err := svc.Search(context.Background(), models.SearchRequest{
		Query:   "alpha",
		Filters: models.SearchFilters{YearStart: 2015, YearEnd: 2020},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Results)

	for _, item := range res.Results {
		year := item.Year()
		assert.GreaterOrEqual(t, year, 2015, "%s outside range", item.Title)
		assert.LessOrEqual(t, year, 2020, "%s outside range", item.Title)
	}
}

func TestSearchMediaTypeAndRatingFilters(t *testing.T) {
	show := searchItem(10, "Alpha Series", "2019-01-01")
	show.MediaType = models.MediaTypeTV
	weak := searchItem(11, "Alpha Weak", "2019-01-01")
	weak.VoteAverage = 4.0

	provider := &fakeProvider{searchMulti: singlePage(
		searchItem(12, "Alpha Strong", "2019-01-01"), show, weak,
	)}
	svc := newTestSearch(t, provider)

	res, _, err := svc.Search(context.Background(), models.SearchRequest{
		Query:   "alpha",
		Filters: models.SearchFilters{MediaType: models.MediaTypeMovie, MinRating: 6.0},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Alpha Strong", res.Results[0].Title)
}

func TestSearchDeduplicatesAcrossPages(t *testing.T) {
	repeated := searchItem(42, "Alpha", "2019-01-01")
	provider := &fakeProvider{searchMulti: func(ctx context.Context, query string, page int) (*tmdb.Page, error) {
		// The same item leaks into every page.
		return &tmdb.Page{Items: []models.MediaItem{repeated}, Page: page, TotalPages: 3}, nil
	}}
	svc := newTestSearch(t, provider)

	res, _, err := svc.Search(context.Background(), models.SearchRequest{Query: "alpha"})
	require.NoError(t, err)
	assert.Len(t, res.Results, 1, "multi-page fetch must deduplicate by identity")
}

func TestSearchPagination(t *testing.T) {
	var items []models.MediaItem
	for i := 1; i <= 45; i++ {
		items = append(items, searchItem(i, "Alpha "+string(rune('A'+i%26)), "2019-01-01"))
	}
	provider := &fakeProvider{searchMulti: singlePage(items...)}
	svc := newTestSearch(t, provider)
	ctx := context.Background()

	page1, _, err := svc.Search(ctx, models.SearchRequest{Query: "alpha", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, page1.Results, 20)
	assert.Equal(t, 45, page1.Pagination.Total)
	assert.Equal(t, 3, page1.Pagination.TotalPages)
	assert.True(t, page1.Pagination.HasMore)

	page3, _, err := svc.Search(ctx, models.SearchRequest{Query: "alpha", Page: 3, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, page3.Results, 5)
	assert.False(t, page3.Pagination.HasMore)

	beyond, _, err := svc.Search(ctx, models.SearchRequest{Query: "alpha", Page: 9, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, beyond.Results)
}

func TestSearchResultSetCached(t *testing.T) {
	provider := &fakeProvider{searchMulti: singlePage(searchItem(1, "Alpha", "2019-01-01"))}
	svc := newTestSearch(t, provider)
	ctx := context.Background()

	_, fromCache, err := svc.Search(ctx, models.SearchRequest{Query: "alpha"})
	require.NoError(t, err)
	assert.False(t, fromCache)
	calls := provider.searchCalls.Load()

	// Same query, different page: cached set, no refetch.
	_, fromCache, err = svc.Search(ctx, models.SearchRequest{Query: "alpha", Page: 2})
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, calls, provider.searchCalls.Load())

	// Different filters miss the cache.
	_, fromCache, err = svc.Search(ctx, models.SearchRequest{
		Query:   "alpha",
		Filters: models.SearchFilters{YearStart: 2000},
	})
	require.NoError(t, err)
	assert.False(t, fromCache)
}

func TestSearchSortKeys(t *testing.T) {
	old := searchItem(1, "Alpha Old", "1999-01-01")
	old.Popularity = 99
	old.VoteAverage = 9.0
	fresh := searchItem(2, "Alpha New", "2024-01-01")
	fresh.Popularity = 10
	fresh.VoteAverage = 6.0

	provider := &fakeProvider{searchMulti: singlePage(old, fresh)}
	svc := newTestSearch(t, provider)
	ctx := context.Background()

	byRecency, _, err := svc.Search(ctx, models.SearchRequest{Query: "alpha", SortBy: models.SortRecency})
	require.NoError(t, err)
	assert.Equal(t, "Alpha New", byRecency.Results[0].Title)

	byPopularity, _, err := svc.Search(ctx, models.SearchRequest{Query: "alpha", SortBy: models.SortPopularity})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Old", byPopularity.Results[0].Title)

	byRating, _, err := svc.Search(ctx, models.SearchRequest{Query: "alpha", SortBy: models.SortRating})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Old", byRating.Results[0].Title)
}

func TestSearchRelevanceFloorDropsNoise(t *testing.T) {
	noise := searchItem(1, "Unrelated Documentary", "")
	noise.Popularity = 0
	noise.VoteAverage = 0
	noise.VoteCount = 0

	provider := &fakeProvider{searchMulti: singlePage(
		searchItem(2, "Alpha", "2024-01-01"), noise,
	)}
	svc := newTestSearch(t, provider)

	res, _, err := svc.Search(context.Background(), models.SearchRequest{Query: "alpha"})
	require.NoError(t, err)
	for _, item := range res.Results {
		assert.NotEqual(t, "Unrelated Documentary", item.Title)
	}
}
