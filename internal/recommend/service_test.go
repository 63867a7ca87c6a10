// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package recommend

import (
	"context"
	"errors"
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

func testCaches(t *testing.T) Caches {
	t.Helper()
	c := Caches{
		Feeds:    cache.New("feeds", time.Minute, time.Minute),
		Details:  cache.New("details", time.Minute, time.Minute),
		Trending: cache.New("trending", time.Minute, time.Minute),
	}
	t.Cleanup(func() {
		c.Feeds.Stop()
		c.Details.Stop()
		c.Trending.Stop()
	})
	return c
}

func testTTLConfig() *config.CacheConfig {
	return &config.CacheConfig{
		TrendingTTL:        time.Minute,
		SearchTTL:          time.Minute,
		DetailsTTL:         time.Minute,
		SuggestionsTTL:     time.Minute,
		RecommendationsTTL: time.Minute,
		CleanupInterval:    time.Minute,
	}
}

func newTestService(t *testing.T, provider Provider) *Service {
	t.Helper()
	return NewService(provider, testCaches(t), testRecommendConfig(), testTTLConfig(), "en-US")
}

func trendingItems() []models.MediaItem {
	return []models.MediaItem{
		rankItem(900, 28), rankItem(901, 18), rankItem(902, 35),
	}
}

func TestHomeFeedEmptySignalsServeTrending(t *testing.T) {
	provider := &fakeProvider{
		trending: func(ctx context.Context, mediaType, window string) ([]models.MediaItem, error) {
			return trendingItems(), nil
		},
	}
	svc := newTestService(t, provider)
	ctx := context.Background()

	feed, fromCache, err := svc.HomeFeed(ctx, models.UserContext{UserID: "u1"})
	require.NoError(t, err)
	assert.False(t, fromCache, "first trending fetch is a cold miss")
	assert.False(t, feed.Personalized)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, 900, feed.Items[0].ID)

	// The flag reflects the trending cache on repeat calls.
	_, fromCache, err = svc.HomeFeed(ctx, models.UserContext{UserID: "u1"})
	require.NoError(t, err)
	assert.True(t, fromCache)
}

func TestHomeFeedPersonalizedAndCached(t *testing.T) {
	var discoverCalls atomic.Int32
	provider := &fakeProvider{
		discover: func(ctx context.Context, mt models.MediaType, q tmdb.DiscoverQuery) ([]models.MediaItem, error) {
			discoverCalls.Add(1)
			return []models.MediaItem{rankItem(10, 28), rankItem(11, 28), rankItem(12, 18)}, nil
		},
	}
	svc := newTestService(t, provider)
	ctx := context.Background()

	user := models.UserContext{
		UserID:       "u1",
		WatchHistory: []models.WatchHistoryItem{historyEntry(1, 28), historyEntry(2, 28)},
	}

	feed, fromCache, err := svc.HomeFeed(ctx, user)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.True(t, feed.Personalized)
	require.NotEmpty(t, feed.Items)

	calls := discoverCalls.Load()
	feed2, fromCache, err := svc.HomeFeed(ctx, user)
	require.NoError(t, err)
	assert.True(t, fromCache, "identical request within TTL must hit the cache")
	assert.Equal(t, calls, discoverCalls.Load(), "cache hit must not refetch")
	assert.Equal(t, len(feed.Items), len(feed2.Items))
}

func TestHomeFeedExcludesWatchHistory(t *testing.T) {
	watched := rankItem(10, 28)
	provider := &fakeProvider{
		discover: func(ctx context.Context, mt models.MediaType, q tmdb.DiscoverQuery) ([]models.MediaItem, error) {
			return []models.MediaItem{watched, rankItem(11, 28)}, nil
		},
	}
	svc := newTestService(t, provider)

	user := models.UserContext{
		UserID: "u1",
		WatchHistory: []models.WatchHistoryItem{
			{ID: watched.ID, MediaType: watched.MediaType, GenreIDs: watched.GenreIDs},
		},
	}
	feed, _, err := svc.HomeFeed(context.Background(), user)
	require.NoError(t, err)

	for _, item := range feed.Items {
		assert.NotEqual(t, watched.Key(), item.Key(), "watched items never resurface in the home feed")
	}
}

func TestHomeFeedFallsBackToTrendingOnPipelineFailure(t *testing.T) {
	provider := &fakeProvider{
		discover: func(ctx context.Context, mt models.MediaType, q tmdb.DiscoverQuery) ([]models.MediaItem, error) {
			return nil, errors.New("provider down")
		},
		trending: func(ctx context.Context, mediaType, window string) ([]models.MediaItem, error) {
			return trendingItems(), nil
		},
	}
	svc := newTestService(t, provider)

	user := models.UserContext{
		UserID:       "u1",
		WatchHistory: []models.WatchHistoryItem{historyEntry(1, 28)},
	}
	feed, _, err := svc.HomeFeed(context.Background(), user)
	require.NoError(t, err, "personalization failure must degrade, not fail")
	assert.False(t, feed.Personalized)
	require.Len(t, feed.Items, 3)
}

func TestInvalidateUserForcesRecompute(t *testing.T) {
	var discoverCalls atomic.Int32
	provider := &fakeProvider{
		discover: func(ctx context.Context, mt models.MediaType, q tmdb.DiscoverQuery) ([]models.MediaItem, error) {
			discoverCalls.Add(1)
			return []models.MediaItem{rankItem(10, 28)}, nil
		},
	}
	svc := newTestService(t, provider)
	ctx := context.Background()

	user := models.UserContext{
		UserID:       "u1",
		WatchHistory: []models.WatchHistoryItem{historyEntry(1, 28)},
	}

	_, _, err := svc.HomeFeed(ctx, user)
	require.NoError(t, err)
	calls := discoverCalls.Load()

	removed := svc.InvalidateUser("u1")
	assert.Greater(t, removed, 0)

	_, fromCache, err := svc.HomeFeed(ctx, user)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Greater(t, discoverCalls.Load(), calls, "invalidation must force a recompute")
}

func TestForItemIncludesCollectionMembers(t *testing.T) {
	ref := models.ItemKey{MediaType: models.MediaTypeMovie, ID: 603}
	members := []models.MediaItem{rankItem(603, 28), rankItem(604, 28), rankItem(605, 28)}

	provider := &fakeProvider{
		details: func(ctx context.Context, key models.ItemKey) (*models.MediaDetail, error) {
			return &models.MediaDetail{
				MediaItem:  rankItem(key.ID, 28),
				Collection: &models.Collection{ID: 2344, Name: "The Matrix Collection"},
				Similar:    []models.MediaItem{rankItem(700, 878), rankItem(701, 878)},
			}, nil
		},
		collection: func(ctx context.Context, id int) ([]models.MediaItem, error) {
			return members, nil
		},
	}
	svc := newTestService(t, provider)

	feed, _, err := svc.ForItem(context.Background(), ref, models.UserContext{})
	require.NoError(t, err)
	require.NotEmpty(t, feed.Items)

	top := feed.Items
	if len(top) > 3 {
		top = top[:3]
	}
	foundMember := false
	for _, item := range top {
		if item.ID == 604 || item.ID == 605 {
			foundMember = true
		}
		assert.NotEqual(t, ref, item.Key(), "the reference item never recommends itself")
	}
	assert.True(t, foundMember, "a franchise sibling must appear in the top 3")
}

func TestForItemBoundedSize(t *testing.T) {
	var similar []models.MediaItem
	for i := 100; i < 140; i++ {
		similar = append(similar, rankItem(i, 28))
	}
	provider := &fakeProvider{
		details: func(ctx context.Context, key models.ItemKey) (*models.MediaDetail, error) {
			return &models.MediaDetail{MediaItem: rankItem(key.ID, 28), Similar: similar}, nil
		},
	}
	svc := newTestService(t, provider)

	feed, _, err := svc.ForItem(context.Background(),
		models.ItemKey{MediaType: models.MediaTypeMovie, ID: 1}, models.UserContext{})
	require.NoError(t, err)
	assert.Len(t, feed.Items, 12)
}

func TestForItemUnknownReference(t *testing.T) {
	provider := &fakeProvider{
		details: func(ctx context.Context, key models.ItemKey) (*models.MediaDetail, error) {
			return nil, tmdb.ErrNotFound
		},
	}
	svc := newTestService(t, provider)

	_, _, err := svc.ForItem(context.Background(),
		models.ItemKey{MediaType: models.MediaTypeMovie, ID: 999999}, models.UserContext{})
	require.ErrorIs(t, err, tmdb.ErrNotFound)
}

func TestSecondaryDeadlineDropsSlowSources(t *testing.T) {
	cfg := testRecommendConfig()
	cfg.SecondaryDeadline = 50 * time.Millisecond

	provider := &fakeProvider{
		discover: func(ctx context.Context, mt models.MediaType, q tmdb.DiscoverQuery) ([]models.MediaItem, error) {
			// Person discovery is an enhancement source; stall it until
			// its deadline context fires. Genre discovery stays fast.
			if q.PersonID != 0 {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return []models.MediaItem{rankItem(40 + q.GenreIDs[0])}, nil
		},
	}
	orch := NewOrchestrator(provider, cfg)

	profile := &models.TasteProfile{TopGenres: []int{28}, TopPeople: []int{500}}
	start := time.Now()
	results := orch.ForHome(context.Background(), profile)
	elapsed := time.Since(start)

	require.NotEmpty(t, results, "fast primary sources must survive a stalled enhancement")
	sawGenres := false
	for _, r := range results {
		assert.NotEqual(t, SourcePerson, r.Source, "a source past its deadline contributes nothing")
		if r.Source == SourceGenrePopularity || r.Source == SourceGenreQuality {
			sawGenres = true
		}
	}
	assert.True(t, sawGenres)
	assert.Less(t, elapsed, 10*cfg.SecondaryDeadline, "gather must settle shortly after the deadline")
}
