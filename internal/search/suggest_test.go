// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenscout/screenscout/internal/models"
	"github.com/screenscout/screenscout/internal/tmdb"
)

func TestSuggestShortInputServesTrending(t *testing.T) {
	provider := &fakeProvider{
		trending: func(ctx context.Context, mediaType, window string) ([]models.MediaItem, error) {
			return []models.MediaItem{
				searchItem(1, "Trending One", "2026-01-01"),
				searchItem(2, "Trending Two", "2026-01-01"),
			}, nil
		},
	}
	svc := newTestSearch(t, provider)

	got, err := svc.Suggest(context.Background(), "i", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Trending One", got[0].Title)
	assert.Equal(t, int32(0), provider.searchCalls.Load())
}

func TestSuggestFromWarmIndex(t *testing.T) {
	provider := &fakeProvider{searchMulti: singlePage(
		searchItem(27205, "Inception", "2010-07-16"),
		searchItem(157336, "Interstellar", "2014-11-07"),
	)}
	svc := newTestSearch(t, provider)
	ctx := context.Background()

	// A search warms the title index.
	_, _, err := svc.Search(ctx, models.SearchRequest{Query: "in"})
	require.NoError(t, err)
	calls := provider.searchCalls.Load()

	got, err := svc.Suggest(ctx, "inter", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Interstellar", got[0].Title)
	assert.Equal(t, models.MediaTypeMovie, got[0].MediaType)
	assert.Equal(t, calls, provider.searchCalls.Load(), "warm index must not hit the provider")
}

func TestSuggestColdIndexFallsThroughToProvider(t *testing.T) {
	provider := &fakeProvider{searchMulti: singlePage(
		searchItem(27205, "Inception", "2010-07-16"),
	)}
	svc := newTestSearch(t, provider)
	ctx := context.Background()

	got, err := svc.Suggest(ctx, "incep", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Inception", got[0].Title)
	assert.Equal(t, int32(1), provider.searchCalls.Load())

	// The fallback indexed the title; the next keystroke is local.
	got, err = svc.Suggest(ctx, "incept", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int32(1), provider.searchCalls.Load())
}

func TestSuggestUpstreamFailure(t *testing.T) {
	provider := &fakeProvider{searchMulti: func(ctx context.Context, query string, page int) (*tmdb.Page, error) {
		return nil, tmdb.ErrUnavailable
	}}
	svc := newTestSearch(t, provider)

	_, err := svc.Suggest(context.Background(), "incep", 10)
	require.ErrorIs(t, err, tmdb.ErrUnavailable)
}
