// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package search

import (
	"context"
	"strings"

	"github.com/screenscout/screenscout/internal/cache"
	"github.com/screenscout/screenscout/internal/models"
)

// minSuggestPrefix is the shortest input that triggers prefix matching;
// anything shorter serves trending titles instead.
const minSuggestPrefix = 2

// defaultSuggestLimit bounds a suggestion response.
const defaultSuggestLimit = 10

// Suggestion is one typeahead entry.
type Suggestion struct {
	Title     string           `json:"title"`
	MediaType models.MediaType `json:"media_type"`
	ID        int              `json:"id"`
}

// Suggest returns typeahead suggestions for a partial query. Inputs
// shorter than the minimum prefix get the current trending titles. A
// prefix with no local index matches falls through to a one-page
// upstream search, which also warms the index for the next keystroke.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) ([]Suggestion, error) {
	if limit <= 0 || limit > defaultSuggestLimit {
		limit = defaultSuggestLimit
	}

	prefix = strings.TrimSpace(prefix)
	if len([]rune(prefix)) < minSuggestPrefix {
		return s.trendingSuggestions(ctx, limit)
	}

	if matches := s.titles.Suggest(prefix, limit); len(matches) > 0 {
		return fromTrie(matches), nil
	}

	// Cold index: ask upstream once and index what comes back.
	page, err := s.provider.SearchMulti(ctx, prefix, 1)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, limit)
	for _, item := range page.Items {
		s.titles.Add(item.Title, item.Key(), item.Popularity)
		if len(suggestions) < limit {
			suggestions = append(suggestions, Suggestion{
				Title:     item.Title,
				MediaType: item.MediaType,
				ID:        item.ID,
			})
		}
	}
	return suggestions, nil
}

// trendingSuggestions serves the cached trending titles for too-short
// input.
func (s *Service) trendingSuggestions(ctx context.Context, limit int) ([]Suggestion, error) {
	v, _, err := s.store.GetOrCompute(ctx, "suggest:trending", s.ttl.SuggestionsTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.provider.Trending(ctx, "all", "week")
		})
	if err != nil {
		return nil, err
	}

	items := v.([]models.MediaItem)
	suggestions := make([]Suggestion, 0, limit)
	for _, item := range items {
		s.titles.Add(item.Title, item.Key(), item.Popularity)
		suggestions = append(suggestions, Suggestion{
			Title:     item.Title,
			MediaType: item.MediaType,
			ID:        item.ID,
		})
		if len(suggestions) >= limit {
			break
		}
	}
	return suggestions, nil
}

func fromTrie(matches []cache.Suggestion) []Suggestion {
	out := make([]Suggestion, len(matches))
	for i, m := range matches {
		out[i] = Suggestion{Title: m.Title, MediaType: m.Key.MediaType, ID: m.Key.ID}
	}
	return out
}
