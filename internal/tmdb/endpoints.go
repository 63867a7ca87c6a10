// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/screenscout/screenscout/internal/models"
)

// Page is a single page of list results with the provider's paging
// counters preserved.
type Page struct {
	Items        []models.MediaItem
	Page         int
	TotalPages   int
	TotalResults int
}

// SearchMulti queries titles across movies and TV. Person entries in
// the response are dropped during normalization.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*Page, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")
	return c.getPage(ctx, "/search/multi", params, "")
}

// Trending returns the current trending titles. mediaType may be a
// concrete type or "all"; window is "day" or "week".
func (c *Client) Trending(ctx context.Context, mediaType, window string) ([]models.MediaItem, error) {
	p, err := c.getPage(ctx, fmt.Sprintf("/trending/%s/%s", mediaType, window), url.Values{}, "")
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// Details fetches the full record for one title. Credits, keywords,
// videos and the provider's similar/recommended lists come back in the
// same round trip.
func (c *Client) Details(ctx context.Context, key models.ItemKey) (*models.MediaDetail, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,keywords,videos,similar,recommendations")

	body, err := c.get(ctx, fmt.Sprintf("/%s/%d", key.MediaType, key.ID), params)
	if err != nil {
		return nil, err
	}

	var raw rawDetail
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode detail %s: %w", key, err)
	}
	return normalizeDetail(&raw, key.MediaType), nil
}

// DiscoverQuery selects titles by attribute. Zero-valued fields are
// omitted from the request.
type DiscoverQuery struct {
	GenreIDs   []int
	PersonID   int // movies only; the provider ignores it for TV
	KeywordIDs []int
	Language   string // original language code
	StudioID   int
	YearStart  int
	YearEnd    int
	SortBy     string // popularity.desc when empty
	MinVotes   int
	Page       int
}

// Discover queries the provider's discovery endpoint for one media type.
func (c *Client) Discover(ctx context.Context, mt models.MediaType, q DiscoverQuery) ([]models.MediaItem, error) {
	params := url.Values{}
	if len(q.GenreIDs) > 0 {
		params.Set("with_genres", joinIDs(q.GenreIDs))
	}
	if q.PersonID > 0 && mt == models.MediaTypeMovie {
		params.Set("with_people", strconv.Itoa(q.PersonID))
	}
	if len(q.KeywordIDs) > 0 {
		params.Set("with_keywords", joinIDs(q.KeywordIDs))
	}
	if q.Language != "" {
		params.Set("with_original_language", q.Language)
	}
	if q.StudioID > 0 {
		params.Set("with_companies", strconv.Itoa(q.StudioID))
	}

	// Date bounds use type-specific field names.
	dateField := "primary_release_date"
	if mt == models.MediaTypeTV {
		dateField = "first_air_date"
	}
	if q.YearStart > 0 {
		params.Set(dateField+".gte", fmt.Sprintf("%d-01-01", q.YearStart))
	}
	if q.YearEnd > 0 {
		params.Set(dateField+".lte", fmt.Sprintf("%d-12-31", q.YearEnd))
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	params.Set("sort_by", sortBy)
	if q.MinVotes > 0 {
		params.Set("vote_count.gte", strconv.Itoa(q.MinVotes))
	}
	if q.Page > 1 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	p, err := c.getPage(ctx, "/discover/"+string(mt), params, mt)
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// Similar returns the provider's similar-titles list for one item.
func (c *Client) Similar(ctx context.Context, key models.ItemKey) ([]models.MediaItem, error) {
	p, err := c.getPage(ctx, fmt.Sprintf("/%s/%d/similar", key.MediaType, key.ID), url.Values{}, key.MediaType)
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// Recommendations returns the provider's recommended-titles list for
// one item.
func (c *Client) Recommendations(ctx context.Context, key models.ItemKey) ([]models.MediaItem, error) {
	p, err := c.getPage(ctx, fmt.Sprintf("/%s/%d/recommendations", key.MediaType, key.ID), url.Values{}, key.MediaType)
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// Collection returns the member titles of a franchise collection.
// Collection members are movies.
func (c *Client) Collection(ctx context.Context, id int) ([]models.MediaItem, error) {
	body, err := c.get(ctx, fmt.Sprintf("/collection/%d", id), url.Values{})
	if err != nil {
		return nil, err
	}

	var raw rawCollectionDetail
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode collection %d: %w", id, err)
	}
	return normalizeList(raw.Parts, models.MediaTypeMovie), nil
}

// Raw fetches an arbitrary provider path and returns the response body
// unmodified. Callers are responsible for restricting which paths may
// be requested.
func (c *Client) Raw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.get(ctx, path, query)
}

// getPage fetches and decodes a standard list envelope.
func (c *Client) getPage(ctx context.Context, path string, params url.Values, hint models.MediaType) (*Page, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var raw pagedResults
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &Page{
		Items:        normalizeList(raw.Results, hint),
		Page:         raw.Page,
		TotalPages:   raw.TotalPages,
		TotalResults: raw.TotalResults,
	}, nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
