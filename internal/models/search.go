// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package models

// SortKey selects the ordering of search results.
type SortKey string

const (
	// SortRelevance orders by the computed relevance score (default).
	SortRelevance SortKey = "relevance"
	// SortRecency orders by release date, newest first.
	SortRecency SortKey = "recency"
	// SortPopularity orders by provider popularity.
	SortPopularity SortKey = "popularity"
	// SortRating orders by vote average.
	SortRating SortKey = "rating"
)

// Valid reports whether the sort key is recognized.
func (s SortKey) Valid() bool {
	switch s {
	case SortRelevance, SortRecency, SortPopularity, SortRating:
		return true
	}
	return false
}

// SearchFilters are independent structural predicates applied to search
// results. All configured predicates must pass.
type SearchFilters struct {
	// MediaType restricts results to movies or series. Empty = both.
	MediaType MediaType `json:"media_type,omitempty"`

	// YearStart / YearEnd bound the release year, inclusive.
	// Zero means unbounded on that side.
	YearStart int `json:"year_start,omitempty"`
	YearEnd   int `json:"year_end,omitempty"`

	// MinRating is the minimum vote average (0-10 scale).
	MinRating float64 `json:"min_rating,omitempty"`

	// GenreIDs keeps items sharing at least one listed genre.
	GenreIDs []int `json:"genre_ids,omitempty"`
}

// SearchRequest is one search query with filters and pagination.
type SearchRequest struct {
	Query    string        `json:"query"`
	Filters  SearchFilters `json:"filters"`
	SortBy   SortKey       `json:"sort_by,omitempty"`
	Page     int           `json:"page,omitempty"`
	PageSize int           `json:"page_size,omitempty"`
}

// Pagination describes the slice of results returned.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// SearchResult is the paginated outcome of one search query.
type SearchResult struct {
	Results    []MediaItem `json:"results"`
	Pagination Pagination  `json:"pagination"`
}

// EmptySearchResult returns the defined empty-result shape used for
// degenerate queries. Not an error; no network call is made.
func EmptySearchResult() *SearchResult {
	return &SearchResult{
		Results: []MediaItem{},
		Pagination: Pagination{
			Page:       1,
			PageSize:   0,
			Total:      0,
			TotalPages: 0,
			HasMore:    false,
		},
	}
}
