// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package models

import (
	"strconv"
	"time"
)

// MediaType identifies the kind of content an item represents.
type MediaType string

const (
	// MediaTypeMovie is a feature film.
	MediaTypeMovie MediaType = "movie"
	// MediaTypeTV is an episodic series.
	MediaTypeTV MediaType = "tv"
)

// Valid reports whether the media type is one the core handles.
// The upstream provider also returns "person" results from multi-search;
// those are dropped at the client boundary.
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

// ItemKey uniquely identifies a media item.
//
// Provider numeric ids are NOT guaranteed disjoint across media types,
// so identity is the (media type, id) pair, never the id alone.
type ItemKey struct {
	MediaType MediaType
	ID        int
}

// String returns a stable textual form, e.g. "movie:603".
func (k ItemKey) String() string {
	return string(k.MediaType) + ":" + strconv.Itoa(k.ID)
}

// MediaItem is the normalized shape of an upstream media item.
//
// Provider responses vary by endpoint (movies carry "title" and
// "release_date", series carry "name" and "first_air_date"); the
// upstream client normalizes everything into this struct so the
// ranking and search layers never inspect provider-specific shapes.
// Missing numeric signals are zero, never an error.
type MediaItem struct {
	ID               int       `json:"id"`
	MediaType        MediaType `json:"media_type"`
	Title            string    `json:"title"`
	Overview         string    `json:"overview,omitempty"`
	PosterPath       string    `json:"poster_path,omitempty"`
	BackdropPath     string    `json:"backdrop_path,omitempty"`
	GenreIDs         []int     `json:"genre_ids,omitempty"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	Popularity       float64   `json:"popularity"`
	ReleaseDate      string    `json:"release_date,omitempty"` // YYYY-MM-DD
	OriginalLanguage string    `json:"original_language,omitempty"`
}

// Key returns the item's identity key.
func (m MediaItem) Key() ItemKey {
	return ItemKey{MediaType: m.MediaType, ID: m.ID}
}

// HasImage reports whether the item carries at least one artwork path.
// Items missing both poster and backdrop are excluded from final output.
func (m MediaItem) HasImage() bool {
	return m.PosterPath != "" || m.BackdropPath != ""
}

// Year returns the release year, or 0 when the date is absent or malformed.
func (m MediaItem) Year() int {
	return yearOf(m.ReleaseDate)
}

// Decade returns the release decade (e.g. 1990), or 0 when unknown.
func (m MediaItem) Decade() int {
	y := m.Year()
	if y == 0 {
		return 0
	}
	return y - y%10
}

// PrimaryGenre returns the first genre id, or 0 when the item has none.
// The diversity pass treats the first genre as the item's primary genre.
func (m MediaItem) PrimaryGenre() int {
	if len(m.GenreIDs) == 0 {
		return 0
	}
	return m.GenreIDs[0]
}

// yearOf parses the year out of a YYYY-MM-DD (or bare YYYY) date string.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil || y <= 0 {
		return 0
	}
	return y
}

// WatchHistoryItem is one entry of a user's viewing history.
//
// History is ordered newest-first; index 0 is the most recent watch and
// order is the sole recency signal. The slice is caller-owned and
// read-only to the core.
type WatchHistoryItem struct {
	ID          int       `json:"id"`
	MediaType   MediaType `json:"media_type"`
	GenreIDs    []int     `json:"genre_ids,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	LastWatched time.Time `json:"last_watched,omitempty"`
}

// Key returns the entry's identity key.
func (w WatchHistoryItem) Key() ItemKey {
	return ItemKey{MediaType: w.MediaType, ID: w.ID}
}

// ListItem is an explicit "save for later" entry. Same shape as watch
// history; set semantics for membership, recency order kept as a signal.
type ListItem = WatchHistoryItem

// UserContext carries the caller-owned viewing signals for one request.
// Persistence of user records is outside the core; the caller is the
// data source.
type UserContext struct {
	UserID       string             `json:"user_id,omitempty"`
	WatchHistory []WatchHistoryItem `json:"watch_history,omitempty"`
	SavedList    []ListItem         `json:"saved_list,omitempty"`
}

// TasteProfile is the derived, per-request summary of a user's inferred
// preferences. It is a pure function of the request inputs plus fetched
// item details, recomputed per request and never persisted.
type TasteProfile struct {
	TopGenres   []int  `json:"top_genres,omitempty"`   // ordered, max 3
	TopPeople   []int  `json:"top_people,omitempty"`   // ordered, max 2
	TopLanguage string `json:"top_language,omitempty"` // empty when none
	TopKeywords []int  `json:"top_keywords,omitempty"` // ordered, max 3
	TopEra      int    `json:"top_era,omitempty"`      // decade, 0 when none
}

// IsEmpty reports whether the profile carries no signal at all.
// An empty profile routes the request to the unpersonalized trending
// fallback rather than an error.
func (p TasteProfile) IsEmpty() bool {
	return len(p.TopGenres) == 0 && len(p.TopPeople) == 0 &&
		p.TopLanguage == "" && len(p.TopKeywords) == 0 && p.TopEra == 0
}

// SourceResult is the output of one tagged parallel retrieval query.
type SourceResult struct {
	Source string      `json:"source"`
	Items  []MediaItem `json:"items"`
}
