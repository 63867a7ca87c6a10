// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package models

import "testing"

func TestMediaItemYearAndDecade(t *testing.T) {
	tests := []struct {
		date       string
		wantYear   int
		wantDecade int
	}{
		{"1999-03-31", 1999, 1990},
		{"2010-07-16", 2010, 2010},
		{"2020", 2020, 2020},
		{"", 0, 0},
		{"bad", 0, 0},
		{"20", 0, 0},
	}
	for _, tt := range tests {
		m := MediaItem{ReleaseDate: tt.date}
		if got := m.Year(); got != tt.wantYear {
			t.Errorf("Year(%q) = %d, want %d", tt.date, got, tt.wantYear)
		}
		if got := m.Decade(); got != tt.wantDecade {
			t.Errorf("Decade(%q) = %d, want %d", tt.date, got, tt.wantDecade)
		}
	}
}

func TestMediaItemHasImage(t *testing.T) {
	if (MediaItem{}).HasImage() {
		t.Error("item without artwork should report no image")
	}
	if !(MediaItem{PosterPath: "/p.jpg"}).HasImage() {
		t.Error("poster alone should count")
	}
	if !(MediaItem{BackdropPath: "/b.jpg"}).HasImage() {
		t.Error("backdrop alone should count")
	}
}

func TestItemKeyDisambiguatesMediaTypes(t *testing.T) {
	movie := MediaItem{ID: 42, MediaType: MediaTypeMovie}
	show := MediaItem{ID: 42, MediaType: MediaTypeTV}
	if movie.Key() == show.Key() {
		t.Error("same id across media types must have distinct keys")
	}
	if got := movie.Key().String(); got != "movie:42" {
		t.Errorf("Key().String() = %q, want movie:42", got)
	}
}

func TestTasteProfileIsEmpty(t *testing.T) {
	if !(TasteProfile{}).IsEmpty() {
		t.Error("zero profile should be empty")
	}
	if (TasteProfile{TopGenres: []int{28}}).IsEmpty() {
		t.Error("profile with a genre is not empty")
	}
	if (TasteProfile{TopEra: 1990}).IsEmpty() {
		t.Error("profile with an era is not empty")
	}
}

func TestPrimaryGenre(t *testing.T) {
	if got := (MediaItem{GenreIDs: []int{18, 28}}).PrimaryGenre(); got != 18 {
		t.Errorf("PrimaryGenre = %d, want 18", got)
	}
	if got := (MediaItem{}).PrimaryGenre(); got != 0 {
		t.Errorf("PrimaryGenre of empty = %d, want 0", got)
	}
}

func TestEmptySearchResultShape(t *testing.T) {
	r := EmptySearchResult()
	if r.Results == nil || len(r.Results) != 0 {
		t.Error("results must be an empty, non-nil slice")
	}
	if r.Pagination.Page != 1 || r.Pagination.Total != 0 || r.Pagination.HasMore {
		t.Errorf("unexpected pagination: %+v", r.Pagination)
	}
}
