// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package models

// Genre is a named genre as reported by the metadata provider.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Person is a cast or crew member attached to a title.
type Person struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"` // character for cast, job for crew
	ProfilePath string `json:"profilePath,omitempty"`
}

// Keyword is a descriptive tag attached to a title.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Video is a trailer or clip hosted on an external site.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Collection identifies the franchise a title belongs to.
type Collection struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Studio is a production company attached to a title.
type Studio struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MediaDetail is the full record for a single title: the list-level
// fields plus credits, keywords, videos, franchise membership and the
// provider's own similar/recommended lists.
type MediaDetail struct {
	MediaItem

	Genres     []Genre     `json:"genres,omitempty"`
	Cast       []Person    `json:"cast,omitempty"`
	Directors  []Person    `json:"directors,omitempty"`
	Keywords   []Keyword   `json:"keywords,omitempty"`
	Videos     []Video     `json:"videos,omitempty"`
	Collection *Collection `json:"collection,omitempty"`
	Studios    []Studio    `json:"studios,omitempty"`

	Runtime int    `json:"runtime,omitempty"` // minutes, movies only
	Seasons int    `json:"seasons,omitempty"` // TV only
	Tagline string `json:"tagline,omitempty"`
	Status  string `json:"status,omitempty"`

	Similar     []MediaItem `json:"similar,omitempty"`
	Recommended []MediaItem `json:"recommended,omitempty"`
}

// Trailer returns the best trailer for the title: the first official
// YouTube trailer, falling back to any YouTube trailer, then nil.
func (d *MediaDetail) Trailer() *Video {
	var fallback *Video
	for i := range d.Videos {
		v := &d.Videos[i]
		if v.Site != "YouTube" || v.Type != "Trailer" {
			continue
		}
		if v.Official {
			return v
		}
		if fallback == nil {
			fallback = v
		}
	}
	return fallback
}
