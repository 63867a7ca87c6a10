// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package tmdb

import (
	"github.com/screenscout/screenscout/internal/models"
)

// maxCastMembers bounds how much of the cast list is carried into the
// normalized detail record.
const maxCastMembers = 12

// normalizeItem converts one wire entry into a MediaItem. hint supplies
// the media type for endpoints whose responses omit it (type-specific
// discover, similar, recommendations). Entries that are neither movies
// nor TV shows (people in multi-search results) normalize to a zero Key
// and are dropped by normalizeList.
func normalizeItem(r rawItem, hint models.MediaType) models.MediaItem {
	mt := hint
	switch r.MediaType {
	case "movie":
		mt = models.MediaTypeMovie
	case "tv":
		mt = models.MediaTypeTV
	case "":
		// keep hint
	default:
		return models.MediaItem{}
	}
	if !mt.Valid() {
		return models.MediaItem{}
	}

	title := r.Title
	if title == "" {
		title = r.Name
	}
	release := r.ReleaseDate
	if release == "" {
		release = r.FirstAirDate
	}

	return models.MediaItem{
		ID:               r.ID,
		MediaType:        mt,
		Title:            title,
		Overview:         r.Overview,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		GenreIDs:         r.GenreIDs,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		ReleaseDate:      release,
		OriginalLanguage: r.OriginalLanguage,
	}
}

// normalizeList converts a wire list, dropping non-media entries and
// entries without a usable title.
func normalizeList(raw []rawItem, hint models.MediaType) []models.MediaItem {
	items := make([]models.MediaItem, 0, len(raw))
	for _, r := range raw {
		item := normalizeItem(r, hint)
		if item.ID == 0 || !item.MediaType.Valid() || item.Title == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// normalizeDetail converts a full detail payload including the
// append_to_response sub-resources.
func normalizeDetail(r *rawDetail, mt models.MediaType) *models.MediaDetail {
	d := &models.MediaDetail{
		MediaItem: normalizeItem(r.rawItem, mt),
		Runtime:   r.Runtime,
		Seasons:   r.NumberOfSeasons,
		Tagline:   r.Tagline,
		Status:    r.Status,
	}

	// Detail payloads carry full genre objects instead of ids.
	if len(d.GenreIDs) == 0 && len(r.Genres) > 0 {
		for _, g := range r.Genres {
			d.GenreIDs = append(d.GenreIDs, g.ID)
			d.Genres = append(d.Genres, models.Genre{ID: g.ID, Name: g.Name})
		}
	} else {
		for _, g := range r.Genres {
			d.Genres = append(d.Genres, models.Genre{ID: g.ID, Name: g.Name})
		}
	}

	for _, co := range r.ProductionCompanies {
		d.Studios = append(d.Studios, models.Studio{ID: co.ID, Name: co.Name})
	}

	if r.BelongsToCollection != nil {
		d.Collection = &models.Collection{
			ID:   r.BelongsToCollection.ID,
			Name: r.BelongsToCollection.Name,
		}
	}

	if r.Credits != nil {
		for i, c := range r.Credits.Cast {
			if i >= maxCastMembers {
				break
			}
			d.Cast = append(d.Cast, models.Person{
				ID: c.ID, Name: c.Name, Role: c.Character, ProfilePath: c.ProfilePath,
			})
		}
		for _, c := range r.Credits.Crew {
			if c.Job != "Director" {
				continue
			}
			d.Directors = append(d.Directors, models.Person{
				ID: c.ID, Name: c.Name, Role: c.Job, ProfilePath: c.ProfilePath,
			})
		}
	}

	for _, k := range r.Keywords.list() {
		d.Keywords = append(d.Keywords, models.Keyword{ID: k.ID, Name: k.Name})
	}

	if r.Videos != nil {
		for _, v := range r.Videos.Results {
			d.Videos = append(d.Videos, models.Video{
				Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type, Official: v.Official,
			})
		}
	}

	if r.Similar != nil {
		d.Similar = normalizeList(r.Similar.Results, mt)
	}
	if r.Recommendations != nil {
		d.Recommended = normalizeList(r.Recommendations.Results, mt)
	}

	return d
}
