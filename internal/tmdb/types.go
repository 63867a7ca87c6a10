// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package tmdb

// Wire-format structures for the upstream metadata provider. Movies and
// TV shows use different field names for the same concepts (title vs
// name, release_date vs first_air_date); normalization collapses the
// variants into models.MediaItem at this boundary so nothing above the
// client ever sees a raw payload.

// pagedResults is the provider's standard list envelope.
type pagedResults struct {
	Page         int       `json:"page"`
	Results      []rawItem `json:"results"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
}

// rawItem is a single entry in a list response. Fields cover both the
// movie and TV variants; at most one of each pair is populated.
type rawItem struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	GenreIDs         []int   `json:"genre_ids"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	OriginalLanguage string  `json:"original_language"`
}

// rawDetail is the full detail payload, including the sub-resources
// fetched in the same round trip via append_to_response.
type rawDetail struct {
	rawItem

	Genres              []rawGenre     `json:"genres"`
	ProductionCompanies []rawCompany   `json:"production_companies"`
	Runtime             int            `json:"runtime,omitempty"`
	NumberOfSeasons     int            `json:"number_of_seasons,omitempty"`
	Status              string         `json:"status,omitempty"`
	Tagline             string         `json:"tagline,omitempty"`
	BelongsToCollection *rawCollection `json:"belongs_to_collection,omitempty"`

	Credits         *rawCredits   `json:"credits,omitempty"`
	Keywords        *rawKeywords  `json:"keywords,omitempty"`
	Videos          *rawVideos    `json:"videos,omitempty"`
	Similar         *pagedResults `json:"similar,omitempty"`
	Recommendations *pagedResults `json:"recommendations,omitempty"`
}

type rawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawCompany struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawCollection struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

// rawCollectionDetail is the response of the collection endpoint proper.
type rawCollectionDetail struct {
	ID    int       `json:"id"`
	Name  string    `json:"name"`
	Parts []rawItem `json:"parts"`
}

type rawCredits struct {
	Cast []rawCastMember `json:"cast"`
	Crew []rawCrewMember `json:"crew"`
}

type rawCastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type rawCrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	ProfilePath string `json:"profile_path"`
}

// rawKeywords carries both list shapes: movies nest under "keywords",
// TV shows under "results".
type rawKeywords struct {
	Keywords []rawKeyword `json:"keywords,omitempty"`
	Results  []rawKeyword `json:"results,omitempty"`
}

func (k *rawKeywords) list() []rawKeyword {
	if k == nil {
		return nil
	}
	if len(k.Keywords) > 0 {
		return k.Keywords
	}
	return k.Results
}

type rawKeyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawVideos struct {
	Results []rawVideo `json:"results"`
}

type rawVideo struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}
