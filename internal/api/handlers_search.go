// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/screenscout/screenscout/internal/models"
)

// Search handles GET /api/v1/search.
//
// Query parameters: q, media_type, year_start, year_end, min_rating,
// genres (comma-separated ids), sort, page, page_size. An empty q
// returns the empty result shape, not an error.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, err := searchRequestFromQuery(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	result, fromCache, err := h.search.Search(r.Context(), req)
	if err != nil {
		writeServiceError(rw, r, err)
		return
	}
	rw.SuccessCached(result, fromCache)
}

// Suggestions handles GET /api/v1/suggestions.
// Prefixes shorter than two runes get trending titles instead.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	suggestions, err := h.search.Suggest(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeServiceError(rw, r, err)
		return
	}
	rw.Success(suggestions)
}

// searchRequestFromQuery parses and validates the search query string.
func searchRequestFromQuery(r *http.Request) (models.SearchRequest, error) {
	q := r.URL.Query()
	req := models.SearchRequest{Query: q.Get("q")}

	if v := q.Get("media_type"); v != "" {
		mt := models.MediaType(v)
		if !mt.Valid() {
			return req, errBadParam("media_type must be movie or tv")
		}
		req.Filters.MediaType = mt
	}

	var err error
	if req.Filters.YearStart, err = intParam(q.Get("year_start"), "year_start"); err != nil {
		return req, err
	}
	if req.Filters.YearEnd, err = intParam(q.Get("year_end"), "year_end"); err != nil {
		return req, err
	}
	if req.Filters.YearStart > 0 && req.Filters.YearEnd > 0 && req.Filters.YearStart > req.Filters.YearEnd {
		return req, errBadParam("year_start must not exceed year_end")
	}

	if v := q.Get("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil || rating < 0 || rating > 10 {
			return req, errBadParam("min_rating must be a number between 0 and 10")
		}
		req.Filters.MinRating = rating
	}

	if v := q.Get("genres"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || id <= 0 {
				return req, errBadParam("genres must be comma-separated positive integers")
			}
			req.Filters.GenreIDs = append(req.Filters.GenreIDs, id)
		}
	}

	if v := q.Get("sort"); v != "" {
		sortBy := models.SortKey(v)
		if !sortBy.Valid() {
			return req, errBadParam("sort must be one of relevance, recency, popularity, rating")
		}
		req.SortBy = sortBy
	}

	if req.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return req, err
	}
	if req.PageSize, err = intParam(q.Get("page_size"), "page_size"); err != nil {
		return req, err
	}
	return req, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errBadParam(name + " must be a non-negative integer")
	}
	return n, nil
}

func errBadParam(msg string) error { return errors.New(msg) }
