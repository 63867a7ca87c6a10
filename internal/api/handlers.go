// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/screenscout/screenscout/internal/cache"
	"github.com/screenscout/screenscout/internal/models"
	"github.com/screenscout/screenscout/internal/recommend"
	"github.com/screenscout/screenscout/internal/search"
	"github.com/screenscout/screenscout/internal/tmdb"
)

// maxBodyBytes bounds request bodies. Viewing history payloads are the
// largest legitimate input and stay well under this.
const maxBodyBytes = 1 << 20

// Handler holds the services behind the HTTP endpoints.
type Handler struct {
	recommend *recommend.Service
	search    *search.Service
	client    *tmdb.Client
	proxy     *cache.Store
	stores    map[string]*cache.Store
	validate  *validator.Validate
}

// NewHandler creates the endpoint handler. stores maps cache category
// names to their stores for health reporting; proxy is the store
// backing the generic provider passthrough.
func NewHandler(rec *recommend.Service, srch *search.Service, client *tmdb.Client, proxy *cache.Store, stores map[string]*cache.Store) *Handler {
	return &Handler{
		recommend: rec,
		search:    srch,
		client:    client,
		proxy:     proxy,
		stores:    stores,
		validate:  validator.New(),
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct
// validation. Returns false after writing the error response.
func (h *Handler) decodeAndValidate(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		rw.ValidationError("Request validation failed", validationMessages(err))
		return false
	}
	return true
}

// validationMessages flattens validator errors into client-facing strings.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("field %s failed on %s", fe.Field(), fe.Tag()))
	}
	return msgs
}

// itemKeyFromURL parses the {type}/{id} route segments.
func itemKeyFromURL(r *http.Request) (models.ItemKey, error) {
	mt := models.MediaType(chi.URLParam(r, "type"))
	if !mt.Valid() {
		return models.ItemKey{}, fmt.Errorf("media type must be movie or tv, got %q", mt)
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return models.ItemKey{}, fmt.Errorf("id must be a positive integer")
	}
	return models.ItemKey{MediaType: mt, ID: id}, nil
}
