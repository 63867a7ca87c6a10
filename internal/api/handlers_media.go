// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package api

import (
	"net/http"

	"github.com/screenscout/screenscout/internal/models"
)

// modalResponse is the aggregated payload behind the detail modal:
// one upstream round trip gives the client everything the modal shows.
type modalResponse struct {
	*models.MediaDetail
	Trailer *models.Video `json:"trailer,omitempty"`
}

// MediaModal handles GET /api/v1/media/{type}/{id}/modal.
func (h *Handler) MediaModal(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	key, err := itemKeyFromURL(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	detail, err := h.recommend.Detail(r.Context(), key)
	if err != nil {
		writeServiceError(rw, r, err)
		return
	}

	rw.Success(modalResponse{
		MediaDetail: detail,
		Trailer:     detail.Trailer(),
	})
}

// Trending handles GET /api/v1/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	items, fromCache, err := h.recommend.Trending(r.Context())
	if err != nil {
		writeServiceError(rw, r, err)
		return
	}
	rw.SuccessCached(items, fromCache)
}
