// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package api

import (
	"net/http"

	"github.com/screenscout/screenscout/internal/models"
)

// feedRequest is the body of the recommendation endpoints. The caller
// owns the viewing signals; no user state is persisted server-side.
type feedRequest struct {
	UserID       string                    `json:"user_id" validate:"required,max=128"`
	WatchHistory []models.WatchHistoryItem `json:"watch_history" validate:"max=500"`
	SavedList    []models.ListItem         `json:"saved_list" validate:"max=500"`
}

func (req *feedRequest) userContext() models.UserContext {
	return models.UserContext{
		UserID:       req.UserID,
		WatchHistory: req.WatchHistory,
		SavedList:    req.SavedList,
	}
}

// HomeFeed handles POST /api/v1/recommendations.
// Returns the personalized home feed, or the trending fallback when the
// caller supplies no usable viewing signal.
func (h *Handler) HomeFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req feedRequest
	if !h.decodeAndValidate(rw, r, &req) {
		return
	}

	feed, fromCache, err := h.recommend.HomeFeed(r.Context(), req.userContext())
	if err != nil {
		writeServiceError(rw, r, err)
		return
	}
	rw.SuccessCached(feed, fromCache)
}

// ItemFeed handles POST /api/v1/recommendations/{type}/{id}.
// Returns recommendations anchored on the referenced item.
func (h *Handler) ItemFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	key, err := itemKeyFromURL(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	var req feedRequest
	if !h.decodeAndValidate(rw, r, &req) {
		return
	}

	feed, fromCache, err := h.recommend.ForItem(r.Context(), key, req.userContext())
	if err != nil {
		writeServiceError(rw, r, err)
		return
	}
	rw.SuccessCached(feed, fromCache)
}

// invalidateRequest is the body of the cache invalidation endpoint.
type invalidateRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}

// InvalidateCache handles POST /api/v1/cache/invalidate.
// External collaborators call this when a user's history or saved list
// changes, so the next feed request recomputes.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req invalidateRequest
	if !h.decodeAndValidate(rw, r, &req) {
		return
	}

	removed := h.recommend.InvalidateUser(req.UserID)
	rw.Success(map[string]interface{}{
		"user_id": req.UserID,
		"removed": removed,
	})
}
