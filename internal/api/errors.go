// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/screenscout/screenscout/internal/logging"
	"github.com/screenscout/screenscout/internal/tmdb"
)

// writeServiceError maps the error taxonomy of the lower layers onto
// HTTP status codes. Unknown items are the client's mistake, an open
// circuit or exhausted retries is a degraded dependency, and anything
// unclassified is an internal failure.
func writeServiceError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		rw.NotFound("Item not found")
	case errors.Is(err, tmdb.ErrUnavailable):
		rw.ServiceUnavailable("Metadata provider temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("Request timed out")
	default:
		log := logging.Ctx(r.Context())
		log.Error().Err(err).Msg("request failed")
		rw.InternalError("An internal error occurred")
	}
}
