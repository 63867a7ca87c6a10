// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/screenscout/screenscout/internal/logging"
)

// RequestID middleware assigns each request a unique ID, echoes it in
// the X-Request-ID response header, and threads it through the context
// so every log line of the request carries it. An ID supplied by an
// upstream proxy is kept.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		next(w, r.WithContext(ctx))
	}
}
