// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnavailable is returned when the provider cannot be reached:
// the circuit is open, or retries for a transient failure are exhausted.
// Callers should degrade (fallback listing, partial result) rather than
// hard-fail the user request.
var ErrUnavailable = errors.New("tmdb: provider unavailable")

// ErrNotFound is returned for upstream 404 responses. Permanent, never
// retried, and does not count against the circuit breaker.
var ErrNotFound = errors.New("tmdb: not found")

// StatusError reports a non-2xx upstream response that is not retried.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: %s returned status %d", e.Endpoint, e.Code)
}

// Is allows errors.Is(err, ErrNotFound) for 404 status errors.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// retryableStatus reports whether an HTTP status warrants a retry:
// rate limiting and server-side failures only. Client errors such as
// 404 are permanent.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
