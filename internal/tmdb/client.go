// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/screenscout/screenscout/internal/config"
	"github.com/screenscout/screenscout/internal/logging"
	"github.com/screenscout/screenscout/internal/metrics"
)

// Client is the single point of contact with the upstream metadata
// provider. It layers, outermost first:
//
//   - Coalescing: identical concurrent requests (same endpoint and
//     serialized params) share one in-flight upstream call. The slot
//     is freed on completion, success or failure.
//   - Circuit breaker: five consecutive transient failures open the
//     circuit; while open, calls fail immediately with ErrUnavailable.
//     After the cooldown one probe is allowed through; its success
//     closes the circuit, its failure re-opens it.
//   - Retry: transient failures (HTTP 429, 5xx, connection errors) are
//     retried up to a fixed maximum with exponential backoff. Permanent
//     failures (404 and other 4xx) are surfaced directly.
//   - Client-side rate limiting and connection reuse via a shared
//     http.Transport.
//
// Permanent 4xx responses do not count against the circuit breaker:
// a provider returning 404 for a bad id is healthy.
//
// Thread safety: safe for concurrent use. The breaker counters and the
// coalescing map are the only cross-request mutable state.
type Client struct {
	baseURL        string
	apiKey         string
	language       string
	client         *http.Client
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[[]byte]
	flight         singleflight.Group
	maxRetries     int
	retryBaseDelay time.Duration
}

const breakerName = "tmdb-api"

// NewClient creates a provider client from configuration.
func NewClient(cfg *config.TMDBConfig) *Client {
	c := &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}

	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit))
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1, // exactly one probe in half-open state
		Timeout:     cfg.Breaker.Cooldown,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= cfg.Breaker.FailureThreshold
			if trip {
				logging.Warn().
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		// A 4xx answer means the provider is up; only transport-level
		// and availability failures count toward opening the circuit.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			return errors.As(err, &se) && !retryableStatus(se.Code)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return c
}

// BreakerState returns the current circuit state as a string
// (closed, half-open, open). Used by the health endpoint.
func (c *Client) BreakerState() string {
	return stateToString(c.breaker.State())
}

// get fetches an endpoint with coalescing, circuit breaking and retry.
// params must not include the api key; it is appended internally.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	body, err, shared := c.flight.Do(key, func() (interface{}, error) {
		return c.breaker.Execute(func() ([]byte, error) {
			return c.fetchWithRetry(ctx, path, params)
		})
	})
	if shared {
		metrics.UpstreamCoalescedTotal.Inc()
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.UpstreamRequestsTotal.WithLabelValues(path, "rejected").Inc()
			return nil, fmt.Errorf("%w: circuit open for %s", ErrUnavailable, path)
		}
		return nil, err
	}
	return body.([]byte), nil
}

// fetchWithRetry performs the HTTP request with exponential backoff on
// transient failures. Backoff delays double from the base each attempt
// and honor a Retry-After header when present. Waits are cancellable.
func (c *Client) fetchWithRetry(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.buildURL(path, params)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt > 0 {
			delay := c.retryBaseDelay * time.Duration(1<<uint(attempt-1))
			if ra := retryAfterFrom(lastErr); ra > 0 {
				delay = ra
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.doRequest(ctx, path, reqURL)
		if err == nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(path, "success").Inc()
			return body, nil
		}
		lastErr = err

		var se *StatusError
		switch {
		case errors.As(err, &se) && !retryableStatus(se.Code):
			// Permanent upstream answer. Surface directly.
			metrics.UpstreamRequestsTotal.WithLabelValues(path, "failure").Inc()
			return nil, err
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.As(err, &se) && se.Code == http.StatusTooManyRequests:
			metrics.UpstreamRetriesTotal.WithLabelValues("rate_limited").Inc()
		case errors.As(err, &se):
			metrics.UpstreamRetriesTotal.WithLabelValues("server_error").Inc()
		default:
			metrics.UpstreamRetriesTotal.WithLabelValues("network").Inc()
		}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(path, "failure").Inc()
	logging.Warn().Err(lastErr).Str("endpoint", path).Int("retries", c.maxRetries).
		Msg("upstream retries exhausted")
	return nil, fmt.Errorf("%w: %s after %d retries: %v", ErrUnavailable, path, c.maxRetries, lastErr)
}

// doRequest executes a single HTTP attempt.
func (c *Client) doRequest(ctx context.Context, path, reqURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		se := &StatusError{Endpoint: path, Code: resp.StatusCode}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if d, perr := time.ParseDuration(ra + "s"); perr == nil {
				return nil, &retryAfterError{StatusError: se, after: d}
			}
		}
		return nil, se
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	return body, nil
}

// buildURL assembles the full request URL with authentication.
func (c *Client) buildURL(path string, params url.Values) string {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("api_key", c.apiKey)
	if c.language != "" && q.Get("language") == "" {
		q.Set("language", c.language)
	}
	return c.baseURL + path + "?" + q.Encode()
}

// retryAfterError wraps a StatusError with a server-requested delay.
type retryAfterError struct {
	*StatusError
	after time.Duration
}

func (e *retryAfterError) Unwrap() error { return e.StatusError }

// retryAfterFrom extracts a Retry-After delay from a previous attempt's
// error, or zero when none was requested.
func retryAfterFrom(err error) time.Duration {
	var rae *retryAfterError
	if errors.As(err, &rae) {
		return rae.after
	}
	return 0
}

// stateToFloat converts circuit breaker state to a metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to a string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
