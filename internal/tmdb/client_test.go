// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenscout/screenscout/internal/config"
	"github.com/screenscout/screenscout/internal/models"
)

const listBody = `{"page":1,"results":[{"id":603,"title":"The Matrix","release_date":"1999-03-30","vote_average":8.2,"vote_count":26000,"popularity":95.5,"genre_ids":[28,878],"original_language":"en","media_type":"movie"}],"total_pages":1,"total_results":1}`

func newTestClient(serverURL string, retries int, breakerThreshold uint32, cooldown time.Duration) *Client {
	return NewClient(&config.TMDBConfig{
		APIKey:         "test-key",
		BaseURL:        serverURL,
		Language:       "en-US",
		Timeout:        2 * time.Second,
		MaxRetries:     retries,
		RetryBaseDelay: time.Millisecond,
		RateLimit:      0,
		Breaker: config.BreakerConfig{
			FailureThreshold: breakerThreshold,
			Cooldown:         cooldown,
		},
	})
}

func TestRetryOnTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(listBody))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3, 10, time.Minute)
	page, err := c.SearchMulti(context.Background(), "matrix", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "The Matrix", page.Items[0].Title)
	assert.Equal(t, int32(3), calls.Load(), "expected two failures then one success")
}

func TestRetryBackoffDelaysDouble(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(listBody))
	}))
	defer srv.Close()

	base := 40 * time.Millisecond
	c := NewClient(&config.TMDBConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		Language:       "en-US",
		Timeout:        2 * time.Second,
		MaxRetries:     3,
		RetryBaseDelay: base,
		Breaker: config.BreakerConfig{
			FailureThreshold: 10,
			Cooldown:         time.Minute,
		},
	})

	start := time.Now()
	_, err := c.Trending(context.Background(), "all", "week")
	elapsed := time.Since(start)
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())

	// Two waits before the successful third attempt: base, then 2x base.
	assert.GreaterOrEqual(t, elapsed, 3*base, "backoff waits shorter than base + 2x base")
}

func TestNoRetryOnNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3, 10, time.Minute)
	_, err := c.Details(context.Background(), models.ItemKey{MediaType: models.MediaTypeMovie, ID: 999999})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load(), "permanent failures must not be retried")
}

func TestRetriesExhaustedReportsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 2, 10, time.Minute)
	_, err := c.Trending(context.Background(), "all", "week")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// No retries so each call is exactly one upstream request.
	c := newTestClient(srv.URL, 0, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.Trending(ctx, "all", "week")
		require.ErrorIs(t, err, ErrUnavailable)
	}
	require.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "open", c.BreakerState())

	// Open circuit rejects without touching the network.
	_, err := c.Trending(ctx, "all", "week")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), calls.Load(), "open circuit must not reach the server")
}

func TestCircuitBreakerNotTrippedByNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.Details(ctx, models.ItemKey{MediaType: models.MediaTypeMovie, ID: i + 1})
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, "closed", c.BreakerState(), "4xx answers mean the provider is healthy")
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(listBody))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0, 2, 50*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Trending(ctx, "all", "week")
		require.Error(t, err)
	}
	require.Equal(t, "open", c.BreakerState())

	healthy.Store(true)
	time.Sleep(80 * time.Millisecond)

	// The half-open probe succeeds and closes the circuit.
	items, err := c.Trending(ctx, "all", "week")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "closed", c.BreakerState())
}

func TestConcurrentIdenticalRequestsCoalesce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(listBody))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0, 10, time.Minute)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.SearchMulti(ctx, "matrix", 1)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, int32(1), calls.Load(), "identical in-flight requests must share one upstream call")
}

func TestCoalescingSlotFreedAfterCompletion(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(listBody))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0, 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.SearchMulti(ctx, "matrix", 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load(), "sequential identical requests must not coalesce")
}

func TestNormalizeDropsPersonEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[
			{"id":1,"media_type":"person","name":"Keanu Reeves"},
			{"id":603,"media_type":"movie","title":"The Matrix","release_date":"1999-03-30"},
			{"id":1396,"media_type":"tv","name":"Breaking Bad","first_air_date":"2008-01-20"}
		],"total_pages":1,"total_results":3}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0, 10, time.Minute)
	page, err := c.SearchMulti(context.Background(), "k", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	assert.Equal(t, models.MediaTypeMovie, page.Items[0].MediaType)
	assert.Equal(t, "The Matrix", page.Items[0].Title)
	assert.Equal(t, models.MediaTypeTV, page.Items[1].MediaType)
	assert.Equal(t, "Breaking Bad", page.Items[1].Title)
	assert.Equal(t, "2008-01-20", page.Items[1].ReleaseDate, "first_air_date maps to the shared release field")
}

func TestDetailsNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("append_to_response"), "credits")
		w.Write([]byte(`{
			"id":603,"title":"The Matrix","release_date":"1999-03-30",
			"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}],
			"belongs_to_collection":{"id":2344,"name":"The Matrix Collection"},
			"credits":{"cast":[{"id":6384,"name":"Keanu Reeves","character":"Neo","order":0}],
			           "crew":[{"id":9340,"name":"Lilly Wachowski","job":"Director"},
			                   {"id":1,"name":"Someone Else","job":"Producer"}]},
			"keywords":{"keywords":[{"id":312,"name":"man vs machine"}]},
			"videos":{"results":[{"key":"abc","name":"Trailer","site":"YouTube","type":"Trailer","official":true}]},
			"similar":{"page":1,"results":[{"id":604,"title":"The Matrix Reloaded","release_date":"2003-05-15"}],"total_pages":1,"total_results":1}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0, 10, time.Minute)
	d, err := c.Details(context.Background(), models.ItemKey{MediaType: models.MediaTypeMovie, ID: 603})
	require.NoError(t, err)

	assert.Equal(t, []int{28, 878}, d.GenreIDs)
	require.NotNil(t, d.Collection)
	assert.Equal(t, 2344, d.Collection.ID)
	require.Len(t, d.Directors, 1)
	assert.Equal(t, "Lilly Wachowski", d.Directors[0].Name)
	require.Len(t, d.Keywords, 1)
	require.Len(t, d.Similar, 1)
	assert.Equal(t, models.MediaTypeMovie, d.Similar[0].MediaType, "similar entries inherit the parent media type")
	require.NotNil(t, d.Trailer())
	assert.Equal(t, "abc", d.Trailer().Key)
}

func TestTVKeywordsUseResultsShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20",
			"keywords":{"results":[{"id":1,"name":"drug cartel"}]}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0, 10, time.Minute)
	d, err := c.Details(context.Background(), models.ItemKey{MediaType: models.MediaTypeTV, ID: 1396})
	require.NoError(t, err)
	require.Len(t, d.Keywords, 1)
	assert.Equal(t, "drug cartel", d.Keywords[0].Name)
}
