// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/screenscout/screenscout/internal/metrics"
)

// Entry represents a cached item with expiration
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Store provides a thread-safe in-memory cache with per-entry TTL and
// compute-or-serve semantics. Concurrent misses on the same key share a
// single computation; everyone waiting on it receives the same value or
// the same error. Errors are never cached, so the next request after a
// failed computation recomputes.
//
// Each Store has a category name used to label its metrics, so hit
// rates are observable per cache (recommendations, search, details).
type Store struct {
	name       string
	mu         sync.RWMutex
	entries    map[string]Entry
	defaultTTL time.Duration
	flight     singleflight.Group
	stats      Stats
	stop       chan struct{}
	stopOnce   sync.Once
}

// Stats tracks cache performance counters
type Stats struct {
	mu          sync.RWMutex
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates a named cache with a default TTL and starts a background
// cleanup goroutine sweeping expired entries at the given interval.
// Call Stop to terminate the goroutine.
func New(name string, defaultTTL, cleanupInterval time.Duration) *Store {
	s := &Store{
		name:       name,
		entries:    make(map[string]Entry),
		defaultTTL: defaultTTL,
		stats: Stats{
			LastCleanup: time.Now(),
		},
		stop: make(chan struct{}),
	}

	go s.cleanupLoop(cleanupInterval)

	return s
}

// Get retrieves a value by key. Expired entries are removed on access
// and reported as misses.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		s.recordMiss()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		s.recordMiss()
		s.recordEviction()
		return nil, false
	}

	s.recordHit()
	return entry.Data, true
}

// Set stores a value with the default TTL.
func (s *Store) Set(key string, value interface{}) {
	s.SetWithTTL(key, value, s.defaultTTL)
}

// SetWithTTL stores a value with a custom TTL.
func (s *Store) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}

	s.stats.mu.Lock()
	s.stats.TotalKeys = int64(len(s.entries))
	s.stats.mu.Unlock()
	metrics.CacheEntries.WithLabelValues(s.name).Set(float64(len(s.entries)))
}

// GetOrCompute returns the cached value for key, or runs produce to
// compute, cache and return it. Concurrent callers for the same key
// while a computation is in flight wait for that computation instead
// of starting their own. The second return reports whether the value
// was served from cache without computing.
//
// A produce error is returned to every waiting caller and nothing is
// cached, so a subsequent call recomputes.
func (s *Store) GetOrCompute(ctx context.Context, key string, ttl time.Duration, produce func(ctx context.Context) (interface{}, error)) (interface{}, bool, error) {
	if v, ok := s.Get(key); ok {
		return v, true, nil
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		// Another caller may have completed while we queued.
		s.mu.RLock()
		entry, exists := s.entries[key]
		s.mu.RUnlock()
		if exists && time.Now().Before(entry.ExpiresAt) {
			return entry.Data, nil
		}

		v, err := produce(ctx)
		if err != nil {
			return nil, err
		}
		s.SetWithTTL(key, v, ttl)
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, false, nil
}

// Delete removes a specific entry. Safe to call for absent keys.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	s.recordEviction()
}

// DeletePrefix removes every entry whose key starts with prefix and
// returns how many were removed. Used for targeted invalidation, such
// as dropping all cached feeds for one user.
func (s *Store) DeletePrefix(prefix string) int {
	s.mu.Lock()
	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	total := len(s.entries)
	s.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.Evictions += int64(removed)
	s.stats.TotalKeys = int64(total)
	s.stats.mu.Unlock()
	metrics.CacheEvictions.WithLabelValues(s.name).Add(float64(removed))
	metrics.CacheEntries.WithLabelValues(s.name).Set(float64(total))
	return removed
}

// Clear removes all entries in one map swap.
func (s *Store) Clear() {
	s.mu.Lock()
	evictions := int64(len(s.entries))
	s.entries = make(map[string]Entry)
	s.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.Evictions += evictions
	s.stats.TotalKeys = 0
	s.stats.mu.Unlock()
	metrics.CacheEvictions.WithLabelValues(s.name).Add(float64(evictions))
	metrics.CacheEntries.WithLabelValues(s.name).Set(0)
}

// Stop terminates the background cleanup goroutine. Idempotent.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// GetStats returns a snapshot of the cache counters.
func (s *Store) GetStats() Stats {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	return Stats{
		Hits:        s.stats.Hits,
		Misses:      s.stats.Misses,
		Evictions:   s.stats.Evictions,
		TotalKeys:   s.stats.TotalKeys,
		LastCleanup: s.stats.LastCleanup,
	}
}

// HitRate returns the cache hit rate as a percentage
func (s *Store) HitRate() float64 {
	stats := s.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// cleanupLoop periodically removes expired entries until Stop is called
func (s *Store) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}

// cleanup removes all expired entries
func (s *Store) cleanup() {
	now := time.Now()
	s.mu.Lock()
	evictions := int64(0)
	for key, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, key)
			evictions++
		}
	}
	total := len(s.entries)
	s.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.Evictions += evictions
	s.stats.TotalKeys = int64(total)
	s.stats.LastCleanup = now
	s.stats.mu.Unlock()
	metrics.CacheEvictions.WithLabelValues(s.name).Add(float64(evictions))
	metrics.CacheEntries.WithLabelValues(s.name).Set(float64(total))
}

func (s *Store) recordHit() {
	s.stats.mu.Lock()
	s.stats.Hits++
	s.stats.mu.Unlock()
	metrics.CacheHits.WithLabelValues(s.name).Inc()
}

func (s *Store) recordMiss() {
	s.stats.mu.Lock()
	s.stats.Misses++
	s.stats.mu.Unlock()
	metrics.CacheMisses.WithLabelValues(s.name).Inc()
}

func (s *Store) recordEviction() {
	s.stats.mu.Lock()
	s.stats.Evictions++
	s.stats.mu.Unlock()
	metrics.CacheEvictions.WithLabelValues(s.name).Inc()
}

// GenerateKey creates a cache key from a method name and parameters
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to simple string key
		return fmt.Sprintf("%s:%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
