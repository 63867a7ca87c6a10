// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/screenscout/screenscout/internal/cache"
	"github.com/screenscout/screenscout/internal/config"
	"github.com/screenscout/screenscout/internal/logging"
	"github.com/screenscout/screenscout/internal/metrics"
	"github.com/screenscout/screenscout/internal/models"
)

// Feed is a computed recommendation list. Personalized is false when
// the list is the unpersonalized trending fallback.
type Feed struct {
	Items        []RankedItem `json:"items"`
	Personalized bool         `json:"personalized"`
	GeneratedAt  time.Time    `json:"generated_at"`
}

// Caches groups the stores the service reads through. Explicitly
// constructed and injected; the service owns no hidden global state.
type Caches struct {
	Feeds    *cache.Store
	Details  *cache.Store
	Trending *cache.Store
}

// Service produces personalized home feeds and item-anchored
// recommendation lists, reading through per-category caches. Requests
// degrade rather than fail: an empty profile serves trending, and a
// personalization error falls back to trending too.
type Service struct {
	provider     Provider
	extractor    *Extractor
	orchestrator *Orchestrator
	caches       Caches
	cfg          *config.RecommendConfig
	ttl          *config.CacheConfig
}

// NewService wires the recommendation pipeline together.
func NewService(provider Provider, caches Caches, cfg *config.RecommendConfig, ttl *config.CacheConfig, defaultLanguage string) *Service {
	return &Service{
		provider:     provider,
		extractor:    NewExtractor(provider, cfg, defaultLanguage),
		orchestrator: NewOrchestrator(provider, cfg),
		caches:       caches,
		cfg:          cfg,
		ttl:          ttl,
	}
}

// feedKey namespaces cached feeds by user so one user's history changes
// invalidate only their entries.
func feedKey(kind string, user models.UserContext) string {
	return fmt.Sprintf("feed:%s:%s", user.UserID, cache.GenerateKey(kind, user))
}

// HomeFeed returns the ranked home feed for the user. The second return
// reports whether the feed came from cache. A user with no viewing
// signal gets the trending list, with the cache flag reflecting the
// trending cache.
func (s *Service) HomeFeed(ctx context.Context, user models.UserContext) (*Feed, bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendRequestDuration.WithLabelValues("home").Observe(time.Since(start).Seconds())
	}()

	if len(user.WatchHistory) == 0 && len(user.SavedList) == 0 {
		return s.trendingFeed(ctx)
	}

	v, fromCache, err := s.caches.Feeds.GetOrCompute(ctx, feedKey("home", user), s.ttl.RecommendationsTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.buildHomeFeed(ctx, user)
		})
	if err != nil {
		// Last-resort fallback: a broken personalization pipeline still
		// serves something watchable.
		log := logging.Ctx(ctx)
		log.Warn().Err(err).Str("user_id", user.UserID).
			Msg("personalized feed failed, serving trending")
		return s.trendingFeed(ctx)
	}
	return v.(*Feed), fromCache, nil
}

// buildHomeFeed runs the full personalization pipeline once.
func (s *Service) buildHomeFeed(ctx context.Context, user models.UserContext) (*Feed, error) {
	profile := s.extractor.BuildProfile(ctx, user)
	if profile.IsEmpty() {
		feed, _, err := s.trendingFeed(ctx)
		return feed, err
	}

	results := s.orchestrator.ForHome(ctx, profile)
	if len(results) == 0 {
		return nil, fmt.Errorf("no retrieval source produced candidates")
	}

	ranked := Rank(results, RankContext{
		Profile:      profile,
		Exclude:      historySet(user.WatchHistory),
		Listed:       historySet(user.SavedList),
		ListedAdjust: ListedPenalty,
		Diverse:      true,
		GenreCap:     s.cfg.GenreCap,
		OutlierScore: s.cfg.OutlierScore,
		TargetSize:   s.cfg.HomeFeedSize,
	})
	if len(ranked) == 0 {
		return nil, fmt.Errorf("ranking produced no candidates")
	}

	return &Feed{Items: ranked, Personalized: true, GeneratedAt: time.Now().UTC()}, nil
}

// ForItem returns recommendations anchored on one reference item,
// blending the provider's own lists with the user's taste signals.
func (s *Service) ForItem(ctx context.Context, key models.ItemKey, user models.UserContext) (*Feed, bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendRequestDuration.WithLabelValues("item").Observe(time.Since(start).Seconds())
	}()

	cacheKey := feedKey("item:"+key.String(), user)
	v, fromCache, err := s.caches.Feeds.GetOrCompute(ctx, cacheKey, s.ttl.RecommendationsTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.buildItemFeed(ctx, key, user)
		})
	if err != nil {
		return nil, false, err
	}
	return v.(*Feed), fromCache, nil
}

// buildItemFeed anchors retrieval on the reference item's detail record.
func (s *Service) buildItemFeed(ctx context.Context, key models.ItemKey, user models.UserContext) (*Feed, error) {
	ref, err := s.Detail(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reference item %s: %w", key, err)
	}

	profile := s.extractor.BuildProfile(ctx, user)
	results := s.orchestrator.ForItem(ctx, ref, profile)
	if len(results) == 0 {
		return nil, fmt.Errorf("no retrieval source produced candidates for %s", key)
	}

	exclude := historySet(user.WatchHistory)
	exclude[key] = struct{}{}

	ranked := Rank(results, RankContext{
		Profile:      profile,
		Exclude:      exclude,
		Listed:       historySet(user.SavedList),
		ListedAdjust: ListedBoost,
		TargetSize:   s.cfg.ItemDetailSize,
	})

	return &Feed{Items: ranked, Personalized: !profile.IsEmpty(), GeneratedAt: time.Now().UTC()}, nil
}

// Detail returns the full cached record for one item.
func (s *Service) Detail(ctx context.Context, key models.ItemKey) (*models.MediaDetail, error) {
	v, _, err := s.caches.Details.GetOrCompute(ctx, "detail:"+key.String(), s.ttl.DetailsTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.provider.Details(ctx, key)
		})
	if err != nil {
		return nil, err
	}
	return v.(*models.MediaDetail), nil
}

// Trending returns the cached cross-type trending list.
func (s *Service) Trending(ctx context.Context) ([]models.MediaItem, bool, error) {
	v, fromCache, err := s.caches.Trending.GetOrCompute(ctx, "trending:all:week", s.ttl.TrendingTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.provider.Trending(ctx, "all", "week")
		})
	if err != nil {
		return nil, false, err
	}
	return v.([]models.MediaItem), fromCache, nil
}

// trendingFeed wraps the trending list in the feed shape.
func (s *Service) trendingFeed(ctx context.Context) (*Feed, bool, error) {
	items, fromCache, err := s.Trending(ctx)
	if err != nil {
		return nil, false, err
	}

	ranked := make([]RankedItem, 0, s.cfg.HomeFeedSize)
	for _, item := range items {
		if !item.HasImage() {
			continue
		}
		ranked = append(ranked, RankedItem{MediaItem: item})
		if len(ranked) >= s.cfg.HomeFeedSize {
			break
		}
	}
	return &Feed{Items: ranked, Personalized: false, GeneratedAt: time.Now().UTC()}, fromCache, nil
}

// InvalidateUser drops every cached feed for a user, forcing the next
// request to recompute. Called when the user's history or list changes.
// Returns how many entries were removed.
func (s *Service) InvalidateUser(userID string) int {
	return s.caches.Feeds.DeletePrefix("feed:" + userID + ":")
}

// historySet builds an identity set from history or list entries.
func historySet(entries []models.WatchHistoryItem) map[models.ItemKey]struct{} {
	set := make(map[models.ItemKey]struct{}, len(entries))
	for _, e := range entries {
		set[e.Key()] = struct{}{}
	}
	return set
}
