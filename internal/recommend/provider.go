// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package recommend

import (
	"context"

	"github.com/screenscout/screenscout/internal/models"
	"github.com/screenscout/screenscout/internal/tmdb"
)

// Provider is the slice of the upstream client the recommendation
// pipeline needs. *tmdb.Client satisfies it; tests substitute fakes.
type Provider interface {
	Details(ctx context.Context, key models.ItemKey) (*models.MediaDetail, error)
	Similar(ctx context.Context, key models.ItemKey) ([]models.MediaItem, error)
	Recommendations(ctx context.Context, key models.ItemKey) ([]models.MediaItem, error)
	Collection(ctx context.Context, id int) ([]models.MediaItem, error)
	Discover(ctx context.Context, mt models.MediaType, q tmdb.DiscoverQuery) ([]models.MediaItem, error)
	Trending(ctx context.Context, mediaType, window string) ([]models.MediaItem, error)
}
