package repository

import (
	"context"
	"time"

	"github.com/foodspot-finder/internal/domain"
)

// CacheRepository caches nearby-spot results. A miss is (nil, nil).
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	GetNearbySpots(ctx context.Context, key string) ([]domain.NearbySpot, error)
	SetNearbySpots(ctx context.Context, key string, spots []domain.NearbySpot, ttl time.Duration) error

	// InvalidatePrefix drops every key starting with prefix and returns how many.
	InvalidatePrefix(ctx context.Context, prefix string) (int64, error)
}
