package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
)

const scanBatch = 500

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository creates a Redis-backed cache repository
func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (r *cacheRepository) GetNearbySpots(ctx context.Context, key string) ([]domain.NearbySpot, error) {
	data, err := r.Get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}

	var spots []domain.NearbySpot
	if err := json.Unmarshal(data, &spots); err != nil {
		r.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = r.Delete(ctx, key)
		return nil, nil
	}
	return spots, nil
}

func (r *cacheRepository) SetNearbySpots(ctx context.Context, key string, spots []domain.NearbySpot, ttl time.Duration) error {
	if spots == nil {
		spots = []domain.NearbySpot{}
	}
	data, err := json.Marshal(spots)
	if err != nil {
		return fmt.Errorf("marshal nearby spots: %w", err)
	}
	return r.Set(ctx, key, data, ttl)
}

// InvalidatePrefix walks the keyspace with SCAN so large caches never block
// the server the way KEYS would.
func (r *cacheRepository) InvalidatePrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("cache scan error: %w", err)
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("cache delete error: %w", err)
			}
			removed += n
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	r.logger.Info("Cache invalidated", zap.String("prefix", prefix), zap.Int64("removed", removed))
	return removed, nil
}
