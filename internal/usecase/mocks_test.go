package usecase_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/foodspot-finder/internal/domain"
)

// MockSpotRepository is a mock of SpotRepository
type MockSpotRepository struct {
	mock.Mock
}

func (m *MockSpotRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64, filter domain.SpotFilter) ([]domain.NearbySpot, error) {
	args := m.Called(ctx, center, radiusMeters, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NearbySpot), args.Error(1)
}

func (m *MockSpotRepository) GetByID(ctx context.Context, id string) (*domain.Spot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Spot), args.Error(1)
}

func (m *MockSpotRepository) Upsert(ctx context.Context, spots []domain.Spot) (int, error) {
	args := m.Called(ctx, spots)
	return args.Int(0), args.Error(1)
}

func (m *MockSpotRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) GetNearbySpots(ctx context.Context, key string) ([]domain.NearbySpot, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NearbySpot), args.Error(1)
}

func (m *MockCacheRepository) SetNearbySpots(ctx context.Context, key string, spots []domain.NearbySpot, ttl time.Duration) error {
	return m.Called(ctx, key, spots, ttl).Error(0)
}

func (m *MockCacheRepository) InvalidatePrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, email, passwordHash string, location domain.GeoPoint) (*domain.User, error) {
	args := m.Called(ctx, email, passwordHash, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserWithPassword, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserWithPassword), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.NearbyUser, error) {
	args := m.Called(ctx, center, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NearbyUser), args.Error(1)
}

// mapCache is a CacheRepository backed by a map.
type mapCache struct {
	mu    sync.Mutex
	spots map[string][]domain.NearbySpot
}

func newMapCache() *mapCache {
	return &mapCache{spots: make(map[string][]domain.NearbySpot)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) { return nil, nil }

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.spots, key)
	return nil
}

func (c *mapCache) GetNearbySpots(ctx context.Context, key string) ([]domain.NearbySpot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spots[key], nil
}

func (c *mapCache) SetNearbySpots(ctx context.Context, key string, spots []domain.NearbySpot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spots[key] = spots
	return nil
}

func (c *mapCache) InvalidatePrefix(ctx context.Context, prefix string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for key := range c.spots {
		if strings.HasPrefix(key, prefix) {
			delete(c.spots, key)
			n++
		}
	}
	return n, nil
}

func ptrFloat64(f float64) *float64 { return &f }
