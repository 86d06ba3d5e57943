// Package memory holds process-local stores backed by the geoindex R-tree.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/geoindex"
)

type spotRepository struct {
	index *geoindex.Index[domain.Spot]
	now   func() time.Time
}

// NewSpotRepository - process-local store backed by geoindex
func NewSpotRepository() repository.SpotRepository {
	return &spotRepository{
		index: geoindex.New[domain.Spot](),
		now:   time.Now,
	}
}

func (r *spotRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64, filter domain.SpotFilter) ([]domain.NearbySpot, error) {
	hits, err := r.index.QueryFunc(ctx, center, radiusMeters, filter.Matches)
	if err != nil {
		return nil, err
	}

	spots := make([]domain.NearbySpot, len(hits))
	for i, h := range hits {
		spots[i] = domain.NearbySpot{Spot: h.Value, DistanceMeters: h.DistanceMeters}
	}
	return spots, nil
}

func (r *spotRepository) GetByID(ctx context.Context, id string) (*domain.Spot, error) {
	spot, _, ok := r.index.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &spot, nil
}

func (r *spotRepository) Upsert(ctx context.Context, spots []domain.Spot) (int, error) {
	now := r.now().UTC()
	for i, s := range spots {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if existing, _, ok := r.index.Get(s.ID); ok {
			s.CreatedAt = existing.CreatedAt
		} else if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		s.UpdatedAt = now

		if err := r.index.Upsert(s.ID, s.Location, s); err != nil {
			return i, fmt.Errorf("spot %q: %w", s.Name, err)
		}
	}
	return len(spots), nil
}

func (r *spotRepository) Count(ctx context.Context) (int64, error) {
	return int64(r.index.Len()), nil
}
