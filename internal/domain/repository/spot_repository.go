package repository

import (
	"context"

	"github.com/foodspot-finder/internal/domain"
)

// SpotRepository is the durable, geospatially indexed spot store.
type SpotRepository interface {
	// FindNear returns spots within radiusMeters of center, nearest first.
	// Store failures are wrapped around errors.ErrStoreUnavailable.
	FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64, filter domain.SpotFilter) ([]domain.NearbySpot, error)

	// GetByID returns domain.ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*domain.Spot, error)

	// Upsert inserts or replaces spots by id; empty ids are assigned.
	Upsert(ctx context.Context, spots []domain.Spot) (int, error)

	Count(ctx context.Context) (int64, error)
}
