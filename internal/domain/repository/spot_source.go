package repository

import (
	"context"

	"github.com/foodspot-finder/internal/domain"
)

// SpotSource fetches candidate spots from an external catalogue for seeding.
type SpotSource interface {
	FetchSpots(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.Spot, error)
}
