package repository

import (
	"context"

	"github.com/foodspot-finder/internal/domain"
)

// UserRepository is the durable user store.
type UserRepository interface {
	// Create stores a new user. A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, email, passwordHash string, location domain.GeoPoint) (*domain.User, error)

	// GetByEmail returns domain.ErrNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*domain.UserWithPassword, error)

	// GetByID returns domain.ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// UpdateProfile returns the updated user, or domain.ErrNotFound.
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)

	// FindNear returns users within radiusMeters of center, nearest first.
	FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.NearbyUser, error)
}
