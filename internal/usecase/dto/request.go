package dto

import "github.com/foodspot-finder/internal/domain"

// NearbySpotsRequest - nearby-spot search around a point
type NearbySpotsRequest struct {
	Lng       float64
	Lat       float64
	MealTypes []string
}

// AuthRequest - authenticate-or-register body
type AuthRequest struct {
	Email    string           `json:"email" validate:"required,email"`
	Password string           `json:"password" validate:"required,min=6"`
	Location *domain.GeoPoint `json:"location,omitempty"`
}

// UpdateProfileRequest - profile update body; lng and lat travel together
type UpdateProfileRequest struct {
	Username string   `json:"username" validate:"required,max=64"`
	Lng      *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
	Lat      *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
}

// NearbyUsersRequest - users near a point, excluding the caller
type NearbyUsersRequest struct {
	Lng          float64
	Lat          float64
	RadiusMeters float64
}
