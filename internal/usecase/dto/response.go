package dto

import "github.com/foodspot-finder/internal/domain"

// NearbySpotsResponse - spots ordered nearest first
type NearbySpotsResponse struct {
	Spots    []domain.NearbySpot `json:"spots"`
	Total    int                 `json:"total"`
	RadiusM  float64             `json:"radius_m"`
	CacheHit bool                `json:"-"`
}

// AuthUser - public part of the user returned after authentication
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResponse - issued token plus the authenticated identity
type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    AuthUser `json:"user"`
}

// NearbyUsersResponse - other users ordered nearest first
type NearbyUsersResponse struct {
	Users   []domain.NearbyUser `json:"users"`
	Total   int                 `json:"total"`
	RadiusM float64             `json:"radius_m"`
}
