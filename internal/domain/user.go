package domain

import (
	"strings"
	"time"
)

// User - registered account. The password hash never leaves the store layer.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Username  string    `json:"username" db:"username"`
	Location  GeoPoint  `json:"location"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserWithPassword is only handed to the authentication flow.
type UserWithPassword struct {
	User
	PasswordHash string `db:"password_hash"`
}

// NearbyUser is a User annotated with its distance to the query center.
type NearbyUser struct {
	User
	DistanceMeters float64 `json:"distance"`
}

// ProfileUpdate carries the mutable profile fields. A nil Location keeps the
// stored one.
type ProfileUpdate struct {
	Username string
	Location *GeoPoint
}

// NormalizeEmail is the canonical form used for storage and rate-limit keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
