package domain

import (
	"slices"
	"time"
)

// Spot is a restaurant, cafe or other food place.
type Spot struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	MealType     string    `json:"mealType" db:"meal_type"`
	Specialty    *string   `json:"specialty,omitempty" db:"specialty"`
	AveragePrice *float64  `json:"averagePrice,omitempty" db:"average_price"`
	Location     GeoPoint  `json:"location"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// NearbySpot is a Spot annotated with its great-circle distance to the query center.
type NearbySpot struct {
	Spot
	DistanceMeters float64 `json:"distance"`
}

// SpotFilter narrows a proximity query. The zero value matches every spot.
type SpotFilter struct {
	MealTypes []string
}

// Matches reports whether s passes the filter.
func (f SpotFilter) Matches(s Spot) bool {
	return len(f.MealTypes) == 0 || slices.Contains(f.MealTypes, s.MealType)
}
