package testhelpers

import (
	"github.com/foodspot-finder/internal/domain"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

// LagosCenter is the reference point the spot fixtures are laid out around.
var LagosCenter = domain.NewGeoPoint(3.3792, 6.5244)

// SpotFixtures returns spots at known distances east of LagosCenter:
// about 110 m, 1.2 km and 8 km.
func SpotFixtures() []domain.Spot {
	return []domain.Spot{
		{
			ID:           "spot-cafe",
			Name:         "Cafe Neo",
			MealType:     "breakfast",
			Specialty:    strPtr("coffee"),
			AveragePrice: floatPtr(2500),
			Location:     domain.NewGeoPoint(3.3802, 6.5244),
		},
		{
			ID:       "spot-lunch",
			Name:     "Mama Cass",
			MealType: "lunch",
			Location: domain.NewGeoPoint(3.3900, 6.5244),
		},
		{
			ID:       "spot-far",
			Name:     "Far Away Grill",
			MealType: "lunch",
			Location: domain.NewGeoPoint(3.4515, 6.5244),
		},
	}
}
