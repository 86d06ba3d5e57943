package seed_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodspot-finder/internal/domain"
	apperrors "github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/seed"
)

const sample = `[
  {
    "id": "buka-1",
    "name": " Iya Basira ",
    "mealType": "Lunch",
    "specialty": "amala",
    "averagePrice": 2500,
    "location": {"type": "Point", "coordinates": [3.38, 6.5352]}
  },
  {
    "name": "Bean Co",
    "mealType": "breakfast",
    "location": {"coordinates": [3.3793, 6.5245]}
  }
]`

func TestReadSpots(t *testing.T) {
	spots, err := seed.ReadSpots(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, spots, 2)

	first := spots[0]
	assert.Equal(t, "buka-1", first.ID)
	assert.Equal(t, "Iya Basira", first.Name)
	assert.Equal(t, "lunch", first.MealType)
	require.NotNil(t, first.Specialty)
	assert.Equal(t, "amala", *first.Specialty)
	require.NotNil(t, first.AveragePrice)
	assert.Equal(t, 2500.0, *first.AveragePrice)
	assert.Equal(t, domain.NewGeoPoint(3.38, 6.5352), first.Location)

	assert.Empty(t, spots[1].ID)
	assert.Nil(t, spots[1].AveragePrice)
}

func TestReadSpots_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `[{"mealType":"lunch","location":{"coordinates":[3,6]}}]`},
		{"missing meal type", `[{"name":"x","location":{"coordinates":[3,6]}}]`},
		{"bad latitude", `[{"name":"x","mealType":"lunch","location":{"coordinates":[3,96]}}]`},
		{"negative price", `[{"name":"x","mealType":"lunch","averagePrice":-1,"location":{"coordinates":[3,6]}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.ReadSpots(strings.NewReader(tt.body))
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	_, err := seed.ReadSpots(strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestReadSpotsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spots.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	spots, err := seed.ReadSpotsFile(path)
	require.NoError(t, err)
	assert.Len(t, spots, 2)

	_, err = seed.ReadSpotsFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
