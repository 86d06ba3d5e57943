// Package seed loads food spots from JSON files for the seed command.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/foodspot-finder/internal/domain"
	apperrors "github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
)

// ReadSpots decodes a JSON array of spots. Every entry needs a name, a meal
// type and an in-range location; a non-negative averagePrice is optional.
func ReadSpots(r io.Reader) ([]domain.Spot, error) {
	var spots []domain.Spot
	if err := json.NewDecoder(r).Decode(&spots); err != nil {
		return nil, fmt.Errorf("decode spots: %w", err)
	}

	for i := range spots {
		s := &spots[i]
		s.Name = strings.TrimSpace(s.Name)
		s.MealType = strings.ToLower(strings.TrimSpace(s.MealType))

		switch {
		case s.Name == "":
			return nil, invalid(i, "name is required")
		case s.MealType == "":
			return nil, invalid(i, "mealType is required")
		case !utils.ValidateCoordinates(s.Location.Lng, s.Location.Lat):
			return nil, invalid(i, "location out of range")
		case s.AveragePrice != nil && *s.AveragePrice < 0:
			return nil, invalid(i, "averagePrice must not be negative")
		}
	}
	return spots, nil
}

// ReadSpotsFile is ReadSpots over a file on disk.
func ReadSpotsFile(path string) ([]domain.Spot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSpots(f)
}

func invalid(index int, reason string) error {
	return apperrors.ErrValidation.WithDetails(map[string]interface{}{
		fmt.Sprintf("spots[%d]", index): reason,
	})
}
