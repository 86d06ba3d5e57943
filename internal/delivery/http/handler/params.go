package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foodspot-finder/internal/pkg/errors"
)

// coordinates reads the lng/lat query pair. Both are required.
func coordinates(c *fiber.Ctx) (lng, lat float64, err error) {
	rawLng, rawLat := c.Query("lng"), c.Query("lat")
	if rawLng == "" || rawLat == "" {
		return 0, 0, errors.ErrMissingCoordinates
	}

	lng, errLng := strconv.ParseFloat(rawLng, 64)
	lat, errLat := strconv.ParseFloat(rawLat, 64)
	if errLng != nil || errLat != nil {
		details := map[string]interface{}{}
		if errLng != nil {
			details["lng"] = "must be a number"
		}
		if errLat != nil {
			details["lat"] = "must be a number"
		}
		return 0, 0, errors.ErrValidation.WithDetails(details)
	}
	return lng, lat, nil
}

// optionalFloat parses an optional numeric query parameter; absent means 0.
func optionalFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.ErrValidation.WithDetails(map[string]interface{}{
			key: "must be a number",
		})
	}
	return v, nil
}

// csvQuery splits a comma-separated query parameter, dropping empty items.
func csvQuery(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
