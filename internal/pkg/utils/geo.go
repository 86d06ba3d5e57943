package utils

import "math"

// ValidateCoordinates reports whether lng/lat are finite and inside WGS84 ranges.
func ValidateCoordinates(lng, lat float64) bool {
	if math.IsNaN(lng) || math.IsNaN(lat) || math.IsInf(lng, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ValidateRadius reports whether a radius in meters is usable for a proximity query.
func ValidateRadius(radiusMeters float64) bool {
	return radiusMeters > 0 && !math.IsInf(radiusMeters, 0) && !math.IsNaN(radiusMeters)
}
