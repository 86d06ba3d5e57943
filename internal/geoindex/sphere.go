package geoindex

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s2"

	"github.com/foodspot-finder/internal/domain"
)

// EarthRadiusMeters is the IUGG mean Earth radius.
const EarthRadiusMeters = 6371008.8

// boxPadding widens search boxes so rounding never drops a boundary point.
const boxPadding = 1e-9

// Distance is the great-circle distance between a and b in meters.
func Distance(a, b domain.GeoPoint) float64 {
	pa := s2.LatLngFromDegrees(a.Lat, a.Lng)
	pb := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return pa.Distance(pb).Radians() * EarthRadiusMeters
}

type box struct {
	minLng, minLat float64
	maxLng, maxLat float64
}

func (b box) rect() (*rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{b.minLng, b.minLat},
		[]float64{b.maxLng - b.minLng, b.maxLat - b.minLat},
	)
}

// searchBoxes returns the lng/lat rectangles covering the spherical cap of
// radiusMeters around center. The longitude half-width is the exact extent
// asin(sin δ / cos φ); caps reaching a pole span every longitude, and caps
// crossing ±180° are split in two.
func searchBoxes(center domain.GeoPoint, radiusMeters float64) []box {
	delta := radiusMeters / EarthRadiusMeters
	deltaDeg := delta * 180 / math.Pi

	minLat := center.Lat - deltaDeg - boxPadding
	maxLat := center.Lat + deltaDeg + boxPadding

	if delta >= math.Pi/2 || minLat <= -90 || maxLat >= 90 {
		return []box{{
			minLng: -180 - boxPadding,
			minLat: math.Max(minLat, -90-boxPadding),
			maxLng: 180 + boxPadding,
			maxLat: math.Min(maxLat, 90+boxPadding),
		}}
	}

	latRad := center.Lat * math.Pi / 180
	ratio := math.Sin(delta) / math.Cos(latRad)
	if ratio >= 1 {
		return []box{{minLng: -180 - boxPadding, minLat: minLat, maxLng: 180 + boxPadding, maxLat: maxLat}}
	}
	dLng := math.Asin(ratio)*180/math.Pi + boxPadding

	minLng := center.Lng - dLng
	maxLng := center.Lng + dLng

	switch {
	case minLng < -180:
		return []box{
			{minLng: -180 - boxPadding, minLat: minLat, maxLng: maxLng, maxLat: maxLat},
			{minLng: minLng + 360, minLat: minLat, maxLng: 180 + boxPadding, maxLat: maxLat},
		}
	case maxLng > 180:
		return []box{
			{minLng: minLng, minLat: minLat, maxLng: 180 + boxPadding, maxLat: maxLat},
			{minLng: -180 - boxPadding, minLat: minLat, maxLng: maxLng - 360, maxLat: maxLat},
		}
	}
	return []box{{minLng: minLng, minLat: minLat, maxLng: maxLng, maxLat: maxLat}}
}
