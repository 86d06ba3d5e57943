package domain

import (
	"encoding/json"
	"fmt"
)

// GeoPoint is a WGS84 position. Longitude comes first everywhere, matching
// GeoJSON and the stores' coordinate order.
type GeoPoint struct {
	Lng float64 `bson:"lng" db:"lng"`
	Lat float64 `bson:"lat" db:"lat"`
}

// NewGeoPoint - longitude first, as in GeoJSON
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Lng: lng, Lat: lat}
}

// Origin is the location assigned to users until they report one.
var Origin = GeoPoint{}

func (p GeoPoint) String() string {
	return fmt.Sprintf("[%f, %f]", p.Lng, p.Lat)
}

type geoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// MarshalJSON encodes the point as a GeoJSON Point.
func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSONPoint{Type: "Point", Coordinates: []float64{p.Lng, p.Lat}})
}

// UnmarshalJSON accepts a GeoJSON Point.
func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var g geoJSONPoint
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	if g.Type != "" && g.Type != "Point" {
		return fmt.Errorf("unsupported geometry type %q", g.Type)
	}
	if len(g.Coordinates) != 2 {
		return fmt.Errorf("point needs exactly 2 coordinates, got %d", len(g.Coordinates))
	}
	p.Lng, p.Lat = g.Coordinates[0], g.Coordinates[1]
	return nil
}
