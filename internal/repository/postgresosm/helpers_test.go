package postgresosm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementType(t *testing.T) {
	kind, id := elementType(planetPointTable, 42)
	assert.Equal(t, "node", kind)
	assert.EqualValues(t, 42, id)

	kind, id = elementType(planetPolygonTable, 42)
	assert.Equal(t, "way", kind)
	assert.EqualValues(t, 42, id)

	kind, id = elementType(planetPolygonTable, -7)
	assert.Equal(t, "relation", kind)
	assert.EqualValues(t, 7, id)
}

func TestFoodRow_ToSpot(t *testing.T) {
	spot := foodRow{
		Source:  planetPolygonTable,
		OSMID:   -99,
		Name:    " Terra Kulture ",
		Amenity: "restaurant",
		Cuisine: "nigerian",
		Lon:     3.42,
		Lat:     6.43,
	}.toSpot()

	assert.Equal(t, "osm:relation:99", spot.ID)
	assert.Equal(t, "Terra Kulture", spot.Name)
	assert.Equal(t, "restaurant", spot.MealType)
	require.NotNil(t, spot.Specialty)
	assert.Equal(t, "nigerian", *spot.Specialty)
	assert.InDelta(t, 3.42, spot.Location.Lng, 1e-12)

	bare := foodRow{Source: planetPointTable, OSMID: 5, Name: "Kiosk", Amenity: "fast_food"}.toSpot()
	assert.Equal(t, "osm:node:5", bare.ID)
	assert.Nil(t, bare.Specialty)
}
