package postgresosm

const (
	SRID4326 = 4326

	planetPointTable   = "planet_osm_point"
	planetPolygonTable = "planet_osm_polygon"
)

// foodAmenities are the amenity values imported as spots. They match the
// Overpass source so both seed paths produce the same catalogue.
var foodAmenities = []string{"restaurant", "cafe", "fast_food"}
