package postgresosm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/pkg/utils"
)

// Nodes come from planet_osm_point; buildings and areas from
// planet_osm_polygon, represented by a point on their surface.
var nearbyFoodQuery = fmt.Sprintf(`
	WITH point AS (
		SELECT ST_SetSRID(ST_MakePoint($1, $2), %[1]d)::geography AS geom
	), src AS (
		SELECT '%[2]s' AS source, osm_id, name, amenity,
			tags->'cuisine' AS cuisine,
			ST_Transform(way, %[1]d) AS w4326
		FROM %[2]s
		WHERE amenity = ANY($4)
		UNION ALL
		SELECT '%[3]s' AS source, osm_id, name, amenity,
			tags->'cuisine' AS cuisine,
			ST_Transform(ST_PointOnSurface(way), %[1]d) AS w4326
		FROM %[3]s
		WHERE amenity = ANY($4)
	)
	SELECT
		source,
		osm_id,
		COALESCE(name, '') AS name,
		amenity,
		COALESCE(cuisine, '') AS cuisine,
		ST_X(w4326) AS lon,
		ST_Y(w4326) AS lat
	FROM src, point
	WHERE COALESCE(name, '') <> ''
		AND ST_DWithin(w4326::geography, point.geom, $3)
	ORDER BY ST_Distance(w4326::geography, point.geom), osm_id
`, SRID4326, planetPointTable, planetPolygonTable)

type foodRow struct {
	Source  string  `db:"source"`
	OSMID   int64   `db:"osm_id"`
	Name    string  `db:"name"`
	Amenity string  `db:"amenity"`
	Cuisine string  `db:"cuisine"`
	Lon     float64 `db:"lon"`
	Lat     float64 `db:"lat"`
}

func (r foodRow) toSpot() domain.Spot {
	kind, id := elementType(r.Source, r.OSMID)
	return domain.Spot{
		ID:        spotID(kind, id),
		Name:      strings.TrimSpace(r.Name),
		MealType:  r.Amenity,
		Specialty: optionalTag(r.Cuisine),
		Location:  domain.NewGeoPoint(r.Lon, r.Lat),
	}
}

type spotSource struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSpotSource reads named restaurants, cafes and fast food places around a
// point from the osm2pgsql tables.
func NewSpotSource(db *DB) repository.SpotSource {
	return &spotSource{
		db:     db.DB,
		logger: db.logger,
	}
}

func (s *spotSource) FetchSpots(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.Spot, error) {
	if !utils.ValidateCoordinates(center.Lng, center.Lat) || !utils.ValidateRadius(radiusMeters) {
		return nil, fmt.Errorf("invalid osm area %s r=%f", center, radiusMeters)
	}

	var rows []foodRow
	if err := s.db.SelectContext(ctx, &rows, nearbyFoodQuery,
		center.Lng, center.Lat, radiusMeters, pq.Array(foodAmenities),
	); err != nil {
		s.logger.Error("Failed to read food places from osm database", zap.Error(err))
		return nil, fmt.Errorf("query osm food places: %w", err)
	}

	spots := make([]domain.Spot, 0, len(rows))
	for _, row := range rows {
		spots = append(spots, row.toSpot())
	}

	s.logger.Info("Fetched spots from OSM database", zap.Int("spots", len(spots)))
	return spots, nil
}
