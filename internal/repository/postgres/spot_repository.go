package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	apperrors "github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
)

type spotRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSpotRepository creates a new PostGIS spot repository
func NewSpotRepository(db *DB) repository.SpotRepository {
	return &spotRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

type spotRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	MealType     string    `db:"meal_type"`
	Specialty    *string   `db:"specialty"`
	AveragePrice *float64  `db:"average_price"`
	Lng          float64   `db:"lng"`
	Lat          float64   `db:"lat"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r spotRow) toDomain() domain.Spot {
	return domain.Spot{
		ID:           r.ID,
		Name:         r.Name,
		MealType:     r.MealType,
		Specialty:    r.Specialty,
		AveragePrice: r.AveragePrice,
		Location:     domain.NewGeoPoint(r.Lng, r.Lat),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const spotColumns = `
	id, name, meal_type, specialty, average_price,
	ST_X(location::geometry) AS lng, ST_Y(location::geometry) AS lat,
	created_at, updated_at`

// FindNear uses ST_DWithin on the geography column and orders by distance, then insertion.
func (r *spotRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64, filter domain.SpotFilter) ([]domain.NearbySpot, error) {
	if !utils.ValidateCoordinates(center.Lng, center.Lat) || !utils.ValidateRadius(radiusMeters) {
		return nil, apperrors.ErrInvalidQuery
	}

	query := `
		WITH point AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS geom
		)
		SELECT ` + spotColumns + `,
			ST_Distance(location, point.geom, false) AS distance
		FROM spots, point
		WHERE ST_DWithin(location, point.geom, $3, false)
	`
	args := []interface{}{center.Lng, center.Lat, radiusMeters}

	if len(filter.MealTypes) > 0 {
		query += fmt.Sprintf(" AND meal_type = ANY($%d)", len(args)+1)
		args = append(args, pq.Array(filter.MealTypes))
	}
	query += " ORDER BY distance, seq"

	var rows []struct {
		spotRow
		Distance float64 `db:"distance"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to find nearby spots",
			zap.Float64("lng", center.Lng),
			zap.Float64("lat", center.Lat),
			zap.Float64("radius", radiusMeters),
			zap.Error(err),
		)
		return nil, storeError(err)
	}

	spots := make([]domain.NearbySpot, len(rows))
	for i, row := range rows {
		spots[i] = domain.NearbySpot{Spot: row.toDomain(), DistanceMeters: row.Distance}
	}
	return spots, nil
}

func (r *spotRepository) GetByID(ctx context.Context, id string) (*domain.Spot, error) {
	var row spotRow
	err := r.db.GetContext(ctx, &row, `SELECT `+spotColumns+` FROM spots WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get spot by ID", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}

	spot := row.toDomain()
	return &spot, nil
}

// Upsert writes all spots in one transaction.
func (r *spotRepository) Upsert(ctx context.Context, spots []domain.Spot) (int, error) {
	if len(spots) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, storeError(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO spots (id, name, meal_type, specialty, average_price, location)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			meal_type = EXCLUDED.meal_type,
			specialty = EXCLUDED.specialty,
			average_price = EXCLUDED.average_price,
			location = EXCLUDED.location,
			updated_at = now()
	`)
	if err != nil {
		return 0, storeError(err)
	}
	defer stmt.Close()

	for _, s := range spots {
		if !utils.ValidateCoordinates(s.Location.Lng, s.Location.Lat) {
			return 0, fmt.Errorf("%w: spot %q has invalid location %s", apperrors.ErrValidation, s.Name, s.Location)
		}
		id := s.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, s.Name, s.MealType, s.Specialty, s.AveragePrice, s.Location.Lng, s.Location.Lat); err != nil {
			r.logger.Error("Failed to upsert spot", zap.String("name", s.Name), zap.Error(err))
			return 0, storeError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storeError(err)
	}
	return len(spots), nil
}

func (r *spotRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM spots`); err != nil {
		return 0, storeError(err)
	}
	return n, nil
}
