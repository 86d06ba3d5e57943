package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	apperrors "github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
)

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository creates a new PostGIS user repository
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Username     string    `db:"username"`
	Lng          float64   `db:"lng"`
	Lat          float64   `db:"lat"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:        r.ID,
		Email:     r.Email,
		Username:  r.Username,
		Location:  domain.NewGeoPoint(r.Lng, r.Lat),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const userColumns = `
	id, email, password_hash, username,
	ST_X(location::geometry) AS lng, ST_Y(location::geometry) AS lat,
	created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, email, passwordHash string, location domain.GeoPoint) (*domain.User, error) {
	if !utils.ValidateCoordinates(location.Lng, location.Lat) {
		return nil, apperrors.ErrValidation
	}

	var row userRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO users (id, email, password_hash, location)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography)
		RETURNING `+userColumns,
		uuid.NewString(), domain.NormalizeEmail(email), passwordHash, location.Lng, location.Lat,
	)
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailTaken
	}
	if err != nil {
		r.logger.Error("Failed to create user", zap.Error(err))
		return nil, storeError(err)
	}

	u := row.toDomain()
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.UserWithPassword, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE email = $1`, domain.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, storeError(err)
	}

	return &domain.UserWithPassword{User: row.toDomain(), PasswordHash: row.PasswordHash}, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get user by ID", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}

	u := row.toDomain()
	return &u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	var (
		row userRow
		err error
	)

	if update.Location != nil {
		loc := *update.Location
		if !utils.ValidateCoordinates(loc.Lng, loc.Lat) {
			return nil, apperrors.ErrValidation
		}
		err = r.db.GetContext(ctx, &row, `
			UPDATE users
			SET username = $2,
				location = ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography,
				updated_at = now()
			WHERE id = $1
			RETURNING `+userColumns,
			id, update.Username, loc.Lng, loc.Lat,
		)
	} else {
		err = r.db.GetContext(ctx, &row, `
			UPDATE users
			SET username = $2, updated_at = now()
			WHERE id = $1
			RETURNING `+userColumns,
			id, update.Username,
		)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update user profile", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}

	u := row.toDomain()
	return &u, nil
}

func (r *userRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.NearbyUser, error) {
	if !utils.ValidateCoordinates(center.Lng, center.Lat) || !utils.ValidateRadius(radiusMeters) {
		return nil, apperrors.ErrInvalidQuery
	}

	var rows []struct {
		userRow
		Distance float64 `db:"distance"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		WITH point AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS geom
		)
		SELECT `+userColumns+`,
			ST_Distance(location, point.geom, false) AS distance
		FROM users, point
		WHERE ST_DWithin(location, point.geom, $3, false)
		ORDER BY distance, seq
	`, center.Lng, center.Lat, radiusMeters)
	if err != nil {
		r.logger.Error("Failed to find nearby users", zap.Error(err))
		return nil, storeError(err)
	}

	users := make([]domain.NearbyUser, len(rows))
	for i, row := range rows {
		users[i] = domain.NearbyUser{User: row.toDomain(), DistanceMeters: row.Distance}
	}
	return users, nil
}
