package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewSpotRepositoryForTest wraps a test connection in a spot repository
func NewSpotRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.SpotRepository {
	return postgres.NewSpotRepository(NewDBForTest(db, logger))
}

// NewUserRepositoryForTest wraps a test connection in a user repository
func NewUserRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.UserRepository {
	return postgres.NewUserRepository(NewDBForTest(db, logger))
}
