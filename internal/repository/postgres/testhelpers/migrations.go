package testhelpers

import (
	"context"

	"github.com/foodspot-finder/internal/repository/postgres"
)

// ApplyMigrations runs the embedded schema against the test database.
func (tdb *TestDB) ApplyMigrations(ctx context.Context) error {
	return postgres.Migrate(ctx, tdb.DB, tdb.Logger)
}
