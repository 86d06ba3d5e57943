// Package postgresosm reads food places from an OpenStreetMap database
// imported with osm2pgsql (planet_osm_* tables with an hstore tags column).
package postgresosm

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/config"
	"github.com/foodspot-finder/internal/repository/postgres"
)

// DB - read-only connection to an osm2pgsql database
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// New connects to the OSM database and checks that the osm2pgsql tables
// the spot source reads are present.
func New(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	conn, err := postgres.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to osm database: %w", err)
	}

	db := &DB{DB: conn, logger: logger}
	if err := db.CheckSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("OSM PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
	)
	return db, nil
}

// CheckSchema fails when a planet_osm_* table is missing, which usually
// means the database was never loaded with osm2pgsql.
func (db *DB) CheckSchema(ctx context.Context) error {
	for _, table := range []string{planetPointTable, planetPolygonTable} {
		var exists bool
		if err := db.GetContext(ctx, &exists, `SELECT to_regclass($1) IS NOT NULL`, table); err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("table %s not found: import the extract with osm2pgsql --hstore first", table)
		}
	}
	return nil
}

// Close closes the pool.
func (db *DB) Close() error {
	db.logger.Info("Closing OSM PostgreSQL connection")
	return db.DB.Close()
}

// NewDBForTest wraps an open connection without the schema check.
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{DB: sqlxDB, logger: logger}
}
