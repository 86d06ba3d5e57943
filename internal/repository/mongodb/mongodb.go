// Package mongodb implements the spot and user stores on MongoDB, using
// 2dsphere indexes for proximity queries.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/config"
	"github.com/foodspot-finder/internal/domain"
	apperrors "github.com/foodspot-finder/internal/pkg/errors"
)

const (
	spotsCollection    = "spots"
	usersCollection    = "users"
	countersCollection = "counters"
)

// DB wraps the Mongo client and the database holding the spot and user
// collections.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *zap.Logger
}

// New connects, pings and ensures the indexes the stores rely on.
func New(cfg *config.MongoConfig, logger *zap.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := &DB{
		client:   client,
		database: client.Database(cfg.Database),
		logger:   logger,
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("MongoDB connected", zap.String("database", cfg.Database))
	return db, nil
}

// EnsureIndexes creates the 2dsphere and uniqueness indexes the stores rely on.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	_, err := db.database.Collection(spotsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "mealType", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create spot indexes: %w", err)
	}

	_, err = db.database.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (db *DB) Close(ctx context.Context) error {
	db.logger.Info("Closing MongoDB connection")
	return db.client.Disconnect(ctx)
}

// Health pings the server.
func (db *DB) Health(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

// Drop removes every collection the stores own. Used by tests.
func (db *DB) Drop(ctx context.Context) error {
	for _, name := range []string{spotsCollection, usersCollection, countersCollection} {
		if err := db.database.Collection(name).Drop(ctx); err != nil {
			return err
		}
	}
	return nil
}

type counterDocument struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

// reserveSeq atomically reserves n consecutive sequence numbers for the named
// collection and returns the first one. Sequences start at 1.
func (db *DB) reserveSeq(ctx context.Context, name string, n int) (int64, error) {
	var counter counterDocument
	err := db.database.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(n)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Value - int64(n) + 1, nil
}

// geoJSONPoint is the stored location shape; 2dsphere indexes need GeoJSON.
type geoJSONPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

func storeError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}

func toGeoJSON(p domain.GeoPoint) geoJSONPoint {
	return geoJSONPoint{Type: "Point", Coordinates: []float64{p.Lng, p.Lat}}
}

func (g geoJSONPoint) toDomain() domain.GeoPoint {
	if len(g.Coordinates) != 2 {
		return domain.GeoPoint{}
	}
	return domain.NewGeoPoint(g.Coordinates[0], g.Coordinates[1])
}
