package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/geoindex"
	apperrors "github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
)

type spotDocument struct {
	ID           string       `bson:"_id"`
	Name         string       `bson:"name"`
	MealType     string       `bson:"mealType"`
	Specialty    *string      `bson:"specialty,omitempty"`
	AveragePrice *float64     `bson:"averagePrice,omitempty"`
	Location     geoJSONPoint `bson:"location"`
	Seq          int64        `bson:"seq"`
	CreatedAt    time.Time    `bson:"createdAt"`
	UpdatedAt    time.Time    `bson:"updatedAt"`
}

func (d spotDocument) toDomain() domain.Spot {
	return domain.Spot{
		ID:           d.ID,
		Name:         d.Name,
		MealType:     d.MealType,
		Specialty:    d.Specialty,
		AveragePrice: d.AveragePrice,
		Location:     d.Location.toDomain(),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type spotRepository struct {
	db         *DB
	collection *mongo.Collection
	logger     *zap.Logger
	now        func() time.Time
}

// NewSpotRepository creates a spot repository on the spots collection
func NewSpotRepository(db *DB) repository.SpotRepository {
	return &spotRepository{
		db:         db,
		collection: db.database.Collection(spotsCollection),
		logger:     db.logger,
		now:        time.Now,
	}
}

// FindNear runs $geoNear and reports distances on the same sphere as the other stores.
func (r *spotRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64, filter domain.SpotFilter) ([]domain.NearbySpot, error) {
	if !utils.ValidateCoordinates(center.Lng, center.Lat) || !utils.ValidateRadius(radiusMeters) {
		return nil, apperrors.ErrInvalidQuery
	}

	geoNear := bson.M{
		"near":          toGeoJSON(center),
		"key":           "location",
		"distanceField": "distance",
		"maxDistance":   radiusMeters,
		"spherical":     true,
	}
	if len(filter.MealTypes) > 0 {
		geoNear["query"] = bson.M{"mealType": bson.M{"$in": filter.MealTypes}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: geoNear}},
		{{Key: "$sort", Value: bson.D{{Key: "distance", Value: 1}, {Key: "seq", Value: 1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to find nearby spots", zap.Error(err))
		return nil, storeError(err)
	}
	defer cursor.Close(ctx)

	var docs []spotDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError(err)
	}

	spots := make([]domain.NearbySpot, len(docs))
	for i, d := range docs {
		s := d.toDomain()
		spots[i] = domain.NearbySpot{Spot: s, DistanceMeters: geoindex.Distance(center, s.Location)}
	}
	return spots, nil
}

func (r *spotRepository) GetByID(ctx context.Context, id string) (*domain.Spot, error) {
	var doc spotDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get spot by ID", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}

	spot := doc.toDomain()
	return &spot, nil
}

func (r *spotRepository) Upsert(ctx context.Context, spots []domain.Spot) (int, error) {
	if len(spots) == 0 {
		return 0, nil
	}

	for _, s := range spots {
		if !utils.ValidateCoordinates(s.Location.Lng, s.Location.Lat) {
			return 0, fmt.Errorf("%w: spot %q has invalid location %s", apperrors.ErrValidation, s.Name, s.Location)
		}
	}

	// Existing documents keep their seq, so a reserved number may go unused.
	firstSeq, err := r.db.reserveSeq(ctx, spotsCollection, len(spots))
	if err != nil {
		r.logger.Error("Failed to reserve spot sequence", zap.Error(err))
		return 0, storeError(err)
	}

	now := r.now().UTC()
	models := make([]mongo.WriteModel, 0, len(spots))
	for i, s := range spots {
		id := s.ID
		if id == "" {
			id = uuid.NewString()
		}

		set := bson.M{
			"name":      s.Name,
			"mealType":  s.MealType,
			"location":  toGeoJSON(s.Location),
			"updatedAt": now,
		}
		unset := bson.M{}
		if s.Specialty != nil {
			set["specialty"] = *s.Specialty
		} else {
			unset["specialty"] = ""
		}
		if s.AveragePrice != nil {
			set["averagePrice"] = *s.AveragePrice
		} else {
			unset["averagePrice"] = ""
		}

		update := bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"createdAt": now, "seq": firstSeq + int64(i)},
		}
		if len(unset) > 0 {
			update["$unset"] = unset
		}

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(update).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		r.logger.Error("Failed to upsert spots", zap.Int("count", len(spots)), zap.Error(err))
		return 0, storeError(err)
	}
	return len(spots), nil
}

func (r *spotRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, storeError(err)
	}
	return n, nil
}
