package mongodb

import (
	"context"
	"errors"
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

type userDocument struct {
	ID           string       `bson:"_id"`
	Email        string       `bson:"email"`
	PasswordHash string       `bson:"passwordHash"`
	Username     string       `bson:"username"`
	Location     geoJSONPoint `bson:"location"`
	Seq          int64        `bson:"seq"`
	CreatedAt    time.Time    `bson:"createdAt"`
	UpdatedAt    time.Time    `bson:"updatedAt"`
}

func (d userDocument) toDomain() domain.User {
	return domain.User{
		ID:        d.ID,
		Email:     d.Email,
		Username:  d.Username,
		Location:  d.Location.toDomain(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type userRepository struct {
	db         *DB
	collection *mongo.Collection
	logger     *zap.Logger
	now        func() time.Time
}

// NewUserRepository creates a user repository on the users collection
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{
		db:         db,
		collection: db.database.Collection(usersCollection),
		logger:     db.logger,
		now:        time.Now,
	}
}

func (r *userRepository) Create(ctx context.Context, email, passwordHash string, location domain.GeoPoint) (*domain.User, error) {
	if !utils.ValidateCoordinates(location.Lng, location.Lat) {
		return nil, apperrors.ErrValidation
	}

	seq, err := r.db.reserveSeq(ctx, usersCollection, 1)
	if err != nil {
		r.logger.Error("Failed to reserve user sequence", zap.Error(err))
		return nil, storeError(err)
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:           uuid.NewString(),
		Email:        domain.NormalizeEmail(email),
		PasswordHash: passwordHash,
		Location:     toGeoJSON(location),
		Seq:          seq,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		r.logger.Error("Failed to create user", zap.Error(err))
		return nil, storeError(err)
	}

	u := doc.toDomain()
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.UserWithPassword, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, storeError(err)
	}

	return &domain.UserWithPassword{User: doc.toDomain(), PasswordHash: doc.PasswordHash}, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get user by ID", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}

	u := doc.toDomain()
	return &u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	set := bson.M{
		"username":  update.Username,
		"updatedAt": r.now().UTC(),
	}
	if update.Location != nil {
		if !utils.ValidateCoordinates(update.Location.Lng, update.Location.Lat) {
			return nil, apperrors.ErrValidation
		}
		set["location"] = toGeoJSON(*update.Location)
	}

	var doc userDocument
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update user profile", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}

	u := doc.toDomain()
	return &u, nil
}

func (r *userRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.NearbyUser, error) {
	if !utils.ValidateCoordinates(center.Lng, center.Lat) || !utils.ValidateRadius(radiusMeters) {
		return nil, apperrors.ErrInvalidQuery
	}

	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near":          toGeoJSON(center),
			"key":           "location",
			"distanceField": "distance",
			"maxDistance":   radiusMeters,
			"spherical":     true,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "distance", Value: 1}, {Key: "seq", Value: 1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to find nearby users", zap.Error(err))
		return nil, storeError(err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError(err)
	}

	users := make([]domain.NearbyUser, len(docs))
	for i, d := range docs {
		u := d.toDomain()
		users[i] = domain.NearbyUser{User: u, DistanceMeters: geoindex.Distance(center, u.Location)}
	}
	return users, nil
}
