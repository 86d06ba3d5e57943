package mongodb_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/config"
	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	apperrors "github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/repository/mongodb"
)

var lagos = domain.NewGeoPoint(3.3792, 6.5244)

// MongoSuite runs the stores against the database named by TEST_MONGO_URI.
type MongoSuite struct {
	suite.Suite
	db    *mongodb.DB
	spots repository.SpotRepository
	users repository.UserRepository
	ctx   context.Context
}

func (s *MongoSuite) SetupSuite() {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	db, err := mongodb.New(&config.MongoConfig{URI: uri, Database: "foodspot_test"}, zap.NewNop())
	if err != nil {
		s.T().Skipf("MongoDB not reachable at %s: %v", uri, err)
	}
	s.db = db
	s.spots = mongodb.NewSpotRepository(db)
	s.users = mongodb.NewUserRepository(db)
}

func (s *MongoSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Drop(context.Background())
		_ = s.db.Close(context.Background())
	}
}

func (s *MongoSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.db.Drop(s.ctx))
	s.Require().NoError(s.db.EnsureIndexes(s.ctx))
}

func (s *MongoSuite) TestSpots_FindNear() {
	_, err := s.spots.Upsert(s.ctx, []domain.Spot{
		{ID: "near", Name: "Mama Cass", MealType: "lunch", Location: domain.NewGeoPoint(3.3900, 6.5244)},
		{ID: "cafe", Name: "Cafe Neo", MealType: "breakfast", Location: domain.NewGeoPoint(3.3802, 6.5244)},
		{ID: "far", Name: "Far Away", MealType: "lunch", Location: domain.NewGeoPoint(3.4515, 6.5244)},
	})
	s.Require().NoError(err)

	spots, err := s.spots.FindNear(s.ctx, lagos, 5000, domain.SpotFilter{})
	s.NoError(err)
	s.Require().Len(spots, 2)
	s.Equal("cafe", spots[0].ID)
	s.Equal("near", spots[1].ID)
	s.InDelta(1193, spots[1].DistanceMeters, 15)

	lunch, err := s.spots.FindNear(s.ctx, lagos, 5000, domain.SpotFilter{MealTypes: []string{"lunch"}})
	s.NoError(err)
	s.Require().Len(lunch, 1)
	s.Equal("near", lunch[0].ID)

	_, err = s.spots.FindNear(s.ctx, lagos, 0, domain.SpotFilter{})
	s.ErrorIs(err, apperrors.ErrInvalidQuery)

	count, err := s.spots.Count(s.ctx)
	s.NoError(err)
	s.EqualValues(3, count)
}

func (s *MongoSuite) TestSpots_TiesFollowInsertionOrder() {
	shared := domain.NewGeoPoint(3.3850, 6.5244)
	_, err := s.spots.Upsert(s.ctx, []domain.Spot{
		{ID: "zulu", Name: "First In", MealType: "lunch", Location: shared},
		{ID: "alpha", Name: "Second In", MealType: "lunch", Location: shared},
	})
	s.Require().NoError(err)
	_, err = s.spots.Upsert(s.ctx, []domain.Spot{
		{ID: "mike", Name: "Third In", MealType: "lunch", Location: shared},
	})
	s.Require().NoError(err)

	// Re-upserting keeps the original position.
	_, err = s.spots.Upsert(s.ctx, []domain.Spot{
		{ID: "zulu", Name: "First In, renamed", MealType: "lunch", Location: shared},
	})
	s.Require().NoError(err)

	spots, err := s.spots.FindNear(s.ctx, lagos, 5000, domain.SpotFilter{})
	s.NoError(err)
	s.Require().Len(spots, 3)
	s.Equal("zulu", spots[0].ID)
	s.Equal("alpha", spots[1].ID)
	s.Equal("mike", spots[2].ID)
	s.Equal("First In, renamed", spots[0].Name)
}

func (s *MongoSuite) TestUsers_TiesFollowInsertionOrder() {
	first, err := s.users.Create(s.ctx, "z@x.com", "hash", lagos)
	s.Require().NoError(err)
	second, err := s.users.Create(s.ctx, "a@x.com", "hash", lagos)
	s.Require().NoError(err)

	near, err := s.users.FindNear(s.ctx, lagos, 100)
	s.NoError(err)
	s.Require().Len(near, 2)
	s.Equal(first.ID, near[0].ID)
	s.Equal(second.ID, near[1].ID)
}

func (s *MongoSuite) TestSpots_UpsertKeepsCreatedAt() {
	_, err := s.spots.Upsert(s.ctx, []domain.Spot{{ID: "a", Name: "A", Location: lagos}})
	s.Require().NoError(err)
	first, err := s.spots.GetByID(s.ctx, "a")
	s.Require().NoError(err)

	time.Sleep(5 * time.Millisecond)
	_, err = s.spots.Upsert(s.ctx, []domain.Spot{{ID: "a", Name: "A2", Location: lagos}})
	s.Require().NoError(err)

	second, err := s.spots.GetByID(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal("A2", second.Name)
	s.True(first.CreatedAt.Equal(second.CreatedAt))

	_, err = s.spots.GetByID(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *MongoSuite) TestUsers_Lifecycle() {
	u, err := s.users.Create(s.ctx, "A@X.com", "hash", domain.Origin)
	s.Require().NoError(err)
	s.Equal("a@x.com", u.Email)

	_, err = s.users.Create(s.ctx, "a@x.com", "hash", domain.Origin)
	s.ErrorIs(err, domain.ErrEmailTaken)

	withHash, err := s.users.GetByEmail(s.ctx, "a@X.com")
	s.Require().NoError(err)
	s.Equal("hash", withHash.PasswordHash)

	loc := domain.NewGeoPoint(3.38, 6.52)
	updated, err := s.users.UpdateProfile(s.ctx, u.ID, domain.ProfileUpdate{Username: "ada", Location: &loc})
	s.Require().NoError(err)
	s.Equal("ada", updated.Username)
	s.Equal(loc, updated.Location)

	near, err := s.users.FindNear(s.ctx, domain.NewGeoPoint(3.3801, 6.5201), 100)
	s.NoError(err)
	s.Require().Len(near, 1)
	s.Equal(u.ID, near[0].ID)

	far, err := s.users.FindNear(s.ctx, domain.Origin, 1000)
	s.NoError(err)
	s.Empty(far)

	_, err = s.users.UpdateProfile(s.ctx, "nope", domain.ProfileUpdate{Username: "x"})
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.users.GetByID(s.ctx, "nope")
	s.ErrorIs(err, domain.ErrNotFound)
}

func TestMongoSuite(t *testing.T) {
	suite.Run(t, new(MongoSuite))
}
