package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/bootstrap"
	"github.com/foodspot-finder/internal/config"
	"github.com/foodspot-finder/internal/domain"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}}

	stores, err := bootstrap.Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer stores.Close(context.Background())

	assert.Nil(t, stores.Cache)
	assert.Empty(t, stores.Checks)

	n, err := stores.Spots.Upsert(context.Background(), []domain.Spot{
		{Name: "Buka", MealType: "lunch", Location: domain.NewGeoPoint(3.38, 6.52)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = stores.Users.Create(context.Background(), "a@x.com", "hash", domain.Origin)
	require.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}

	_, err := bootstrap.Open(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}
