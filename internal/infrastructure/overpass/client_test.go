package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/config"
	"github.com/foodspot-finder/internal/domain"
)

const sampleResponse = `{
  "elements": [
    {"type": "node", "id": 1, "lat": 6.5250, "lon": 3.3800,
     "tags": {"amenity": "cafe", "name": "Cafe Neo", "cuisine": "coffee_shop"}},
    {"type": "way", "id": 2, "center": {"lat": 6.5244, "lon": 3.3900},
     "tags": {"amenity": "restaurant", "name": "Mama Cass"}},
    {"type": "node", "id": 3, "lat": 6.52, "lon": 3.38, "tags": {"amenity": "fast_food"}},
    {"type": "way", "id": 4, "tags": {"amenity": "restaurant", "name": "No Center"}}
  ]
}`

func TestClient_FetchSpots(t *testing.T) {
	logger := zap.NewNop()
	center := domain.NewGeoPoint(3.3792, 6.5244)

	t.Run("successful request", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("data")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(sampleResponse))
		}))
		defer server.Close()

		c := NewClient(&config.OverpassConfig{URL: server.URL, Timeout: 5 * time.Second}, logger)

		spots, err := c.FetchSpots(context.Background(), center, 2000)
		require.NoError(t, err)
		require.Len(t, spots, 2)

		assert.Equal(t, "osm:node:1", spots[0].ID)
		assert.Equal(t, "Cafe Neo", spots[0].Name)
		assert.Equal(t, "cafe", spots[0].MealType)
		require.NotNil(t, spots[0].Specialty)
		assert.Equal(t, "coffee_shop", *spots[0].Specialty)
		assert.Equal(t, domain.NewGeoPoint(3.38, 6.525), spots[0].Location)

		assert.Equal(t, "osm:way:2", spots[1].ID)
		assert.Equal(t, domain.NewGeoPoint(3.39, 6.5244), spots[1].Location)
		assert.Nil(t, spots[1].Specialty)

		assert.Contains(t, gotQuery, `node["amenity"~"restaurant|cafe|fast_food"](around:2000,6.524400,3.379200);`)
		assert.Contains(t, gotQuery, "out center;")
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		c := NewClient(&config.OverpassConfig{URL: server.URL, Timeout: 5 * time.Second}, logger)
		_, err := c.FetchSpots(context.Background(), center, 2000)
		assert.ErrorContains(t, err, "status 429")
	})

	t.Run("invalid area", func(t *testing.T) {
		c := NewClient(&config.OverpassConfig{URL: "http://unused", Timeout: time.Second}, logger)
		_, err := c.FetchSpots(context.Background(), center, 0)
		assert.Error(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}))
		defer server.Close()

		c := NewClient(&config.OverpassConfig{URL: server.URL, Timeout: 5 * time.Second}, logger)
		_, err := c.FetchSpots(context.Background(), center, 2000)
		assert.ErrorContains(t, err, "decode")
	})
}
