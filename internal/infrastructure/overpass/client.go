// Package overpass fetches food places from the OpenStreetMap Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/config"
	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/pkg/utils"
)

// amenityPattern selects the OSM amenities treated as food spots.
const amenityPattern = "restaurant|cafe|fast_food"

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates an Overpass API spot source
func NewClient(cfg *config.OverpassConfig, logger *zap.Logger) repository.SpotSource {
	return &client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.URL,
		logger:     logger,
	}
}

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *latLon           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type latLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// buildQuery asks for matching nodes and ways; "out center" gives ways a
// representative point.
func buildQuery(center domain.GeoPoint, radiusMeters float64) string {
	around := fmt.Sprintf("(around:%.0f,%f,%f)", radiusMeters, center.Lat, center.Lng)
	return fmt.Sprintf(`[out:json];
(
  node["amenity"~"%s"]%s;
  way["amenity"~"%s"]%s;
);
out center;`, amenityPattern, around, amenityPattern, around)
}

func (c *client) FetchSpots(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.Spot, error) {
	if !utils.ValidateCoordinates(center.Lng, center.Lat) || !utils.ValidateRadius(radiusMeters) {
		return nil, fmt.Errorf("invalid overpass area %s r=%f", center, radiusMeters)
	}

	reqURL := c.baseURL + "?data=" + url.QueryEscape(buildQuery(center, radiusMeters))

	c.logger.Debug("Calling Overpass API",
		zap.Float64("lng", center.Lng),
		zap.Float64("lat", center.Lat),
		zap.Float64("radius", radiusMeters))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute Overpass request", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch from OpenStreetMap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Overpass API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("overpass API error: status %d", resp.StatusCode)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	spots := make([]domain.Spot, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		if spot, ok := el.toSpot(); ok {
			spots = append(spots, spot)
		}
	}

	c.logger.Info("Fetched spots from OpenStreetMap",
		zap.Int("elements", len(parsed.Elements)),
		zap.Int("spots", len(spots)))

	return spots, nil
}

// toSpot drops unnamed elements and ways without a center.
func (el element) toSpot() (domain.Spot, bool) {
	name := strings.TrimSpace(el.Tags["name"])
	if name == "" {
		return domain.Spot{}, false
	}

	lat, lon := el.Lat, el.Lon
	if el.Type == "way" {
		if el.Center == nil {
			return domain.Spot{}, false
		}
		lat, lon = el.Center.Lat, el.Center.Lon
	}
	if !utils.ValidateCoordinates(lon, lat) {
		return domain.Spot{}, false
	}

	spot := domain.Spot{
		ID:       fmt.Sprintf("osm:%s:%d", el.Type, el.ID),
		Name:     name,
		MealType: el.Tags["amenity"],
		Location: domain.NewGeoPoint(lon, lat),
	}
	if cuisine := strings.TrimSpace(el.Tags["cuisine"]); cuisine != "" {
		spot.Specialty = &cuisine
	}
	return spot, true
}
