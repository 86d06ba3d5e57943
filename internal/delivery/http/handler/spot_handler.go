package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/pkg/utils"
	"github.com/foodspot-finder/internal/usecase"
	"github.com/foodspot-finder/internal/usecase/dto"
)

// SpotHandler - nearby food spot search
type SpotHandler struct {
	spotUC *usecase.SpotUseCase
	logger *zap.Logger
}

// NewSpotHandler creates a new spot handler
func NewSpotHandler(spotUC *usecase.SpotUseCase, logger *zap.Logger) *SpotHandler {
	return &SpotHandler{
		spotUC: spotUC,
		logger: logger,
	}
}

// Nearby godoc
// @Summary Food spots near a point
// @Description Returns every spot within the configured radius (5000 m by default), nearest first. Each spot carries its great-circle distance in meters.
// @Tags Spots
// @Produce json
// @Param lng query number true "Longitude"
// @Param lat query number true "Latitude"
// @Param mealType query string false "Comma-separated meal types, e.g. lunch,dinner"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.NearbySpot}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/spot/nearby [get]
func (h *SpotHandler) Nearby(c *fiber.Ctx) error {
	lng, lat, err := coordinates(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.spotUC.FindNearby(c.UserContext(), dto.NearbySpotsRequest{
		Lng:       lng,
		Lat:       lat,
		MealTypes: csvQuery(c, "mealType"),
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	if result.CacheHit {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}

	return utils.SendSuccess(c, result.Spots, &utils.Meta{
		Total:   result.Total,
		RadiusM: result.RadiusM,
	})
}
