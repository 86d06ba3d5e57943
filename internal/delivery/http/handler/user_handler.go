package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/delivery/http/middleware"
	"github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
	"github.com/foodspot-finder/internal/usecase"
	"github.com/foodspot-finder/internal/usecase/dto"
)

// UserHandler - authentication, profile and user proximity endpoints
type UserHandler struct {
	authUC *usecase.AuthUseCase
	userUC *usecase.UserUseCase
	logger *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(authUC *usecase.AuthUseCase, userUC *usecase.UserUseCase, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		authUC: authUC,
		userUC: userUC,
		logger: logger,
	}
}

// Authenticate godoc
// @Summary Log in or sign up
// @Description Logs in an existing account or registers a new one for an unknown email. Two failed logins within five minutes block the email until the window passes.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.AuthRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/user/auth [post]
func (h *UserHandler) Authenticate(c *fiber.Ctx) error {
	var req dto.AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrValidation.WithDetails(map[string]interface{}{
			"body": "invalid JSON body",
		}))
	}

	resp, err := h.authUC.Authenticate(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(resp)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.SuccessResponse{data=domain.User}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/user/update [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrValidation.WithDetails(map[string]interface{}{
			"body": "invalid JSON body",
		}))
	}

	user, err := h.userUC.UpdateProfile(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, user, nil)
}

// CurrentUser godoc
// @Summary The authenticated user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=domain.User}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/user/currentUser [get]
func (h *UserHandler) CurrentUser(c *fiber.Ctx) error {
	user, err := h.userUC.GetCurrent(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, user, nil)
}

// Nearby godoc
// @Summary Other users near a point
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param lng query number true "Longitude"
// @Param lat query number true "Latitude"
// @Param radius query number false "Radius in meters" default(5000)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.NearbyUser}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/user/nearby [get]
func (h *UserHandler) Nearby(c *fiber.Ctx) error {
	lng, lat, err := coordinates(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	radius, err := optionalFloat(c, "radius")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.userUC.FindNearby(c.UserContext(), middleware.UserID(c), dto.NearbyUsersRequest{
		Lng:          lng,
		Lat:          lat,
		RadiusMeters: radius,
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result.Users, &utils.Meta{
		Total:   result.Total,
		RadiusM: result.RadiusM,
	})
}
