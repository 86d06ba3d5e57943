package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foodspot-finder/internal/pkg/errors"
)

// SuccessResponse - {data, meta} envelope
type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// Meta - result metadata
type Meta struct {
	Total    int     `json:"total"`
	RadiusM  float64 `json:"radius_m,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

// ErrorResponse - {error} envelope
type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// SendSuccess sends a 200 response with the data envelope
func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

// SendError writes err as a JSON error body. Errors outside the AppError
// family are reported as 500 without leaking their text.
func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
