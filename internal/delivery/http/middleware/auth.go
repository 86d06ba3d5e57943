package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
)

const userIDKey = "userID"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(raw string) (string, error)
}

// JWT - rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the user id for the downstream handler.
func JWT(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, raw, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			return utils.SendError(c, errors.ErrUnauthorized.WithDetails(map[string]interface{}{
				"authorization": "bearer token required",
			}))
		}

		userID, err := verifier.VerifyToken(strings.TrimSpace(raw))
		if err != nil {
			return utils.SendError(c, err)
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the id stored by JWT, or "" on unauthenticated routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
