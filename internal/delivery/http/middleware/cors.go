package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - Cross-Origin Resource Sharing for the configured origins; an empty
// list allows any origin without credentials.
func CORS(origins []string) fiber.Handler {
	allow := strings.Join(origins, ",")
	if allow == "" || allow == "*" {
		return cors.New(cors.Config{
			AllowOrigins: "*",
			AllowMethods: "GET,POST,PUT,OPTIONS",
			AllowHeaders: "Content-Type,Accept,Authorization",
		})
	}
	return cors.New(cors.Config{
		AllowOrigins:     allow,
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Content-Type,Accept,Authorization",
		AllowCredentials: true,
	})
}
