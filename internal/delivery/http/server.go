package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/config"
	"github.com/foodspot-finder/internal/delivery/http/handler"
	"github.com/foodspot-finder/internal/delivery/http/middleware"
	"github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
)

// Server - HTTP server built on Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	spotHandler   *handler.SpotHandler
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler
	auth          fiber.Handler
}

// NewServer creates the fiber app and registers every route
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	spotHandler *handler.SpotHandler,
	userHandler *handler.UserHandler,
	healthHandler *handler.HealthHandler,
	verifier middleware.TokenVerifier,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Food Spot Finder",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		spotHandler:   spotHandler,
		userHandler:   userHandler,
		healthHandler: healthHandler,
		auth:          middleware.JWT(verifier),
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.CORSOriginList()))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api")

	api.Get("/health", s.healthHandler.Health)

	spot := api.Group("/spot")
	spot.Get("/nearby", s.spotHandler.Nearby)

	user := api.Group("/user")
	user.Post("/auth", s.userHandler.Authenticate)
	user.Put("/update", s.auth, s.userHandler.UpdateProfile)
	user.Get("/currentUser", s.auth, s.userHandler.CurrentUser)
	user.Get("/nearby", s.auth, s.userHandler.Nearby)
}

// App exposes the underlying fiber app, mainly for app.Test in handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on the configured address; blocks until shutdown
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler renders framework errors (unknown route, bad method,
// body too large) in the same envelope as application errors.
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if _, ok := errors.AsAppError(err); ok {
			return utils.SendError(c, err)
		}

		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
			return utils.SendError(c, errors.ErrInternalServer)
		}

		appErr := errors.New(codeForStatus(code), fe.Message, code)
		return utils.SendError(c, appErr)
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return errors.CodeNotFound
	case fiber.StatusUnauthorized:
		return errors.CodeUnauthorized
	case fiber.StatusTooManyRequests:
		return errors.CodeRateLimited
	default:
		return errors.CodeValidation
	}
}
