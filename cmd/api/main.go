package main

// @title Food Spot Finder API
// @version 1.0.0
// @description Finds restaurants, cafes and other food spots near a GPS position and manages the accounts of the people looking for them.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/foodspot-finder/docs"
	"github.com/foodspot-finder/internal/bootstrap"
	"github.com/foodspot-finder/internal/config"
	httpDelivery "github.com/foodspot-finder/internal/delivery/http"
	"github.com/foodspot-finder/internal/delivery/http/handler"
	"github.com/foodspot-finder/internal/loginguard"
	"github.com/foodspot-finder/internal/pkg/logger"
	"github.com/foodspot-finder/internal/pkg/password"
	"github.com/foodspot-finder/internal/pkg/token"
	"github.com/foodspot-finder/internal/usecase"
	"github.com/foodspot-finder/internal/worker"
	"github.com/foodspot-finder/internal/worker/sweeper"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Food Spot Finder",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("store", cfg.Store.Driver),
	)

	// 3. Stores and cache
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	stores, err := bootstrap.Open(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to open stores", zap.Error(err))
	}

	// 4. Authentication building blocks
	guard := loginguard.New(loginguard.Config{
		MaxAttempts: cfg.Login.MaxAttempts,
		BlockWindow: cfg.Login.BlockWindow,
		RecordTTL:   cfg.Login.RecordTTL,
	}, loginguard.WithLogger(log))
	hasher := password.NewHasher(password.DefaultCost)
	tokens := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)

	// 5. Use cases
	spotUC := usecase.NewSpotUseCase(
		stores.Spots,
		stores.Cache,
		log,
		cfg.Spots.NearbyRadiusMeters,
		cfg.Cache.NearbyTTL,
	)
	authUC := usecase.NewAuthUseCase(stores.Users, guard, hasher, tokens, log)
	userUC := usecase.NewUserUseCase(stores.Users, log, cfg.Spots.NearbyRadiusMeters)

	// 6. HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewSpotHandler(spotUC, log),
		handler.NewUserHandler(authUC, userUC, log),
		handler.NewHealthHandler(stores.Checks, log),
		authUC,
	)

	// 7. Background workers
	workers := worker.NewManager(log)
	workers.Register(sweeper.NewLoginSweeper(guard, cfg.Login.SweepInterval, log))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := workers.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := workers.Stop(); err != nil {
		log.Error("Worker shutdown error", zap.Error(err))
	}
	stores.Close(shutdownCtx)

	log.Info("Server stopped")
}
