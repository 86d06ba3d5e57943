package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/bootstrap"
	"github.com/foodspot-finder/internal/config"
	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/infrastructure/overpass"
	"github.com/foodspot-finder/internal/pkg/logger"
	"github.com/foodspot-finder/internal/repository/postgresosm"
	"github.com/foodspot-finder/internal/seed"
	"github.com/foodspot-finder/internal/usecase"
)

var (
	envFile string
	timeout time.Duration

	filePath string

	osmLng    float64
	osmLat    float64
	osmRadius float64
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load food spots into the configured store",
	Long: `Imports food spots into the store selected by STORE_DRIVER and clears
cached nearby-spot results so the API serves the new data immediately.`,
	SilenceUsage: true,
}

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Import spots from a JSON file",
	Long:  `Reads a JSON array of spots (name, mealType, optional specialty and averagePrice, GeoJSON location).`,
	RunE:  runFile,
}

var osmCmd = &cobra.Command{
	Use:   "osm",
	Short: "Import restaurants, cafes and fast food places from OpenStreetMap",
	Long:  `Queries the Overpass API around a point and imports every named amenity it returns.`,
	RunE:  runOSM,
}

var osmDBCmd = &cobra.Command{
	Use:   "osmdb",
	Short: "Import food places from an osm2pgsql database",
	Long:  `Reads planet_osm_point and planet_osm_polygon from the database described by OSM_DB_* around a point.`,
	RunE:  runOSMDB,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall import timeout")

	fileCmd.Flags().StringVarP(&filePath, "path", "p", "", "Path to the spots JSON file")
	_ = fileCmd.MarkFlagRequired("path")

	osmCmd.Flags().Float64Var(&osmLng, "lng", 0, "Center longitude")
	osmCmd.Flags().Float64Var(&osmLat, "lat", 0, "Center latitude")
	osmCmd.Flags().Float64VarP(&osmRadius, "radius", "r", 5000, "Search radius in meters")
	_ = osmCmd.MarkFlagRequired("lng")
	_ = osmCmd.MarkFlagRequired("lat")

	osmDBCmd.Flags().Float64Var(&osmLng, "lng", 0, "Center longitude")
	osmDBCmd.Flags().Float64Var(&osmLat, "lat", 0, "Center latitude")
	osmDBCmd.Flags().Float64VarP(&osmRadius, "radius", "r", 5000, "Search radius in meters")
	_ = osmDBCmd.MarkFlagRequired("lng")
	_ = osmDBCmd.MarkFlagRequired("lat")

	rootCmd.AddCommand(fileCmd, osmCmd, osmDBCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runFile(cmd *cobra.Command, args []string) error {
	spots, err := seed.ReadSpotsFile(filePath)
	if err != nil {
		return err
	}
	return importSpots(cmd.Context(), func(*config.Config, *zap.Logger) ([]domain.Spot, error) {
		return spots, nil
	})
}

func runOSM(cmd *cobra.Command, args []string) error {
	return importSpots(cmd.Context(), func(cfg *config.Config, log *zap.Logger) ([]domain.Spot, error) {
		source := overpass.NewClient(&cfg.Overpass, log)
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return source.FetchSpots(ctx, domain.NewGeoPoint(osmLng, osmLat), osmRadius)
	})
}

func runOSMDB(cmd *cobra.Command, args []string) error {
	return importSpots(cmd.Context(), func(cfg *config.Config, log *zap.Logger) ([]domain.Spot, error) {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		db, err := postgresosm.New(ctx, &cfg.OSMDB, log)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		return postgresosm.NewSpotSource(db).FetchSpots(ctx, domain.NewGeoPoint(osmLng, osmLat), osmRadius)
	})
}

type spotLoader func(cfg *config.Config, log *zap.Logger) ([]domain.Spot, error)

func importSpots(parent context.Context, load spotLoader) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store.Driver == config.StoreMemory {
		return fmt.Errorf("STORE_DRIVER=%s keeps data inside the API process; seed a postgres or mongo store instead", config.StoreMemory)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	spots, err := load(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	stores, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background())

	spotUC := usecase.NewSpotUseCase(stores.Spots, stores.Cache, log, cfg.Spots.NearbyRadiusMeters, cfg.Cache.NearbyTTL)
	n, err := spotUC.Import(ctx, spots)
	if err != nil {
		return fmt.Errorf("import spots: %w", err)
	}

	log.Info("Seed complete", zap.Int("spots", n), zap.String("store", cfg.Store.Driver))
	fmt.Printf("Imported %d spots into %s\n", n, cfg.Store.Driver)
	return nil
}
