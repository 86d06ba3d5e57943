package usecase

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
	"github.com/foodspot-finder/internal/usecase/dto"
)

// NearbySpotsPrefix namespaces cached nearby-spot results.
const NearbySpotsPrefix = "spots:nearby:"

// NearbySpotsKey builds the cache key of one nearby-spots query. Coordinates
// and radius are kept at full precision: a cached result is only valid for
// the exact center it was computed from.
func NearbySpotsKey(center domain.GeoPoint, radiusMeters float64, filter domain.SpotFilter) string {
	return NearbySpotsPrefix + strings.Join([]string{
		strconv.FormatFloat(center.Lng, 'g', -1, 64),
		strconv.FormatFloat(center.Lat, 'g', -1, 64),
		strconv.FormatFloat(radiusMeters, 'g', -1, 64),
		strings.Join(filter.MealTypes, ","),
	}, ":")
}

// SpotUseCase - nearby-spot search with an optional result cache
type SpotUseCase struct {
	spotRepo     repository.SpotRepository
	cacheRepo    repository.CacheRepository
	logger       *zap.Logger
	radiusMeters float64
	cacheTTL     time.Duration
}

// NewSpotUseCase - cacheRepo may be nil to disable caching
func NewSpotUseCase(
	spotRepo repository.SpotRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	radiusMeters float64,
	cacheTTL time.Duration,
) *SpotUseCase {
	return &SpotUseCase{
		spotRepo:     spotRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
		radiusMeters: radiusMeters,
		cacheTTL:     cacheTTL,
	}
}

// RadiusMeters - fixed search radius for nearby spots
func (uc *SpotUseCase) RadiusMeters() float64 {
	return uc.radiusMeters
}

// FindNearby returns every spot within the configured radius of the request
// point, nearest first. Cache failures are logged and never surface.
func (uc *SpotUseCase) FindNearby(ctx context.Context, req dto.NearbySpotsRequest) (*dto.NearbySpotsResponse, error) {
	if !utils.ValidateCoordinates(req.Lng, req.Lat) {
		return nil, errors.ErrInvalidQuery.WithDetails(map[string]interface{}{
			"coordinates": "lng must be within [-180,180] and lat within [-90,90]",
		})
	}

	center := domain.NewGeoPoint(req.Lng, req.Lat)
	filter := domain.SpotFilter{MealTypes: normalizeMealTypes(req.MealTypes)}
	key := NearbySpotsKey(center, uc.radiusMeters, filter)

	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetNearbySpots(ctx, key)
		if err != nil {
			uc.logger.Warn("Nearby spots cache read failed", zap.String("key", key), zap.Error(err))
		} else if cached != nil {
			return &dto.NearbySpotsResponse{
				Spots:    cached,
				Total:    len(cached),
				RadiusM:  uc.radiusMeters,
				CacheHit: true,
			}, nil
		}
	}

	spots, err := uc.spotRepo.FindNear(ctx, center, uc.radiusMeters, filter)
	if err != nil {
		uc.logger.Error("Failed to find nearby spots",
			zap.Stringer("center", center),
			zap.Float64("radius", uc.radiusMeters),
			zap.Error(err))
		return nil, err
	}
	if spots == nil {
		spots = []domain.NearbySpot{}
	}

	uc.logger.Info("Found nearby spots",
		zap.Int("count", len(spots)),
		zap.Stringer("center", center))

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetNearbySpots(ctx, key, spots, uc.cacheTTL); err != nil {
			uc.logger.Warn("Nearby spots cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return &dto.NearbySpotsResponse{
		Spots:   spots,
		Total:   len(spots),
		RadiusM: uc.radiusMeters,
	}, nil
}

// Import stores spots and drops every cached nearby result.
func (uc *SpotUseCase) Import(ctx context.Context, spots []domain.Spot) (int, error) {
	n, err := uc.spotRepo.Upsert(ctx, spots)
	if err != nil {
		return 0, err
	}

	if uc.cacheRepo != nil {
		removed, err := uc.cacheRepo.InvalidatePrefix(ctx, NearbySpotsPrefix)
		if err != nil {
			uc.logger.Warn("Failed to invalidate nearby spots cache", zap.Error(err))
		} else {
			uc.logger.Info("Invalidated nearby spots cache", zap.Int64("keys", removed))
		}
	}

	uc.logger.Info("Imported spots", zap.Int("count", n))
	return n, nil
}

func normalizeMealTypes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	slices.Sort(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
