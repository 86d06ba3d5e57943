package usecase

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
	"github.com/foodspot-finder/internal/pkg/validator"
	"github.com/foodspot-finder/internal/usecase/dto"
)

// UserUseCase - profile reads, updates and proximity between users
type UserUseCase struct {
	userRepo      repository.UserRepository
	logger        *zap.Logger
	defaultRadius float64
}

// NewUserUseCase - defaultRadius applies when a nearby-users request omits one
func NewUserUseCase(userRepo repository.UserRepository, logger *zap.Logger, defaultRadius float64) *UserUseCase {
	return &UserUseCase{
		userRepo:      userRepo,
		logger:        logger,
		defaultRadius: defaultRadius,
	}
}

// GetCurrent - profile of the authenticated user
func (uc *UserUseCase) GetCurrent(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if stderrors.Is(err, domain.ErrNotFound) {
		return nil, errors.ErrNotFound
	}
	return user, err
}

// UpdateProfile sets the username and, when both are given, the location.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if (req.Lng == nil) != (req.Lat == nil) {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{
			"location": "lng and lat must be provided together",
		})
	}

	update := domain.ProfileUpdate{Username: req.Username}
	if req.Lng != nil {
		loc := domain.NewGeoPoint(*req.Lng, *req.Lat)
		update.Location = &loc
	}

	user, err := uc.userRepo.UpdateProfile(ctx, userID, update)
	if stderrors.Is(err, domain.ErrNotFound) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		uc.logger.Error("Failed to update profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Profile updated", zap.String("user_id", userID), zap.Bool("moved", update.Location != nil))
	return user, nil
}

// FindNearby lists other users around a point; the caller is never included.
func (uc *UserUseCase) FindNearby(ctx context.Context, userID string, req dto.NearbyUsersRequest) (*dto.NearbyUsersResponse, error) {
	radius := req.RadiusMeters
	if radius == 0 {
		radius = uc.defaultRadius
	}
	if !utils.ValidateCoordinates(req.Lng, req.Lat) || !utils.ValidateRadius(radius) {
		return nil, errors.ErrInvalidQuery
	}

	found, err := uc.userRepo.FindNear(ctx, domain.NewGeoPoint(req.Lng, req.Lat), radius)
	if err != nil {
		uc.logger.Error("Failed to find nearby users", zap.Error(err))
		return nil, err
	}

	users := make([]domain.NearbyUser, 0, len(found))
	for _, u := range found {
		if u.ID != userID {
			users = append(users, u)
		}
	}

	return &dto.NearbyUsersResponse{
		Users:   users,
		Total:   len(users),
		RadiusM: radius,
	}, nil
}
