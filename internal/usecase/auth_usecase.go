package usecase

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/loginguard"
	"github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/password"
	"github.com/foodspot-finder/internal/pkg/token"
	"github.com/foodspot-finder/internal/pkg/utils"
	"github.com/foodspot-finder/internal/pkg/validator"
	"github.com/foodspot-finder/internal/usecase/dto"
)

const (
	MessageLoginSuccessful  = "Login successful"
	MessageSignUpSuccessful = "Sign up successful"
)

// AuthUseCase - authenticate-or-register with failed-login throttling
type AuthUseCase struct {
	userRepo repository.UserRepository
	guard    *loginguard.Guard
	hasher   *password.Hasher
	tokens   *token.Issuer
	logger   *zap.Logger
}

// NewAuthUseCase - wires the store, guard, hasher and token issuer
func NewAuthUseCase(
	userRepo repository.UserRepository,
	guard *loginguard.Guard,
	hasher *password.Hasher,
	tokens *token.Issuer,
	logger *zap.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		guard:    guard,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Authenticate logs in an existing account or creates one for an unknown
// email. Blocked identities are rejected before any credential check.
func (uc *AuthUseCase) Authenticate(ctx context.Context, req dto.AuthRequest) (*dto.AuthResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Location != nil && !utils.ValidateCoordinates(req.Location.Lng, req.Location.Lat) {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{
			"location": "coordinates out of range",
		})
	}

	email := domain.NormalizeEmail(req.Email)
	if !uc.guard.CheckAllowed(email) {
		uc.logger.Warn("Login rejected: identity blocked", zap.String("email", email))
		return nil, errors.ErrRateLimited
	}

	var (
		user    *domain.User
		message string
	)

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		ok, err := uc.hasher.Verify(existing.PasswordHash, req.Password)
		if err != nil {
			uc.logger.Error("Stored password hash unusable", zap.String("user_id", existing.ID), zap.Error(err))
			return nil, errors.ErrInternalServer
		}
		if !ok {
			uc.guard.RecordFailure(email)
			return nil, errors.ErrInvalidCredentials
		}
		uc.guard.RecordSuccess(email)
		user = &existing.User
		message = MessageLoginSuccessful

	case stderrors.Is(err, domain.ErrNotFound):
		user, err = uc.register(ctx, email, req)
		if err != nil {
			return nil, err
		}
		message = MessageSignUpSuccessful

	default:
		uc.logger.Error("Failed to look up user", zap.Error(err))
		return nil, err
	}

	signed, err := uc.tokens.Sign(user.ID)
	if err != nil {
		uc.logger.Error("Failed to sign token", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	uc.logger.Info(message, zap.String("user_id", user.ID))

	return &dto.AuthResponse{
		Message: message,
		Token:   signed,
		User:    dto.AuthUser{ID: user.ID, Email: user.Email},
	}, nil
}

func (uc *AuthUseCase) register(ctx context.Context, email string, req dto.AuthRequest) (*domain.User, error) {
	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	location := domain.Origin
	if req.Location != nil {
		location = *req.Location
	}

	user, err := uc.userRepo.Create(ctx, email, hash, location)
	if stderrors.Is(err, domain.ErrEmailTaken) {
		return nil, errors.ErrConflict.WithDetails(map[string]interface{}{
			"email": "account was created concurrently, retry the login",
		})
	}
	if err != nil {
		uc.logger.Error("Failed to create user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// VerifyToken resolves a bearer token to its user id.
func (uc *AuthUseCase) VerifyToken(raw string) (string, error) {
	userID, err := uc.tokens.Parse(raw)
	if err != nil {
		return "", errors.ErrUnauthorized
	}
	return userID, nil
}
