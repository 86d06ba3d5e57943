package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/domain/repository"
	"github.com/foodspot-finder/internal/geoindex"
)

// userRepository keeps users in an email map for lookup and in the geoindex
// for proximity. mu serializes writers so both views change together.
type userRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.UserWithPassword
	byID    map[string]*domain.UserWithPassword
	index   *geoindex.Index[string]
	now     func() time.Time
}

// NewUserRepository - process-local store backed by geoindex
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byEmail: make(map[string]*domain.UserWithPassword),
		byID:    make(map[string]*domain.UserWithPassword),
		index:   geoindex.New[string](),
		now:     time.Now,
	}
}

func (r *userRepository) Create(ctx context.Context, email, passwordHash string, location domain.GeoPoint) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	now := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, domain.ErrEmailTaken
	}

	u := &domain.UserWithPassword{
		User: domain.User{
			ID:        uuid.NewString(),
			Email:     email,
			Location:  location,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: passwordHash,
	}
	if err := r.index.Upsert(u.ID, location, u.ID); err != nil {
		return nil, err
	}
	r.byEmail[email] = u
	r.byID[u.ID] = u

	out := u.User
	return &out, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.UserWithPassword, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := u.User
	return &out, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	if update.Location != nil {
		if err := r.index.Upsert(id, *update.Location, id); err != nil {
			return nil, err
		}
		u.Location = *update.Location
	}
	u.Username = update.Username
	u.UpdatedAt = r.now().UTC()

	out := u.User
	return &out, nil
}

func (r *userRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.NearbyUser, error) {
	hits, err := r.index.Query(ctx, center, radiusMeters)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.NearbyUser, 0, len(hits))
	for _, h := range hits {
		u, ok := r.byID[h.Value]
		if !ok {
			continue
		}
		users = append(users, domain.NearbyUser{User: u.User, DistanceMeters: h.DistanceMeters})
	}
	return users, nil
}
