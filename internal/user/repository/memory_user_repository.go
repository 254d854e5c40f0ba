package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	"github.com/allisson/wopihost/internal/user/domain"
)

// permissionFromStored converts the persisted smallint back to a bit set.
func permissionFromStored(v int16) authDomain.Permission {
	return authDomain.Permission(uint8(v))
}

// MemoryUserRepository implements user persistence in process memory. Suited
// to single-node deployments and tests; accounts do not survive restarts.
type MemoryUserRepository struct {
	users sync.Map // uuid.UUID -> domain.User
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

// Create inserts a new user
func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.users.Store(user.ID, *user)
	return nil
}

// Update modifies an existing user
func (r *MemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users.Load(user.ID); !ok {
		return domain.ErrUserNotFound
	}
	r.users.Store(user.ID, *user)
	return nil
}

// Get retrieves a user by ID
func (r *MemoryUserRepository) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	value, ok := r.users.Load(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	user := value.(domain.User)
	return &user, nil
}
