// Package domain defines the core user domain entities and types. Users are
// the host-side identities that mint access tokens; editors never see them
// directly.
package domain

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	"github.com/allisson/wopihost/internal/errors"
)

// User is a host account with a long-lived secret and a permission set.
type User struct {
	ID          uuid.UUID
	Name        string
	Secret      string // Argon2id hash of the long-lived secret
	IsActive    bool
	Permissions authDomain.Permission
	CreatedAt   time.Time
}

// CreateUserInput contains the parameters for creating a user.
type CreateUserInput struct {
	Name        string
	IsActive    bool
	Permissions authDomain.Permission
}

// CreateUserOutput contains the result of creating a user.
// SECURITY: PlainSecret is only returned once and must be saved securely.
type CreateUserOutput struct {
	ID          uuid.UUID
	PlainSecret string
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrInvalidCredentials indicates an unknown user or a wrong secret.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrUserInactive indicates the user exists but is deactivated.
	ErrUserInactive = errors.Wrap(errors.ErrForbidden, "user is not active")
)
