// Package usecase defines business logic interfaces for access token issuance
// and authorization checks.
package usecase

import (
	"context"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
)

// PermissionResolver resolves the permission set a user holds. The user
// module provides the default implementation backed by its repository.
type PermissionResolver interface {
	// ResolvePermissions returns the permission bit set for the user.
	// Unknown or inactive users resolve to the empty set.
	ResolvePermissions(ctx context.Context, userID string) (authDomain.Permission, error)
}

// CredentialValidator checks a user's long-lived secret before a token is
// minted. The user module provides the default implementation.
type CredentialValidator interface {
	// ValidateCredentials verifies the secret for the user. Returns
	// ErrUnauthorized-classed errors on unknown users, inactive users, and
	// wrong secrets without distinguishing them.
	ValidateCredentials(ctx context.Context, userID, secret string) error
}

// TokenAuthority issues and validates the access tokens that accompany every
// protocol request.
//
// A token binds one user to one resource for a bounded time window. Tokens
// are self-contained: validation needs no store lookup, only the signing key.
type TokenAuthority interface {
	// GenerateAccessToken mints a signed token for the user scoped to the
	// resource, carrying the user's permissions at mint time. Repeated calls
	// with identical inputs produce distinct tokens.
	GenerateAccessToken(ctx context.Context, userID, resourceID string) (token string, expiresAt int64, err error)

	// ValidatePrincipal recovers the principal from a token. Any failure
	// (malformed token, bad signature, expiry) returns ErrTokenInvalid or
	// ErrTokenExpired; callers treat all of them as an absent principal.
	ValidatePrincipal(ctx context.Context, token string) (*authDomain.Principal, error)
}

// AuthorizationEngine answers permission checks against a validated
// principal.
type AuthorizationEngine interface {
	// IsAuthorized reports whether the principal holds every bit of the
	// required permission set. A nil principal is never authorized.
	IsAuthorized(principal *authDomain.Principal, required authDomain.Permission) bool
}
