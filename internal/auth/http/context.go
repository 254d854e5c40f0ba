// Package http provides HTTP middleware and handlers for access token
// authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
)

// principalKey is a context key type for storing validated principals.
type principalKey struct{}

// WithPrincipal stores a validated principal in the context. This is called
// by the access token middleware after successful validation.
func WithPrincipal(ctx context.Context, principal *authDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the validated principal from the context.
// Returns (principal, true) if one is present, or (nil, false) otherwise.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return principal, ok
}
