package domain

import (
	"time"

	"github.com/allisson/wopihost/internal/errors"
)

// Token validation errors. All of them collapse to an absent principal at the
// API boundary; the distinction exists for logs and tests.
var (
	// ErrTokenInvalid indicates a malformed token or a failed signature check.
	ErrTokenInvalid = errors.Wrap(errors.ErrUnauthorized, "access token invalid")

	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "access token expired")

	// ErrTokenResourceMismatch indicates a valid token presented against a
	// resource other than the one it was minted for.
	ErrTokenResourceMismatch = errors.Wrap(errors.ErrUnauthorized, "access token bound to another resource")
)

// Claims is the signed payload of an access token. It binds a user to a
// single resource for a bounded time window.
type Claims struct {
	Subject     string     `json:"sub"`
	ResourceID  string     `json:"res"`
	Permissions Permission `json:"perm"`
	IssuedAt    int64      `json:"iat"`
	ExpiresAt   int64      `json:"exp"`
	Nonce       string     `json:"nonce"`
}

// Expired reports whether the claims are past their expiry at the given
// instant.
func (c *Claims) Expired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}

// Principal is the authenticated identity recovered from a valid access
// token.
type Principal struct {
	UserID      string
	ResourceID  string
	Permissions Permission
	ExpiresAt   time.Time
}

// CanAccess reports whether the principal's token was minted for the given
// resource.
func (p *Principal) CanAccess(resourceID string) bool {
	return p.ResourceID == resourceID
}
