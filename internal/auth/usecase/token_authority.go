package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	authService "github.com/allisson/wopihost/internal/auth/service"
	"github.com/allisson/wopihost/internal/config"
	apperrors "github.com/allisson/wopihost/internal/errors"
)

// tokenSeparator splits the claims payload from its signature.
const tokenSeparator = "."

// nonceSize is the length of the random nonce embedded in each token so that
// repeated mints for the same user and resource never collide.
const nonceSize = 16

// tokenAuthority implements TokenAuthority and AuthorizationEngine over an
// HMAC token signer. Token format: base64url(JSON claims) "." base64url(sig).
type tokenAuthority struct {
	config    *config.Config
	signer    authService.TokenSigner
	resolver  PermissionResolver
	now       func() time.Time
	readNonce func(b []byte) (int, error)
}

// NewTokenAuthority creates a token authority backed by the signer and
// permission resolver.
func NewTokenAuthority(
	config *config.Config,
	signer authService.TokenSigner,
	resolver PermissionResolver,
) *tokenAuthority {
	return &tokenAuthority{
		config:    config,
		signer:    signer,
		resolver:  resolver,
		now:       time.Now,
		readNonce: rand.Read,
	}
}

func (t *tokenAuthority) GenerateAccessToken(ctx context.Context, userID, resourceID string) (string, int64, error) {
	permissions, err := t.resolver.ResolvePermissions(ctx, userID)
	if err != nil {
		return "", 0, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := t.readNonce(nonce); err != nil {
		return "", 0, apperrors.Wrap(err, "failed to generate token nonce")
	}

	now := t.now().UTC()
	claims := &authDomain.Claims{
		Subject:     userID,
		ResourceID:  resourceID,
		Permissions: permissions,
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(t.config.AccessTokenExpiration).Unix(),
		Nonce:       base64.RawURLEncoding.EncodeToString(nonce),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", 0, apperrors.Wrap(err, "failed to marshal token claims")
	}

	signature, err := t.signer.Sign(payload)
	if err != nil {
		return "", 0, apperrors.Wrap(err, "failed to sign token claims")
	}

	token := base64.RawURLEncoding.EncodeToString(payload) +
		tokenSeparator +
		base64.RawURLEncoding.EncodeToString(signature)

	return token, claims.ExpiresAt, nil
}

func (t *tokenAuthority) ValidatePrincipal(ctx context.Context, token string) (*authDomain.Principal, error) {
	encodedPayload, encodedSignature, found := strings.Cut(token, tokenSeparator)
	if !found {
		return nil, authDomain.ErrTokenInvalid
	}

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, authDomain.ErrTokenInvalid
	}

	signature, err := base64.RawURLEncoding.DecodeString(encodedSignature)
	if err != nil {
		return nil, authDomain.ErrTokenInvalid
	}

	// Verify before parsing so unsigned input never reaches the decoder.
	if err := t.signer.Verify(payload, signature); err != nil {
		return nil, authDomain.ErrTokenInvalid
	}

	claims := &authDomain.Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, authDomain.ErrTokenInvalid
	}

	if claims.Expired(t.now().UTC()) {
		return nil, authDomain.ErrTokenExpired
	}

	return &authDomain.Principal{
		UserID:      claims.Subject,
		ResourceID:  claims.ResourceID,
		Permissions: claims.Permissions,
		ExpiresAt:   time.Unix(claims.ExpiresAt, 0).UTC(),
	}, nil
}

// IsAuthorized reports whether the principal holds every required permission.
func (t *tokenAuthority) IsAuthorized(principal *authDomain.Principal, required authDomain.Permission) bool {
	if principal == nil {
		return false
	}
	return principal.Permissions.Has(required)
}
