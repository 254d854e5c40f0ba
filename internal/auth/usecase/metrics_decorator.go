package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	"github.com/allisson/wopihost/internal/metrics"
)

// tokenAuthorityWithMetrics decorates TokenAuthority with metrics
// instrumentation.
type tokenAuthorityWithMetrics struct {
	next    TokenAuthority
	metrics metrics.BusinessMetrics
}

// NewTokenAuthorityWithMetrics wraps a TokenAuthority with metrics recording.
func NewTokenAuthorityWithMetrics(authority TokenAuthority, m metrics.BusinessMetrics) TokenAuthority {
	return &tokenAuthorityWithMetrics{
		next:    authority,
		metrics: m,
	}
}

func (t *tokenAuthorityWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "auth", operation, status)
	t.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// GenerateAccessToken records metrics for token minting.
func (t *tokenAuthorityWithMetrics) GenerateAccessToken(ctx context.Context, userID, resourceID string) (string, int64, error) {
	start := time.Now()
	token, expiresAt, err := t.next.GenerateAccessToken(ctx, userID, resourceID)
	t.record(ctx, "token_generate", start, err)
	return token, expiresAt, err
}

// ValidatePrincipal records metrics for token validation.
func (t *tokenAuthorityWithMetrics) ValidatePrincipal(ctx context.Context, token string) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := t.next.ValidatePrincipal(ctx, token)
	t.record(ctx, "token_validate", start, err)
	return principal, err
}
