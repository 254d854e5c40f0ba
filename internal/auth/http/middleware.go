// Package http provides HTTP middleware and handlers for access token
// authentication.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	authUseCase "github.com/allisson/wopihost/internal/auth/usecase"
	apperrors "github.com/allisson/wopihost/internal/errors"
	"github.com/allisson/wopihost/internal/httputil"
)

// accessTokenParam is the query parameter editors append to every protocol
// request.
const accessTokenParam = "access_token"

// extractToken pulls the access token from the request. The query parameter
// takes precedence; a Bearer Authorization header (case-insensitive) is
// accepted for host API calls.
func extractToken(c *gin.Context) string {
	if token := c.Query(accessTokenParam); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "bearer "
	if len(authHeader) >= len(bearerPrefix) &&
		strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return authHeader[len(bearerPrefix):]
	}

	return ""
}

// AccessTokenMiddleware validates the access token on every request and
// stores the recovered principal in the request context.
//
// Any validation failure (missing token, malformed token, bad signature,
// expiry) is answered with 401; the reason is logged, never returned, so the
// response does not distinguish a forged token from an expired one.
func AccessTokenMiddleware(
	authority authUseCase.TokenAuthority,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			logger.Debug("authentication failed: missing access token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principal, err := authority.ValidatePrincipal(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("user_id", principal.UserID),
			slog.String("resource_id", principal.ResourceID))

		c.Next()
	}
}

// PermissionMiddleware checks that the validated principal holds the required
// permission set. It must run after AccessTokenMiddleware.
func PermissionMiddleware(
	engine authUseCase.AuthorizationEngine,
	required authDomain.Permission,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			logger.Debug("authorization failed: no principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !engine.IsAuthorized(principal, required) {
			logger.Debug("authorization failed: insufficient permissions",
				slog.String("user_id", principal.UserID),
				slog.String("held", principal.Permissions.String()),
				slog.String("required", required.String()))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ResourceBindingMiddleware checks that the principal's token was minted for
// the resource named by the route parameter. It must run after
// AccessTokenMiddleware.
func ResourceBindingMiddleware(paramName string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		resourceID := c.Param(paramName)
		if !principal.CanAccess(resourceID) {
			logger.Debug("authorization failed: token bound to another resource",
				slog.String("user_id", principal.UserID),
				slog.String("token_resource", principal.ResourceID),
				slog.String("requested_resource", resourceID))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
