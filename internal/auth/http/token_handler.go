package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/wopihost/internal/auth/http/dto"
	authUseCase "github.com/allisson/wopihost/internal/auth/usecase"
	"github.com/allisson/wopihost/internal/httputil"
	customValidation "github.com/allisson/wopihost/internal/validation"
)

// TokenHandler handles HTTP requests for access token minting.
type TokenHandler struct {
	validator authUseCase.CredentialValidator
	authority authUseCase.TokenAuthority
	logger    *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	validator authUseCase.CredentialValidator,
	authority authUseCase.TokenAuthority,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		validator: validator,
		authority: authority,
		logger:    logger,
	}
}

// MintTokenHandler mints a resource-scoped access token for a user.
// POST /api/v1/auth/token - authenticates with the user's long-lived secret.
// Returns 201 Created with the token and its absolute expiry.
func (h *TokenHandler) MintTokenHandler(c *gin.Context) {
	var req dto.MintTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.validator.ValidateCredentials(c.Request.Context(), req.UserID, req.Secret); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	token, expiresAt, err := h.authority.GenerateAccessToken(c.Request.Context(), req.UserID, req.ResourceID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MintTokenResponse{
		AccessToken:    token,
		AccessTokenTTL: expiresAt * 1000,
	}

	c.JSON(http.StatusCreated, response)
}
