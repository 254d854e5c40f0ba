// Package http exposes the action URL endpoint: the navigation entry point a
// client calls to open a file in the remote editor.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/wopihost/internal/auth/http"
	authUseCase "github.com/allisson/wopihost/internal/auth/usecase"
	apperrors "github.com/allisson/wopihost/internal/errors"
	filesUseCase "github.com/allisson/wopihost/internal/files/usecase"
	"github.com/allisson/wopihost/internal/httputil"
	"github.com/allisson/wopihost/internal/urlbuilder"
	"github.com/allisson/wopihost/internal/urlbuilder/http/dto"
)

// defaultAction is used when the caller does not name one.
const defaultAction = "edit"

// ErrActionUnsupported is returned when the editor offers no action for the
// file's extension.
var ErrActionUnsupported = apperrors.Wrap(apperrors.ErrNotFound, "action not supported for this file type")

// ActionURLHandler builds editor navigation URLs with a fresh file-scoped
// access token.
type ActionURLHandler struct {
	files         filesUseCase.FileUseCase
	builder       *urlbuilder.Builder
	authority     authUseCase.TokenAuthority
	publicBaseURL string
	logger        *slog.Logger
}

// NewActionURLHandler creates a new ActionURLHandler. publicBaseURL is the
// externally reachable base URL of this host, used to form the WOPISrc
// resource URL the editor calls back on.
func NewActionURLHandler(
	files filesUseCase.FileUseCase,
	builder *urlbuilder.Builder,
	authority authUseCase.TokenAuthority,
	publicBaseURL string,
	logger *slog.Logger,
) *ActionURLHandler {
	return &ActionURLHandler{
		files:         files,
		builder:       builder,
		authority:     authority,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// ActionURLHandler resolves the editor URL for a file and mints a fresh access
// token for the session. Per-session settings come from query parameters and
// override the builder defaults.
// GET /api/v1/files/:id/action-url?action=edit&lang=en-US&embedded=false
func (h *ActionURLHandler) ActionURLHandler(c *gin.Context) {
	ctx := c.Request.Context()
	fileID := c.Param("id")

	principal, ok := authHTTP.GetPrincipal(ctx)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	info, err := h.files.GetInfo(ctx, fileID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	action := c.DefaultQuery("action", defaultAction)
	overrides := urlbuilder.Settings{}
	if lang := c.Query("lang"); lang != "" {
		overrides.SetUILanguage(lang)
	}
	if embedded := c.Query("embedded"); embedded != "" {
		value, err := strconv.ParseBool(embedded)
		if err != nil {
			httputil.HandleBadRequestGin(c, errors.New("embedded must be a boolean"), h.logger)
			return
		}
		overrides.SetEmbedded(value)
	}

	token, expiresAt, err := h.authority.GenerateAccessToken(ctx, principal.UserID, fileID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	resourceURL := h.publicBaseURL + "/wopi/files/" + url.PathEscape(fileID)
	actionURL, ok, err := h.builder.BuildActionURL(ctx, info.Extension(), resourceURL, action, overrides)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !ok {
		httputil.HandleErrorGin(c, ErrActionUnsupported, h.logger)
		return
	}

	h.logger.InfoContext(ctx, "action URL built",
		slog.String("file_id", fileID),
		slog.String("action", action),
		slog.String("user_id", principal.UserID),
	)

	c.JSON(http.StatusOK, dto.ActionURLResponse{
		ActionURL:      actionURL,
		AccessToken:    token,
		AccessTokenTTL: expiresAt * 1000,
	})
}
