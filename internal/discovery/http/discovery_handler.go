// Package http exposes editor capability queries over HTTP.
package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/wopihost/internal/discovery/http/dto"
	discoveryUseCase "github.com/allisson/wopihost/internal/discovery/usecase"
	"github.com/allisson/wopihost/internal/httputil"
)

// Action names queried for the capabilities report.
const (
	actionView = "view"
	actionEdit = "edit"
)

// DiscoveryHandler handles HTTP requests for editor capability queries.
type DiscoveryHandler struct {
	discoverer discoveryUseCase.Discoverer
	logger     *slog.Logger
}

// NewDiscoveryHandler creates a new DiscoveryHandler.
func NewDiscoveryHandler(discoverer discoveryUseCase.Discoverer, logger *slog.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoverer: discoverer,
		logger:     logger,
	}
}

// CapabilitiesHandler reports whether the configured editor supports a file
// extension and which actions it offers. An unsupported extension is a normal
// answer, not an error.
// GET /api/v1/capabilities/:ext
func (h *DiscoveryHandler) CapabilitiesHandler(c *gin.Context) {
	ctx := c.Request.Context()
	extension := strings.ToLower(strings.TrimPrefix(c.Param("ext"), "."))

	supported, err := h.discoverer.SupportsExtension(ctx, extension)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.CapabilitiesResponse{
		Extension: extension,
		Supported: supported,
	}
	if !supported {
		c.JSON(http.StatusOK, response)
		return
	}

	if name, ok, err := h.discoverer.GetApplicationName(ctx, extension); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	} else if ok {
		response.AppName = name
	}
	if favicon, ok, err := h.discoverer.GetApplicationFavicon(ctx, extension); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	} else if ok {
		response.FaviconURL = favicon
	}
	if response.CanView, err = h.discoverer.SupportsAction(ctx, extension, actionView); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if response.CanEdit, err = h.discoverer.SupportsAction(ctx, extension, actionEdit); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RefreshHandler discards the cached manifest and fetches a fresh one.
// POST /api/v1/discovery/refresh
func (h *DiscoveryHandler) RefreshHandler(c *gin.Context) {
	h.discoverer.Invalidate()

	manifest, err := h.discoverer.GetManifest(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "discovery manifest refreshed",
		slog.Time("fetched_at", manifest.FetchedAt),
		slog.Int("zones", len(manifest.Zones)),
	)

	c.JSON(http.StatusOK, dto.RefreshResponse{
		FetchedAt: manifest.FetchedAt.Format(time.RFC3339),
		Zones:     len(manifest.Zones),
	})
}
