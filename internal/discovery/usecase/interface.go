// Package usecase implements capability queries over the cached discovery
// manifest.
package usecase

import (
	"context"

	discoveryDomain "github.com/allisson/wopihost/internal/discovery/domain"
)

// Discoverer answers capability questions against the freshest manifest for
// the host's configured net zone. All methods are safe for concurrent use.
//
// Absent results (unknown extension, unknown action) are reported through the
// boolean return, never as an error; errors are reserved for manifest
// retrieval failures with no last-good manifest to fall back on.
type Discoverer interface {
	// GetManifest returns the current manifest, refreshing it from the
	// provider when the cache TTL has elapsed.
	GetManifest(ctx context.Context) (*discoveryDomain.Manifest, error)

	// SupportsExtension reports whether any action in the configured zone
	// covers the extension.
	SupportsExtension(ctx context.Context, extension string) (bool, error)

	// SupportsAction reports whether the (extension, action) pair is offered
	// in the configured zone. Matching is case-insensitive.
	SupportsAction(ctx context.Context, extension, action string) (bool, error)

	// GetURLTemplate returns the URL template for the (extension, action)
	// pair, or ok=false if the pair is not offered.
	GetURLTemplate(ctx context.Context, extension, action string) (template string, ok bool, err error)

	// GetActionRequirements returns the requirement tokens for the
	// (extension, action) pair, or ok=false if the pair is not offered.
	GetActionRequirements(ctx context.Context, extension, action string) (requires []string, ok bool, err error)

	// RequiresCobalt reports whether the action requires the legacy binary
	// co-authoring protocol.
	RequiresCobalt(ctx context.Context, extension, action string) (bool, error)

	// GetApplicationName returns the name of the first application offering
	// actions for the extension, or ok=false if none does.
	GetApplicationName(ctx context.Context, extension string) (name string, ok bool, err error)

	// GetApplicationFavicon returns the favicon URL of the first application
	// offering actions for the extension, or ok=false if none does.
	GetApplicationFavicon(ctx context.Context, extension string) (favicon string, ok bool, err error)

	// Invalidate forces the next query to fetch a fresh manifest.
	Invalidate()
}
