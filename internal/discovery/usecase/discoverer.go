package usecase

import (
	"context"
	"log/slog"
	"time"

	discoveryDomain "github.com/allisson/wopihost/internal/discovery/domain"
	discoveryRepository "github.com/allisson/wopihost/internal/discovery/repository"
	discoveryService "github.com/allisson/wopihost/internal/discovery/service"
	"github.com/allisson/wopihost/internal/memo"
)

// discoverer implements Discoverer on top of an expiring manifest cache.
//
// The manifest is shared, read-mostly state: every refresh parses a brand-new
// manifest and swaps it atomically. Only the refresh itself is serialized
// (single in-flight fetch); cached reads are never blocked by a refresh
// triggered by another caller.
type discoverer struct {
	provider discoveryRepository.ManifestProvider
	parser   discoveryService.ManifestParser
	zone     discoveryDomain.NetZone
	cacheTTL time.Duration
	logger   *slog.Logger

	manifest *memo.Expiring[*discoveryDomain.Manifest]
}

// NewDiscoverer creates a Discoverer for the given zone. The manifest is
// fetched lazily on first query and refreshed after cacheTTL elapses.
func NewDiscoverer(
	provider discoveryRepository.ManifestProvider,
	parser discoveryService.ManifestParser,
	zone discoveryDomain.NetZone,
	cacheTTL time.Duration,
	logger *slog.Logger,
) Discoverer {
	return &discoverer{
		provider: provider,
		parser:   parser,
		zone:     zone,
		cacheTTL: cacheTTL,
		logger:   logger,
		manifest: memo.NewExpiring[*discoveryDomain.Manifest](),
	}
}

// GetManifest returns the current manifest, refreshing when expired. If the
// refresh fails and a last-good manifest exists, that manifest keeps serving
// reads and the failure is only logged; the error surfaces to the caller only
// when no manifest has ever been fetched.
func (d *discoverer) GetManifest(ctx context.Context) (*discoveryDomain.Manifest, error) {
	manifest, err := d.manifest.Get(ctx, func(ctx context.Context) (*discoveryDomain.Manifest, time.Time, error) {
		raw, err := d.provider.Fetch(ctx)
		if err != nil {
			return nil, time.Time{}, err
		}

		parsed, err := d.parser.Parse(raw)
		if err != nil {
			return nil, time.Time{}, err
		}

		d.logger.Debug("discovery manifest refreshed",
			slog.Int("zone_count", len(parsed.Zones)),
			slog.String("zone", string(d.zone)))

		return parsed, time.Now().Add(d.cacheTTL), nil
	})
	if err != nil {
		if stale, ok := d.manifest.Peek(); ok {
			d.logger.Warn("discovery refresh failed, serving last-good manifest",
				slog.Any("error", err),
				slog.Time("fetched_at", stale.FetchedAt))
			return stale, nil
		}
		return nil, err
	}

	return manifest, nil
}

// Invalidate forces the next query to fetch a fresh manifest.
func (d *discoverer) Invalidate() {
	d.manifest.Invalidate()
}

// SupportsExtension reports whether any action in the zone covers the extension.
func (d *discoverer) SupportsExtension(ctx context.Context, extension string) (bool, error) {
	manifest, err := d.GetManifest(ctx)
	if err != nil {
		return false, err
	}
	return manifest.SupportsExtension(d.zone, extension), nil
}

// SupportsAction reports whether the (extension, action) pair is offered.
func (d *discoverer) SupportsAction(ctx context.Context, extension, action string) (bool, error) {
	manifest, err := d.GetManifest(ctx)
	if err != nil {
		return false, err
	}
	_, ok := manifest.FindAction(d.zone, extension, action)
	return ok, nil
}

// GetURLTemplate returns the URL template for the (extension, action) pair.
func (d *discoverer) GetURLTemplate(ctx context.Context, extension, action string) (string, bool, error) {
	manifest, err := d.GetManifest(ctx)
	if err != nil {
		return "", false, err
	}

	entry, ok := manifest.FindAction(d.zone, extension, action)
	if !ok {
		return "", false, nil
	}
	return entry.URLTemplate, true, nil
}

// GetActionRequirements returns the requirement tokens for the pair.
func (d *discoverer) GetActionRequirements(ctx context.Context, extension, action string) ([]string, bool, error) {
	manifest, err := d.GetManifest(ctx)
	if err != nil {
		return nil, false, err
	}

	entry, ok := manifest.FindAction(d.zone, extension, action)
	if !ok {
		return nil, false, nil
	}
	return entry.Requires, true, nil
}

// RequiresCobalt reports whether the action requires the legacy co-authoring
// protocol. An unknown (extension, action) pair requires nothing.
func (d *discoverer) RequiresCobalt(ctx context.Context, extension, action string) (bool, error) {
	manifest, err := d.GetManifest(ctx)
	if err != nil {
		return false, err
	}

	entry, ok := manifest.FindAction(d.zone, extension, action)
	if !ok {
		return false, nil
	}
	return entry.HasRequirement(discoveryDomain.RequiresCobalt), nil
}

// GetApplicationName returns the name of the first app covering the extension.
func (d *discoverer) GetApplicationName(ctx context.Context, extension string) (string, bool, error) {
	manifest, err := d.GetManifest(ctx)
	if err != nil {
		return "", false, err
	}

	app, ok := manifest.FindApp(d.zone, extension)
	if !ok {
		return "", false, nil
	}
	return app.Name, true, nil
}

// GetApplicationFavicon returns the favicon URL of the first app covering the
// extension.
func (d *discoverer) GetApplicationFavicon(ctx context.Context, extension string) (string, bool, error) {
	manifest, err := d.GetManifest(ctx)
	if err != nil {
		return "", false, err
	}

	app, ok := manifest.FindApp(d.zone, extension)
	if !ok {
		return "", false, nil
	}
	return app.FaviconURL, true, nil
}
