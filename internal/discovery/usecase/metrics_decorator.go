package usecase

import (
	"context"
	"time"

	discoveryDomain "github.com/allisson/wopihost/internal/discovery/domain"
	"github.com/allisson/wopihost/internal/metrics"
)

// discovererWithMetrics decorates Discoverer with metrics instrumentation.
type discovererWithMetrics struct {
	next    Discoverer
	metrics metrics.BusinessMetrics
}

// NewDiscovererWithMetrics wraps a Discoverer with metrics recording.
func NewDiscovererWithMetrics(discoverer Discoverer, m metrics.BusinessMetrics) Discoverer {
	return &discovererWithMetrics{
		next:    discoverer,
		metrics: m,
	}
}

func (d *discovererWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "discovery", operation, status)
	d.metrics.RecordDuration(ctx, "discovery", operation, time.Since(start), status)
}

// GetManifest records metrics for manifest retrieval.
func (d *discovererWithMetrics) GetManifest(ctx context.Context) (*discoveryDomain.Manifest, error) {
	start := time.Now()
	manifest, err := d.next.GetManifest(ctx)
	d.record(ctx, "manifest_get", start, err)
	return manifest, err
}

// SupportsExtension records metrics for extension support checks.
func (d *discovererWithMetrics) SupportsExtension(ctx context.Context, extension string) (bool, error) {
	start := time.Now()
	supported, err := d.next.SupportsExtension(ctx, extension)
	d.record(ctx, "extension_check", start, err)
	return supported, err
}

// SupportsAction records metrics for action support checks.
func (d *discovererWithMetrics) SupportsAction(ctx context.Context, extension, action string) (bool, error) {
	start := time.Now()
	supported, err := d.next.SupportsAction(ctx, extension, action)
	d.record(ctx, "action_check", start, err)
	return supported, err
}

// GetURLTemplate records metrics for template lookups.
func (d *discovererWithMetrics) GetURLTemplate(ctx context.Context, extension, action string) (string, bool, error) {
	start := time.Now()
	template, ok, err := d.next.GetURLTemplate(ctx, extension, action)
	d.record(ctx, "template_get", start, err)
	return template, ok, err
}

// GetActionRequirements records metrics for requirement lookups.
func (d *discovererWithMetrics) GetActionRequirements(ctx context.Context, extension, action string) ([]string, bool, error) {
	start := time.Now()
	requires, ok, err := d.next.GetActionRequirements(ctx, extension, action)
	d.record(ctx, "requirements_get", start, err)
	return requires, ok, err
}

// RequiresCobalt records metrics for co-authoring requirement checks.
func (d *discovererWithMetrics) RequiresCobalt(ctx context.Context, extension, action string) (bool, error) {
	start := time.Now()
	required, err := d.next.RequiresCobalt(ctx, extension, action)
	d.record(ctx, "cobalt_check", start, err)
	return required, err
}

// GetApplicationName records metrics for application name lookups.
func (d *discovererWithMetrics) GetApplicationName(ctx context.Context, extension string) (string, bool, error) {
	start := time.Now()
	name, ok, err := d.next.GetApplicationName(ctx, extension)
	d.record(ctx, "app_name_get", start, err)
	return name, ok, err
}

// GetApplicationFavicon records metrics for favicon lookups.
func (d *discovererWithMetrics) GetApplicationFavicon(ctx context.Context, extension string) (string, bool, error) {
	start := time.Now()
	favicon, ok, err := d.next.GetApplicationFavicon(ctx, extension)
	d.record(ctx, "app_favicon_get", start, err)
	return favicon, ok, err
}

// Invalidate forwards cache invalidation without recording metrics.
func (d *discovererWithMetrics) Invalidate() {
	d.next.Invalidate()
}
