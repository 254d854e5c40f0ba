package repository

import (
	"context"
	"fmt"
	"os"

	discoveryDomain "github.com/allisson/wopihost/internal/discovery/domain"
)

// fileManifestProvider reads the discovery document from a local file. Useful
// for air-gapped deployments and tests where the WOPI client's discovery
// endpoint is mirrored to disk.
type fileManifestProvider struct {
	path string
}

// NewFileManifestProvider creates a provider reading from the given path.
// The file is re-read on every fetch so manifest updates are picked up on the
// next cache refresh without a restart.
func NewFileManifestProvider(path string) ManifestProvider {
	return &fileManifestProvider{path: path}
}

// Fetch reads the file contents. Read failures are wrapped in
// ErrManifestFetch so callers treat them as transient.
func (p *fileManifestProvider) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", discoveryDomain.ErrManifestFetch, err)
	}

	return data, nil
}
