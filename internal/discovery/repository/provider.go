package repository

import "context"

// ManifestProvider retrieves the raw discovery document from its source.
// Implementations must be safe for concurrent use.
type ManifestProvider interface {
	// Fetch returns the raw capability document bytes. Transient retrieval
	// failures are wrapped in domain.ErrManifestFetch.
	Fetch(ctx context.Context) ([]byte, error)
}
