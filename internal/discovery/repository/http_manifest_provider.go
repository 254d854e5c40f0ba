// Package repository provides manifest providers: sources the discovery
// subsystem fetches raw capability documents from.
package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	discoveryDomain "github.com/allisson/wopihost/internal/discovery/domain"
	apperrors "github.com/allisson/wopihost/internal/errors"
)

// DiscoveryPath is the well-known path serving the capability document on a
// WOPI client.
const DiscoveryPath = "/hosting/discovery"

// maxManifestSize caps the discovery document size to guard against a
// misbehaving remote (1 MiB is an order of magnitude above documents in the
// wild).
const maxManifestSize = 1 << 20

// httpManifestProvider fetches the discovery document over HTTP GET.
type httpManifestProvider struct {
	client      *http.Client
	manifestURL string
}

// NewHTTPManifestProvider creates a provider fetching from the given base URL
// (scheme and host of the WOPI client, e.g. "https://editor.example.com").
// The well-known discovery path is appended unless baseURL already has a path.
func NewHTTPManifestProvider(baseURL string, timeout time.Duration) (ManifestProvider, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid discovery base URL")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("discovery base URL must be absolute: %q", baseURL)
	}
	if parsed.Path == "" || parsed.Path == "/" {
		parsed.Path = DiscoveryPath
	}

	return &httpManifestProvider{
		client:      &http.Client{Timeout: timeout},
		manifestURL: parsed.String(),
	}, nil
}

// Fetch performs the HTTP GET and returns the raw document bytes. Honors the
// caller's context for cancellation. Any transport or status failure is
// wrapped in ErrManifestFetch so callers can treat it as transient.
func (p *httpManifestProvider) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.manifestURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build discovery request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", discoveryDomain.ErrManifestFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %s",
			discoveryDomain.ErrManifestFetch, resp.StatusCode, p.manifestURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", discoveryDomain.ErrManifestFetch, err)
	}

	return body, nil
}
