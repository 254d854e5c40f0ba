package domain

import (
	apperrors "github.com/allisson/wopihost/internal/errors"
)

// Discovery-specific errors.
var (
	// ErrManifestFetch indicates the discovery document could not be retrieved
	// from its source. Cached reads keep serving the last-good manifest; the
	// error only surfaces to callers when no prior manifest exists.
	ErrManifestFetch = apperrors.New("failed to fetch discovery manifest")

	// ErrManifestInvalid indicates the discovery document could not be parsed.
	ErrManifestInvalid = apperrors.New("invalid discovery manifest")
)
