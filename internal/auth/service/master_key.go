package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/wopihost/internal/errors"

	// Register KMS provider drivers for secrets.OpenKeeper.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Master key configuration errors.
var (
	// ErrMasterKeyNotSet indicates no master key was configured.
	ErrMasterKeyNotSet = apperrors.New("token master key not set")

	// ErrInvalidMasterKeySize indicates a master key that is not 32 bytes.
	ErrInvalidMasterKeySize = apperrors.New("token master key must be 32 bytes")
)

// masterKeySize is the required master key length, matching AES-256 and the
// HKDF input the token signer expects.
const masterKeySize = 32

// LoadMasterKey decodes the base64-encoded master key material. When keyURI
// is non-empty the material is treated as KMS-wrapped ciphertext and
// unwrapped through the gocloud.dev keeper for that URI (gcpkms://,
// awskms://, azurekeyvault://, hashivault://, base64key://); otherwise it is
// the raw key. The returned key is always exactly 32 bytes.
func LoadMasterKey(ctx context.Context, encodedKey string, keyURI string) ([]byte, error) {
	if encodedKey == "" {
		return nil, ErrMasterKeyNotSet
	}

	material, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode token master key")
	}

	if keyURI != "" {
		keeper, err := secrets.OpenKeeper(ctx, keyURI)
		if err != nil {
			zero(material)
			return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer keeper.Close()

		unwrapped, err := keeper.Decrypt(ctx, material)
		zero(material)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap token master key: %w", err)
		}
		material = unwrapped
	}

	if len(material) != masterKeySize {
		zero(material)
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMasterKeySize, len(material))
	}

	return material, nil
}
