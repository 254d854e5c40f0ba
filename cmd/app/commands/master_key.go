package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"gocloud.dev/secrets"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for token signing. The signing key is derived from it with HKDF at startup.
//
// When kmsKeyURI is set the key is wrapped through the gocloud.dev keeper for
// that URI before output, and TOKEN_MASTER_KEY holds the wrapped ciphertext.
// For local development use "base64key://<32-byte-base64-key>".
//
// Output is a .env fragment:
//   - TOKEN_MASTER_KEY="<base64-encoded key or wrapped ciphertext>"
//   - KMS_KEY_URI="<uri>" (only when wrapping)
func RunCreateMasterKey(ctx context.Context, writer io.Writer, kmsKeyURI string) error {
	masterKey := make([]byte, 32)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}

	material := masterKey
	if kmsKeyURI != "" {
		keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			zero(masterKey)
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() { _ = keeper.Close() }()

		material, err = keeper.Encrypt(ctx, masterKey)
		if err != nil {
			zero(masterKey)
			return fmt.Errorf("failed to wrap master key with KMS: %w", err)
		}
	}

	encodedKey := base64.StdEncoding.EncodeToString(material)

	_, _ = fmt.Fprintln(writer, "# Token Master Key Configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "TOKEN_MASTER_KEY=\"%s\"\n", encodedKey)
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}

	zero(masterKey)
	return nil
}

// zero overwrites key material after use.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
