package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	apperrors "github.com/allisson/wopihost/internal/errors"
)

// ErrSignatureInvalid indicates a signature that does not match the payload.
var ErrSignatureInvalid = apperrors.Wrap(apperrors.ErrUnauthorized, "signature invalid")

// signatureSize is the length of an HMAC-SHA256 signature.
const signatureSize = sha256.Size

type tokenSigner struct {
	signingKey []byte
}

// NewTokenSigner creates an HMAC-based token signer. The signing key is
// derived from the master key with HKDF-SHA256 so the master key itself is
// never used for signing. The info string is versioned for future algorithm
// changes.
func NewTokenSigner(masterKey []byte) (TokenSigner, error) {
	info := []byte("access-token-signing-v1")
	reader := hkdf.New(sha256.New, masterKey, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}

	return &tokenSigner{signingKey: signingKey}, nil
}

// Sign generates the HMAC-SHA256 signature for the payload.
func (t *tokenSigner) Sign(payload []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, t.signingKey)
	mac.Write(payload)
	return mac.Sum(nil), nil
}

// Verify checks the signature over the payload in constant time.
func (t *tokenSigner) Verify(payload []byte, signature []byte) error {
	expected, err := t.Sign(payload)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(signature, expected) {
		return ErrSignatureInvalid
	}

	return nil
}

// Close clears the derived signing key from memory.
func (t *tokenSigner) Close() {
	zero(t.signingKey)
}

// zero overwrites sensitive data in memory with zeros.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
