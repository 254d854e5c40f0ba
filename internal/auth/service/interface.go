// Package service provides technical services for authentication operations:
// access token signing, master key loading, and user secret hashing.
package service

// TokenSigner defines operations for signing and verifying access token
// payloads. Implementations must derive the signing key from the master key
// rather than using it directly, and must verify in constant time.
type TokenSigner interface {
	// Sign produces a signature over the payload.
	Sign(payload []byte) ([]byte, error)

	// Verify checks the signature over the payload. Returns
	// ErrSignatureInvalid when it does not match.
	Verify(payload []byte, signature []byte) error

	// Close clears derived key material from memory. The signer must not be
	// used afterwards.
	Close()
}

// SecretService defines operations for user secret generation and validation.
// Implementations must use cryptographically secure random generation and
// industry-standard hashing algorithms (e.g., bcrypt, argon2).
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plain text secret (to be shared with the user) and
	// the hashed version (to be stored in the database).
	//
	// The plain secret should be treated as sensitive data and only displayed
	// once during creation.
	GenerateSecret() (plainSecret string, hashedSecret string, error error)

	// HashSecret hashes a plain text secret using a secure hashing algorithm.
	// Used when users need to regenerate or update their secrets.
	HashSecret(plainSecret string) (hashedSecret string, error error)

	// CompareSecret compares a plain text secret against a hashed secret.
	// Returns true if the plain secret matches the hash, false otherwise.
	// This is constant-time to prevent timing attacks.
	CompareSecret(plainSecret string, hashedSecret string) bool
}
