// Package dto provides data transfer objects for HTTP request and response handling.
package dto

// MintTokenResponse contains the result of minting an access token.
// SECURITY: The token is only returned once and must be transmitted securely.
type MintTokenResponse struct {
	AccessToken string `json:"access_token"`
	// AccessTokenTTL is the absolute expiry as Unix milliseconds, matching
	// the value editors expect alongside the token.
	AccessTokenTTL int64 `json:"access_token_ttl"`
}
