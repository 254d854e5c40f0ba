// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/wopihost/internal/validation"
)

// MintTokenRequest contains the parameters for minting an access token. The
// caller authenticates with its long-lived secret and names the single
// resource the token should be scoped to.
type MintTokenRequest struct {
	UserID     string `json:"user_id"`
	Secret     string `json:"secret"`
	ResourceID string `json:"resource_id"`
}

// Validate checks if the mint token request is valid.
func (r *MintTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Secret,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.ResourceID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}
