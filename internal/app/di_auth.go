package app

import (
	"context"
	"fmt"

	authHTTP "github.com/allisson/wopihost/internal/auth/http"
	authService "github.com/allisson/wopihost/internal/auth/service"
	authUseCase "github.com/allisson/wopihost/internal/auth/usecase"
)

// SecretService returns the user secret generation and verification service.
func (c *Container) SecretService() (authService.SecretService, error) {
	c.secretServiceInit.Do(func() {
		c.secretService = authService.NewSecretService()
	})
	return c.secretService, nil
}

// TokenSigner returns the HMAC token signer derived from the master key.
func (c *Container) TokenSigner() (authService.TokenSigner, error) {
	var err error
	c.tokenSignerInit.Do(func() {
		c.tokenSigner, err = c.initTokenSigner()
		if err != nil {
			c.initErrors["tokenSigner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenSigner"]; exists {
		return nil, storedErr
	}
	return c.tokenSigner, nil
}

// TokenAuthority returns the token issuance and validation use case,
// decorated with metrics.
func (c *Container) TokenAuthority() (authUseCase.TokenAuthority, error) {
	if err := c.ensureTokenAuthority(); err != nil {
		return nil, err
	}
	return c.tokenAuthority, nil
}

// AuthorizationEngine returns the permission check engine backing the
// protocol endpoints.
func (c *Container) AuthorizationEngine() (authUseCase.AuthorizationEngine, error) {
	if err := c.ensureTokenAuthority(); err != nil {
		return nil, err
	}
	return c.authzEngine, nil
}

// TokenHandler returns the HTTP handler for the token minting endpoint.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.initErrors["tokenHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// ensureTokenAuthority initializes the token authority and the authorization
// engine together. Both views come from the same underlying instance; metrics
// decoration applies only to the token authority side.
func (c *Container) ensureTokenAuthority() error {
	var err error
	c.tokenAuthorityInit.Do(func() {
		err = c.initTokenAuthority()
		if err != nil {
			c.initErrors["tokenAuthority"] = err
		}
	})
	if err != nil {
		return err
	}
	if storedErr, exists := c.initErrors["tokenAuthority"]; exists {
		return storedErr
	}
	return nil
}

// initTokenSigner loads the master key (unwrapping it through KMS when
// configured) and derives the signing key from it.
func (c *Container) initTokenSigner() (authService.TokenSigner, error) {
	masterKey, err := authService.LoadMasterKey(
		context.Background(),
		c.config.TokenMasterKey,
		c.config.KMSKeyURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load token master key: %w", err)
	}

	signer, err := authService.NewTokenSigner(masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token signer: %w", err)
	}
	return signer, nil
}

func (c *Container) initTokenAuthority() error {
	signer, err := c.TokenSigner()
	if err != nil {
		return fmt.Errorf("failed to get token signer for token authority: %w", err)
	}

	users, err := c.UserUseCase()
	if err != nil {
		return fmt.Errorf("failed to get user use case for token authority: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return fmt.Errorf("failed to get business metrics for token authority: %w", err)
	}

	authority := authUseCase.NewTokenAuthority(c.config, signer, users)
	c.tokenAuthority = authUseCase.NewTokenAuthorityWithMetrics(authority, businessMetrics)
	c.authzEngine = authority
	return nil
}

func (c *Container) initTokenHandler() (*authHTTP.TokenHandler, error) {
	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for token handler: %w", err)
	}

	authority, err := c.TokenAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to get token authority for token handler: %w", err)
	}

	return authHTTP.NewTokenHandler(users, authority, c.Logger()), nil
}
