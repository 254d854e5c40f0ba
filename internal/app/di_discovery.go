package app

import (
	"fmt"
	"strconv"

	discoveryDomain "github.com/allisson/wopihost/internal/discovery/domain"
	discoveryHTTP "github.com/allisson/wopihost/internal/discovery/http"
	discoveryRepository "github.com/allisson/wopihost/internal/discovery/repository"
	discoveryService "github.com/allisson/wopihost/internal/discovery/service"
	discoveryUseCase "github.com/allisson/wopihost/internal/discovery/usecase"
	"github.com/allisson/wopihost/internal/urlbuilder"
	urlbuilderHTTP "github.com/allisson/wopihost/internal/urlbuilder/http"
)

// ManifestProvider returns the capability manifest source: a local file when
// DiscoveryFile is set, the editor server's discovery endpoint otherwise.
func (c *Container) ManifestProvider() (discoveryRepository.ManifestProvider, error) {
	var err error
	c.manifestProviderInit.Do(func() {
		c.manifestProvider, err = c.initManifestProvider()
		if err != nil {
			c.initErrors["manifestProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["manifestProvider"]; exists {
		return nil, storedErr
	}
	return c.manifestProvider, nil
}

// Discoverer returns the capability query use case, decorated with metrics.
func (c *Container) Discoverer() (discoveryUseCase.Discoverer, error) {
	var err error
	c.discovererInit.Do(func() {
		c.discoverer, err = c.initDiscoverer()
		if err != nil {
			c.initErrors["discoverer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["discoverer"]; exists {
		return nil, storedErr
	}
	return c.discoverer, nil
}

// URLBuilder returns the action URL builder seeded with configured defaults.
func (c *Container) URLBuilder() (*urlbuilder.Builder, error) {
	var err error
	c.urlBuilderInit.Do(func() {
		c.urlBuilder, err = c.initURLBuilder()
		if err != nil {
			c.initErrors["urlBuilder"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["urlBuilder"]; exists {
		return nil, storedErr
	}
	return c.urlBuilder, nil
}

// DiscoveryHandler returns the HTTP handler for capability queries.
func (c *Container) DiscoveryHandler() (*discoveryHTTP.DiscoveryHandler, error) {
	var err error
	c.discoveryHandlerInit.Do(func() {
		var discoverer discoveryUseCase.Discoverer
		discoverer, err = c.Discoverer()
		if err != nil {
			err = fmt.Errorf("failed to get discoverer for discovery handler: %w", err)
			c.initErrors["discoveryHandler"] = err
			return
		}
		c.discoveryHandler = discoveryHTTP.NewDiscoveryHandler(discoverer, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["discoveryHandler"]; exists {
		return nil, storedErr
	}
	return c.discoveryHandler, nil
}

// ActionURLHandler returns the HTTP handler for the action URL endpoint.
func (c *Container) ActionURLHandler() (*urlbuilderHTTP.ActionURLHandler, error) {
	var err error
	c.actionURLInit.Do(func() {
		c.actionURLHandler, err = c.initActionURLHandler()
		if err != nil {
			c.initErrors["actionURLHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actionURLHandler"]; exists {
		return nil, storedErr
	}
	return c.actionURLHandler, nil
}

func (c *Container) initManifestProvider() (discoveryRepository.ManifestProvider, error) {
	if c.config.DiscoveryFile != "" {
		return discoveryRepository.NewFileManifestProvider(c.config.DiscoveryFile), nil
	}

	provider, err := discoveryRepository.NewHTTPManifestProvider(
		c.config.DiscoveryURL,
		c.config.DiscoveryFetchTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initDiscoverer() (discoveryUseCase.Discoverer, error) {
	provider, err := c.ManifestProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest provider for discoverer: %w", err)
	}

	zone, ok := discoveryDomain.ParseNetZone(c.config.DiscoveryNetZone)
	if !ok {
		return nil, fmt.Errorf("unknown discovery net zone: %s", c.config.DiscoveryNetZone)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for discoverer: %w", err)
	}

	discoverer := discoveryUseCase.NewDiscoverer(
		provider,
		discoveryService.NewManifestParser(),
		zone,
		c.config.DiscoveryCacheTTL,
		c.Logger(),
	)
	return discoveryUseCase.NewDiscovererWithMetrics(discoverer, businessMetrics), nil
}

func (c *Container) initURLBuilder() (*urlbuilder.Builder, error) {
	discoverer, err := c.Discoverer()
	if err != nil {
		return nil, fmt.Errorf("failed to get discoverer for url builder: %w", err)
	}

	defaults := urlbuilder.Settings{
		urlbuilder.SettingUILanguage:   c.config.UILanguage,
		urlbuilder.SettingBusinessUser: strconv.FormatBool(c.config.BusinessUser),
	}
	return urlbuilder.NewBuilder(discoverer, defaults), nil
}

func (c *Container) initActionURLHandler() (*urlbuilderHTTP.ActionURLHandler, error) {
	files, err := c.FileUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get file use case for action url handler: %w", err)
	}

	builder, err := c.URLBuilder()
	if err != nil {
		return nil, fmt.Errorf("failed to get url builder for action url handler: %w", err)
	}

	authority, err := c.TokenAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to get token authority for action url handler: %w", err)
	}

	return urlbuilderHTTP.NewActionURLHandler(
		files,
		builder,
		authority,
		c.config.PublicBaseURL,
		c.Logger(),
	), nil
}
