package app

import (
	"fmt"

	filesHTTP "github.com/allisson/wopihost/internal/files/http"
	filesRepository "github.com/allisson/wopihost/internal/files/repository"
	filesUseCase "github.com/allisson/wopihost/internal/files/usecase"
)

// FileRepository returns the local filesystem content repository.
func (c *Container) FileRepository() (filesUseCase.FileRepository, error) {
	var err error
	c.fileRepositoryInit.Do(func() {
		c.fileRepository, err = filesRepository.NewLocalFileRepository(c.config.FileStoragePath)
		if err != nil {
			err = fmt.Errorf("failed to create file repository: %w", err)
			c.initErrors["fileRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileRepository"]; exists {
		return nil, storedErr
	}
	return c.fileRepository, nil
}

// FileUseCase returns the file use case, decorated with metrics.
func (c *Container) FileUseCase() (filesUseCase.FileUseCase, error) {
	var err error
	c.fileUseCaseInit.Do(func() {
		c.fileUseCase, err = c.initFileUseCase()
		if err != nil {
			c.initErrors["fileUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileUseCase"]; exists {
		return nil, storedErr
	}
	return c.fileUseCase, nil
}

// WopiHandler returns the HTTP handler for the protocol endpoints.
func (c *Container) WopiHandler() (*filesHTTP.WopiHandler, error) {
	var err error
	c.wopiHandlerInit.Do(func() {
		c.wopiHandler, err = c.initWopiHandler()
		if err != nil {
			c.initErrors["wopiHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["wopiHandler"]; exists {
		return nil, storedErr
	}
	return c.wopiHandler, nil
}

func (c *Container) initFileUseCase() (filesUseCase.FileUseCase, error) {
	repo, err := c.FileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get file repository for file use case: %w", err)
	}

	locks, err := c.LockUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get lock use case for file use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for file use case: %w", err)
	}

	useCase := filesUseCase.NewFileUseCase(repo, locks, c.Logger())
	return filesUseCase.NewFileUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initWopiHandler() (*filesHTTP.WopiHandler, error) {
	files, err := c.FileUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get file use case for wopi handler: %w", err)
	}

	locks, err := c.LockUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get lock use case for wopi handler: %w", err)
	}

	engine, err := c.AuthorizationEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization engine for wopi handler: %w", err)
	}

	return filesHTTP.NewWopiHandler(files, locks, engine, c.Logger()), nil
}
