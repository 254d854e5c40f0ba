package app

import (
	"fmt"

	locksRepository "github.com/allisson/wopihost/internal/locks/repository"
	locksUseCase "github.com/allisson/wopihost/internal/locks/usecase"
)

// LockRepository returns the lock repository for the configured store driver.
func (c *Container) LockRepository() (locksUseCase.LockRepository, error) {
	var err error
	c.lockRepositoryInit.Do(func() {
		c.lockRepository, err = c.initLockRepository()
		if err != nil {
			c.initErrors["lockRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["lockRepository"]; exists {
		return nil, storedErr
	}
	return c.lockRepository, nil
}

// LockUseCase returns the locking use case, decorated with metrics.
func (c *Container) LockUseCase() (locksUseCase.LockUseCase, error) {
	var err error
	c.lockUseCaseInit.Do(func() {
		c.lockUseCase, err = c.initLockUseCase()
		if err != nil {
			c.initErrors["lockUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["lockUseCase"]; exists {
		return nil, storedErr
	}
	return c.lockUseCase, nil
}

func (c *Container) initLockRepository() (locksUseCase.LockRepository, error) {
	switch c.config.StoreDriver {
	case storeDriverMemory:
		return locksRepository.NewMemoryLockRepository(), nil
	case storeDriverPostgreSQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for lock repository: %w", err)
		}
		return locksRepository.NewPostgreSQLLockRepository(db), nil
	case storeDriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for lock repository: %w", err)
		}
		return locksRepository.NewMySQLLockRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", c.config.StoreDriver)
	}
}

func (c *Container) initLockUseCase() (locksUseCase.LockUseCase, error) {
	repo, err := c.LockRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get lock repository for lock use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for lock use case: %w", err)
	}

	useCase := locksUseCase.NewLockUseCase(repo, c.config.LockTTL, c.Logger())
	return locksUseCase.NewLockUseCaseWithMetrics(useCase, businessMetrics), nil
}
