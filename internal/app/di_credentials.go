package app

import (
	"fmt"
	"sync"

	credentialsHTTP "github.com/allisson/requestguard/internal/credentials/http"
	credentialsRepository "github.com/allisson/requestguard/internal/credentials/repository"
	credentialsUseCase "github.com/allisson/requestguard/internal/credentials/usecase"
	"github.com/allisson/requestguard/internal/database"
)

type credentialsComponents struct {
	appDataRepository credentialsUseCase.AppDataRepository
	vaultUseCase      credentialsUseCase.VaultUseCase
	handler           *credentialsHTTP.CredentialHandler

	appDataRepositoryInit sync.Once
	vaultUseCaseInit      sync.Once
	handlerInit           sync.Once
}

// AppDataRepository returns the document store repository for the configured driver.
func (c *Container) AppDataRepository() (credentialsUseCase.AppDataRepository, error) {
	var err error
	c.credentials.appDataRepositoryInit.Do(func() {
		c.credentials.appDataRepository, err = c.initAppDataRepository()
		if err != nil {
			c.setInitError("appDataRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("appDataRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.credentials.appDataRepository, nil
}

// VaultUseCase returns the credential vault, decorated with metrics.
func (c *Container) VaultUseCase() (credentialsUseCase.VaultUseCase, error) {
	var err error
	c.credentials.vaultUseCaseInit.Do(func() {
		c.credentials.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.setInitError("vaultUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("vaultUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.credentials.vaultUseCase, nil
}

// CredentialHandler returns the HTTP handler for the credential endpoints.
func (c *Container) CredentialHandler() (*credentialsHTTP.CredentialHandler, error) {
	var err error
	c.credentials.handlerInit.Do(func() {
		var vault credentialsUseCase.VaultUseCase
		vault, err = c.VaultUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get vault use case for credential handler: %w", err)
			c.setInitError("credentialHandler", err)
			return
		}
		c.credentials.handler = credentialsHTTP.NewCredentialHandler(vault, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("credentialHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.credentials.handler, nil
}

func (c *Container) initAppDataRepository() (credentialsUseCase.AppDataRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for app data repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return credentialsRepository.NewMySQLAppDataRepository(db), nil
	case database.DriverPostgres:
		return credentialsRepository.NewPostgreSQLAppDataRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initVaultUseCase() (credentialsUseCase.VaultUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for vault use case: %w", err)
	}

	repo, err := c.AppDataRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get app data repository for vault use case: %w", err)
	}

	algorithm, err := c.VaultAlgorithm()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
	}

	vault := credentialsUseCase.NewVaultUseCase(
		txManager,
		repo,
		c.AEADManager(),
		c.KeySource(),
		algorithm,
		c.Logger(),
	)
	return credentialsUseCase.NewVaultUseCaseWithMetrics(vault, businessMetrics), nil
}
