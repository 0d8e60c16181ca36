package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
	cryptoService "github.com/siaa-labs/vault/internal/crypto/service"
)

// MasterKey returns the master key, loaded from the environment or unwrapped
// through the configured KMS.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// Engine returns the crypto engine that seals and opens secret values.
func (c *Container) Engine() (cryptoService.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

// initMasterKey loads the master key. When a KMS provider is configured the
// wrapped key is unwrapped through it; otherwise the key comes straight from
// the environment.
func (c *Container) initMasterKey() (*cryptoDomain.MasterKey, error) {
	if c.config.KMSProvider == "" {
		masterKey, err := cryptoDomain.LoadMasterKey(c.config.MasterKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load master key: %w", err)
		}
		return masterKey, nil
	}

	ctx := context.Background()

	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			c.Logger().Warn("failed to close KMS keeper", "error", closeErr)
		}
	}()

	masterKey, err := cryptoDomain.UnwrapMasterKey(ctx, keeper, c.config.WrappedMasterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap master key: %w", err)
	}

	return masterKey, nil
}

// initEngine creates the crypto engine with the configured default algorithm.
func (c *Container) initEngine() (cryptoService.Engine, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key for crypto engine: %w", err)
	}

	engine, err := cryptoService.NewEngine(
		masterKey,
		cryptoDomain.Algorithm(c.config.EncryptionAlgorithm),
		c.AEADManager(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create crypto engine: %w", err)
	}

	return engine, nil
}
