package app

import (
	"fmt"
	"sync"

	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
	cryptoService "github.com/allisson/requestguard/internal/crypto/service"
)

type cryptoComponents struct {
	kmsService  cryptoService.KMSService
	aeadManager cryptoService.AEADManager
	keySource   *cryptoService.PassphraseKeySource
	algorithm   cryptoDomain.Algorithm

	kmsServiceInit  sync.Once
	aeadManagerInit sync.Once
	keySourceInit   sync.Once
	algorithmInit   sync.Once
}

// KMSService returns the KMS service used to unseal a KMS-protected master passphrase.
func (c *Container) KMSService() cryptoService.KMSService {
	c.crypto.kmsServiceInit.Do(func() {
		c.crypto.kmsService = cryptoService.NewKMSService()
	})
	return c.crypto.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.crypto.aeadManagerInit.Do(func() {
		c.crypto.aeadManager = cryptoService.NewAEADManager()
	})
	return c.crypto.aeadManager
}

// KeySource returns the vault key source. The key is derived on first use, not here,
// so a missing SECRETS_MASTER_KEY surfaces per request instead of blocking startup.
func (c *Container) KeySource() *cryptoService.PassphraseKeySource {
	c.crypto.keySourceInit.Do(func() {
		c.crypto.keySource = cryptoService.NewPassphraseKeySource(
			c.config.SecretsMasterKey,
			c.config.SecretsMasterKeyKMSURI,
			c.KMSService(),
		)
	})
	return c.crypto.keySource
}

// VaultAlgorithm returns the AEAD algorithm used for new credential writes.
func (c *Container) VaultAlgorithm() (cryptoDomain.Algorithm, error) {
	var err error
	c.crypto.algorithmInit.Do(func() {
		c.crypto.algorithm, err = cryptoDomain.ParseAlgorithm(c.config.SecretsAlgorithm)
		if err != nil {
			err = fmt.Errorf("invalid SECRETS_ALGORITHM %q: %w", c.config.SecretsAlgorithm, err)
			c.setInitError("vaultAlgorithm", err)
		}
	})
	if err != nil {
		return "", err
	}
	if storedErr := c.initError("vaultAlgorithm"); storedErr != nil {
		return "", storedErr
	}
	return c.crypto.algorithm, nil
}
