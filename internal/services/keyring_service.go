package services

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const keyringServiceName = "benchboard"

// KeyringService stores upstream API credentials in the OS keyring, keyed
// by provider. It is the fallback credential source when the environment
// does not supply one.
type KeyringService struct {
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

func (s *KeyringService) StoreApiKey(provider string, apiKey string) error {
	if apiKey == "" {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Set(keyringServiceName, provider, apiKey)
}

// GetApiKey returns the stored key, or "" without an error when none is
// stored for the provider.
func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	key, err := keyring.Get(keyringServiceName, provider)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	err := keyring.Delete(keyringServiceName, provider)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
