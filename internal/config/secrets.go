package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name used in the system keyring.
	KeyringService = "acta"
	// KeyringUser is the account name the API key is stored under.
	KeyringUser = "groq-api-key"

	// keyPrefix is stripped from stored keys. Some dashboards copy it along
	// with the key itself.
	keyPrefix = "sk_groq_"
)

// ErrKeyringUnavailable indicates the system keyring could not be used.
var ErrKeyringUnavailable = errors.New("system keyring unavailable")

// NormalizeAPIKey trims whitespace and the sk_groq_ prefix.
func NormalizeAPIKey(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), keyPrefix)
}

// ResolveAPIKey fills LLM.APIKey from the keyring when neither the file nor
// the environment supplied one. A missing keyring entry is not an error.
func (c *Config) ResolveAPIKey() error {
	if c.LLM.APIKey != "" {
		c.LLM.APIKey = NormalizeAPIKey(c.LLM.APIKey)
		return nil
	}

	key, err := keyring.Get(KeyringService, KeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	c.LLM.APIKey = NormalizeAPIKey(key)
	return nil
}

// StoreAPIKey saves key in the system keyring.
func StoreAPIKey(key string) error {
	key = NormalizeAPIKey(key)
	if key == "" {
		return errors.New("empty API key")
	}
	if err := keyring.Set(KeyringService, KeyringUser, key); err != nil {
		return fmt.Errorf("%w: storing key: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// ClearAPIKey removes the stored key. Removing a key that was never stored
// succeeds.
func ClearAPIKey() error {
	err := keyring.Delete(KeyringService, KeyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}
