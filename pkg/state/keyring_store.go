package state

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"igmobile/pkg/logger"
)

const (
	keyringService = "igmobile"
	keyringPrefix  = "state_"
)

// KeyringStore keeps records in the system keychain
type KeyringStore struct {
	logger logger.Logger
}

// NewKeyringStore fails when no keychain is reachable
func NewKeyringStore(log logger.Logger) (*KeyringStore, error) {
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{logger: logger.Or(log)}, nil
}

// Save stores data base64 encoded; keychains only take strings
func (k *KeyringStore) Save(key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := keyring.Set(keyringService, keyringPrefix+key, base64.StdEncoding.EncodeToString(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	k.logger.WithField("key", key).Debug("State saved to keyring")
	return nil
}

func (k *KeyringStore) Load(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	value, err := keyring.Get(keyringService, keyringPrefix+key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode keyring state: %w", err)
	}
	return data, nil
}

func (k *KeyringStore) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := keyring.Delete(keyringService, keyringPrefix+key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}
