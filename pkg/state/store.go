// Package state persists client state blobs, one record per account.
package state

import (
	"errors"
	"fmt"
	"regexp"

	"igmobile/pkg/config"
	"igmobile/pkg/logger"
)

var (
	// ErrNotFound is returned by Load and Delete when no record exists for a key
	ErrNotFound = errors.New("state not found")

	// ErrInvalidKey is returned for keys that cannot name a record
	ErrInvalidKey = errors.New("invalid state key")
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._]{1,64}$`)

// Store saves and loads opaque state records by key
type Store interface {
	Save(key string, data []byte) error
	Load(key string) ([]byte, error)
	Delete(key string) error
}

func checkKey(key string) error {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open creates the store selected by cfg.Backend
func Open(cfg config.StateConfig, log logger.Logger) (Store, error) {
	log = logger.Or(log).WithField("state_backend", cfg.Backend)

	switch cfg.Backend {
	case "file", "":
		return NewFileStore(cfg.Path, log)
	case "encrypted":
		fs, err := NewFileStore(cfg.Path, log)
		if err != nil {
			return nil, err
		}
		return NewEncryptedStore(fs, cfg.Passphrase)
	case "keyring":
		return NewKeyringStore(log)
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}
