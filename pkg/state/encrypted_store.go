package state

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// ErrDecrypt means the passphrase is wrong or the record was tampered with
var ErrDecrypt = errors.New("failed to decrypt state")

// EncryptedStore encrypts records with AES-GCM before handing them to the
// underlying store. Every record gets its own salt.
type EncryptedStore struct {
	store      Store
	passphrase string
}

// envelope is what the underlying store sees
type envelope struct {
	Version   int    `json:"version"`
	Salt      []byte `json:"salt"`
	Encrypted []byte `json:"encrypted"`
}

func NewEncryptedStore(store Store, passphrase string) (*EncryptedStore, error) {
	if passphrase == "" {
		return nil, errors.New("encrypted state store requires a passphrase")
	}
	return &EncryptedStore{store: store, passphrase: passphrase}, nil
}

func (e *EncryptedStore) Save(key string, data []byte) error {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	encrypted, err := encrypt(data, e.deriveKey(salt))
	if err != nil {
		return fmt.Errorf("failed to encrypt state: %w", err)
	}

	content, err := json.Marshal(envelope{Version: 1, Salt: salt, Encrypted: encrypted})
	if err != nil {
		return fmt.Errorf("failed to marshal state envelope: %w", err)
	}
	return e.store.Save(key, content)
}

func (e *EncryptedStore) Load(key string) ([]byte, error) {
	content, err := e.store.Load(key)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(content, &env); err != nil {
		return nil, fmt.Errorf("failed to parse state envelope: %w", err)
	}

	data, err := decrypt(env.Encrypted, e.deriveKey(env.Salt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return data, nil
}

func (e *EncryptedStore) Delete(key string) error {
	return e.store.Delete(key)
}

func (e *EncryptedStore) deriveKey(salt []byte) []byte {
	return pbkdf2.Key([]byte(e.passphrase), salt, iterations, keySize, sha256.New)
}

// encrypt prepends the nonce to the sealed data
func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
