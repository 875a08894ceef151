// Package signature computes the request signatures the mobile API expects
// on every mutating call.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"igmobile/pkg/errors"
)

const (
	// FieldSignedBody carries the signed envelope, both as form field and header
	FieldSignedBody = "signed_body"
	// FieldKeyVersion carries the key version, both as form field and header
	FieldKeyVersion = "ig_sig_key_version"
)

// Signer signs payloads with a fixed key
type Signer struct {
	key     []byte
	version string
}

// NewSigner creates a Signer for key, announcing version on signed requests
func NewSigner(key, version string) *Signer {
	return &Signer{key: []byte(key), version: version}
}

// Version returns the signature key version
func (s *Signer) Version() string {
	return s.version
}

// Sign returns the lowercase hex HMAC-SHA256 of payload
func (s *Signer) Sign(payload []byte) (string, error) {
	return Sign(s.key, payload)
}

// Envelope signs payload and returns "{signature}.{payload}"
func (s *Signer) Envelope(payload []byte) (string, error) {
	sig, err := s.Sign(payload)
	if err != nil {
		return "", err
	}
	return Envelope(sig, payload), nil
}

// Sign returns the lowercase hex HMAC-SHA256 of payload under key.
// The signature is computed over the exact bytes given.
func Sign(key, payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", errors.InvalidArgument("cannot sign an empty payload")
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Envelope joins a signature and the payload it covers
func Envelope(sig string, payload []byte) string {
	return sig + "." + string(payload)
}
