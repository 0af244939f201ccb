// Package keyring stores the RPC bearer secret in the operating system's
// keyring, falling back to a file when no keyring service is available.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// secretBytes is the length of a generated secret before hex encoding.
const secretBytes = 32

// ErrNoSecret is returned by GetSecret when nothing has been stored yet.
var ErrNoSecret = errors.New("no RPC secret stored")

// Provider stores one secret.
type Provider interface {
	GetSecret() (string, error)
	SetSecret() (string, error)
	DeleteSecret() error
}

// Keyring keeps the secret in the OS keyring under Service/User.
type Keyring struct {
	Service string
	User    string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		Service: "credsync",
		User:    "rpc-secret",
	}
}

// SetSecret generates a new secret, stores it and returns it.
func (k *Keyring) SetSecret() (string, error) {
	secret, err := newSecret()
	if err != nil {
		return "", err
	}
	if err := keyringSet(k.Service, k.User, secret); err != nil {
		return "", fmt.Errorf("keyring set: %w", err)
	}
	return secret, nil
}

func (k *Keyring) GetSecret() (string, error) {
	secret, err := keyringGet(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSecret
	}
	if err != nil {
		return "", fmt.Errorf("keyring get: %w", err)
	}
	if err := checkSecret(secret); err != nil {
		return "", err
	}
	return secret, nil
}

func (k *Keyring) DeleteSecret() error {
	return keyringDelete(k.Service, k.User)
}

func newSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// checkSecret rejects values that were not produced by newSecret.
func checkSecret(secret string) error {
	b, err := hex.DecodeString(secret)
	if err != nil {
		return fmt.Errorf("invalid secret format: %w", err)
	}
	if len(b) != secretBytes {
		return fmt.Errorf("invalid secret length: expected %d, got %d", secretBytes, len(b))
	}
	return nil
}
