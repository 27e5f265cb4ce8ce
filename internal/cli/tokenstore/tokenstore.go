// Package tokenstore keeps CLI access tokens in the OS keyring, one entry per
// server URL.
package tokenstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the keyring service name entries are stored under.
const KeyringService = "lifeclock"

// ErrNoToken means the user has not logged in to that server.
var ErrNoToken = errors.New("not logged in")

type Store interface {
	Get(server string) (string, error)
	Set(server, token string) error
	Delete(server string) error
}

// Keyring is a Store backed by the OS keyring.
type Keyring struct {
	service string
}

func NewKeyring() *Keyring {
	return &Keyring{service: KeyringService}
}

func (k *Keyring) Get(server string) (string, error) {
	token, err := keyring.Get(k.service, server)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return token, nil
}

func (k *Keyring) Set(server, token string) error {
	if err := keyring.Set(k.service, server, token); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}

// Delete removes the entry. A missing entry is not an error.
func (k *Keyring) Delete(server string) error {
	err := keyring.Delete(k.service, server)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete keyring entry: %w", err)
	}
	return nil
}
