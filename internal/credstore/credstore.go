// Package credstore abstracts secure storage of provider API tokens.
package credstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

// keyringService namespaces deploywatch entries in the OS keychain.
const keyringService = "deploywatch"

// ErrNotFound is returned when no secret exists for a key.
var ErrNotFound = errors.New("credential not found")

// Store holds provider tokens keyed by an opaque per-account string.
// Implementations must never log secret values.
type Store interface {
	// Save stores the secret under key, replacing any previous value.
	Save(key, secret string) error

	// Load retrieves the secret for key, or ErrNotFound.
	Load(key string) (string, error)

	// Delete removes the secret for key. Deleting a missing key is not
	// an error.
	Delete(key string) error

	// Exists reports whether a secret is stored under key.
	Exists(key string) bool
}

// KeyringStore stores secrets in the OS keychain.
type KeyringStore struct{}

// NewKeyringStore creates a Store backed by the OS keychain.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// Save stores the secret under key.
func (*KeyringStore) Save(key, secret string) error {
	if err := keyring.Set(keyringService, key, secret); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Load retrieves the secret for key.
func (*KeyringStore) Load(key string) (string, error) {
	secret, err := keyring.Get(keyringService, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	return secret, nil
}

// Delete removes the secret for key.
func (*KeyringStore) Delete(key string) error {
	err := keyring.Delete(keyringService, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// Exists reports whether a secret is stored under key.
func (*KeyringStore) Exists(key string) bool {
	_, err := keyring.Get(keyringService, key)
	return err == nil
}

// MemoryStore is an in-memory Store for tests and for environments
// without a keychain. Secrets do not survive the process.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[string]string)}
}

// Save stores the secret under key.
func (s *MemoryStore) Save(key, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[key] = secret
	return nil
}

// Load retrieves the secret for key.
func (s *MemoryStore) Load(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.secrets[key]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

// Delete removes the secret for key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, key)
	return nil
}

// Exists reports whether a secret is stored under key.
func (s *MemoryStore) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.secrets[key]
	return ok
}
