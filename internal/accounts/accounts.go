// Package accounts persists the configured account list between runs.
// Tokens are never stored here; they live in the credential store.
package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"

	"github.com/deploywatch/deploywatch/internal/domain"
)

// defaultRelPath is the accounts file location under the XDG config home.
const defaultRelPath = "deploywatch/accounts.json"

// Repository reads and writes the ordered account list as an opaque blob.
type Repository interface {
	// Load returns the stored accounts. A missing file yields an empty
	// list, not an error.
	Load() ([]domain.Account, error)

	// Save replaces the stored accounts.
	Save(accounts []domain.Account) error
}

// FileRepository stores the account list as JSON on disk.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository at the default XDG config path.
func NewFileRepository() (*FileRepository, error) {
	path, err := xdg.ConfigFile(defaultRelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts path: %w", err)
	}
	return &FileRepository{path: path}, nil
}

// NewFileRepositoryAt creates a repository at an explicit path.
func NewFileRepositoryAt(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load returns the stored accounts.
func (r *FileRepository) Load() ([]domain.Account, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Account{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}

	var accounts []domain.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file: %w", err)
	}
	return accounts, nil
}

// Save replaces the stored accounts. The file is written with owner-only
// permissions since account names may identify the user.
func (r *FileRepository) Save(accounts []domain.Account) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write accounts file: %w", err)
	}
	return nil
}
