package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploywatch/deploywatch/internal/domain"
)

func TestFileRepository_LoadMissingFile(t *testing.T) {
	t.Parallel()

	repo := NewFileRepositoryAt(filepath.Join(t.TempDir(), "accounts.json"))
	accounts, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestFileRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewFileRepositoryAt(filepath.Join(t.TempDir(), "accounts.json"))

	stored := []domain.Account{
		domain.NewAccount(domain.ServiceVercel, "personal"),
		domain.NewAccount(domain.ServiceNetlify, "work"),
	}
	stored[1].Enabled = false

	require.NoError(t, repo.Save(stored))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, stored[0].ID, loaded[0].ID)
	assert.Equal(t, domain.ServiceVercel, loaded[0].Service)
	assert.True(t, loaded[0].Enabled)
	assert.Equal(t, "work", loaded[1].Name)
	assert.False(t, loaded[1].Enabled)
}

func TestFileRepository_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.json")
	repo := NewFileRepositoryAt(path)
	require.NoError(t, repo.Save([]domain.Account{domain.NewAccount(domain.ServiceVercel, "personal")}))

	// Overwrite with garbage and confirm Load surfaces the parse error.
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err := repo.Load()
	assert.Error(t, err)
}
