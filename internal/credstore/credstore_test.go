package credstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	assert.False(t, store.Exists("deploywatch.token.abc"))
	_, err := store.Load("deploywatch.token.abc")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save("deploywatch.token.abc", "secret-token"))
	assert.True(t, store.Exists("deploywatch.token.abc"))

	secret, err := store.Load("deploywatch.token.abc")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", secret)

	// Saving again replaces the previous value.
	require.NoError(t, store.Save("deploywatch.token.abc", "rotated"))
	secret, err = store.Load("deploywatch.token.abc")
	require.NoError(t, err)
	assert.Equal(t, "rotated", secret)

	require.NoError(t, store.Delete("deploywatch.token.abc"))
	assert.False(t, store.Exists("deploywatch.token.abc"))

	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete("deploywatch.token.abc"))
}
