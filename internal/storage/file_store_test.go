package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "credential.json")
	store, err := NewFileStore(path, "")
	require.NoError(t, err)

	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, store.Save("header.payload.signature"))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "header.payload.signature", loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"authToken"`)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credential.json")
	first, err := NewFileStore(path, "")
	require.NoError(t, err)
	require.NoError(t, first.Save("token-1"))

	second, err := NewFileStore(path, "")
	require.NoError(t, err)
	loaded, err := second.Load()
	require.NoError(t, err)
	require.Equal(t, "token-1", loaded)
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(filepath.Join(t.TempDir(), "credential.json"), "")
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Save("token"))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestFileStoreSealing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credential.json")

	t.Run("sealed value never hits disk in clear", func(t *testing.T) {
		store, err := NewFileStore(path, "local-secret")
		require.NoError(t, err)
		require.NoError(t, store.Save("very.secret.token"))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		require.False(t, strings.Contains(string(raw), "very.secret.token"))
		require.Contains(t, string(raw), sealedPrefix)

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "very.secret.token", loaded)
	})

	t.Run("wrong key cannot open", func(t *testing.T) {
		store, err := NewFileStore(path, "other-secret")
		require.NoError(t, err)

		_, err = store.Load()
		require.Error(t, err)
	})

	t.Run("clear replaces an unreadable slot", func(t *testing.T) {
		store, err := NewFileStore(path, "")
		require.NoError(t, err)

		_, err = store.Load()
		require.Error(t, err)
		require.NoError(t, store.Clear())
		_, err = store.Load()
		require.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestFileStoreRejectsEmptyCredential(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(filepath.Join(t.TempDir(), "credential.json"), "")
	require.NoError(t, err)
	require.Error(t, store.Save("  "))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, store.Save("abc"))
	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "abc", loaded)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoCredential)
}
