package tokenstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/confiance/confiance-go/tokenstore"
)

func newStore(t *testing.T, dir, secret string) *tokenstore.FileStore {
	t.Helper()
	store, err := tokenstore.NewFileStore(dir, secret, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store := newStore(t, dir, "")
	store.SetAccessToken("access-1")
	store.SetRefreshToken("refresh-1")
	store.SetSessionID("session-1-1-abc")
	store.SetProfile(&tokenstore.Profile{ID: 1, Email: "a@b.c", Roles: []string{"ROLE_USER"}})
	store.SetTheme("dark")

	// A fresh store over the same directory sees the persisted values.
	reopened := newStore(t, dir, "")
	require.Equal(t, "access-1", reopened.AccessToken())
	require.Equal(t, "refresh-1", reopened.RefreshToken())
	require.Equal(t, "session-1-1-abc", reopened.SessionID())
	require.Equal(t, "dark", reopened.Theme())

	profile := reopened.Profile()
	require.NotNil(t, profile)
	require.Equal(t, []string{"ROLE_USER"}, profile.Roles)
}

func TestFileStoreClearAll(t *testing.T) {
	store := newStore(t, t.TempDir(), "")
	store.SetAccessToken("access")
	store.SetRefreshToken("refresh")
	store.SetSessionID("sid")
	store.SetProfile(&tokenstore.Profile{ID: 1})
	store.SetTheme("light")

	store.ClearAll()

	require.Empty(t, store.AccessToken())
	require.Empty(t, store.RefreshToken())
	require.Empty(t, store.SessionID())
	require.Nil(t, store.Profile())
	// Theme settings are not auth state.
	require.Equal(t, "light", store.Theme())
}

func TestFileStoreIgnoresEmptyWrites(t *testing.T) {
	store := newStore(t, t.TempDir(), "")
	store.SetAccessToken("access")
	store.SetAccessToken("")
	require.Equal(t, "access", store.AccessToken())

	store.SetProfile(&tokenstore.Profile{ID: 1})
	store.SetProfile(nil)
	require.NotNil(t, store.Profile())
}

func TestFileStoreCorruptFileReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), []byte("{not json"), 0o600))

	store := newStore(t, dir, "")
	require.Empty(t, store.AccessToken())
	require.Nil(t, store.Profile())
}

func TestFileStoreEncrypted(t *testing.T) {
	dir := t.TempDir()

	store := newStore(t, dir, "store-secret")
	store.SetAccessToken("access-1")
	store.SetProfile(&tokenstore.Profile{ID: 3, Email: "c@d.e"})

	t.Run("ciphertext on disk", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(dir, "credentials.json"))
		require.NoError(t, err)
		require.NotContains(t, string(raw), "access-1")
	})

	t.Run("same secret reads back", func(t *testing.T) {
		reopened := newStore(t, dir, "store-secret")
		require.Equal(t, "access-1", reopened.AccessToken())
		require.NotNil(t, reopened.Profile())
	})

	t.Run("wrong secret reads as empty", func(t *testing.T) {
		reopened := newStore(t, dir, "wrong-secret")
		require.Empty(t, reopened.AccessToken())
	})
}
