package authctx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/confiance/confiance-go/apiclient"
	"github.com/confiance/confiance-go/authctx"
	"github.com/confiance/confiance-go/session"
	"github.com/confiance/confiance-go/tokenstore"
	"github.com/confiance/confiance-go/tokenstore/storefakes"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"userId": float64(1),
		"exp":    exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func newProvider(t *testing.T, baseURL string, store tokenstore.Store) *authctx.Provider {
	t.Helper()
	client, err := apiclient.New(baseURL, store)
	require.NoError(t, err)
	svc, err := session.New(client, store)
	require.NoError(t, err)
	provider, err := authctx.NewProvider(svc, store)
	require.NoError(t, err)
	return provider
}

func TestProviderBootstrap(t *testing.T) {
	t.Run("loading until Init completes", func(t *testing.T) {
		provider := newProvider(t, "http://localhost:1", storefakes.NewFakeStore())
		require.True(t, provider.Snapshot().IsLoading)

		provider.Init()
		require.False(t, provider.Snapshot().IsLoading)
	})

	t.Run("valid stored token loads the profile", func(t *testing.T) {
		store := storefakes.NewFakeStore()
		store.SetAccessToken(signedToken(t, time.Now().Add(time.Hour)))
		store.SetProfile(&tokenstore.Profile{ID: 1, Roles: []string{"ROLE_ADMIN"}})

		provider := newProvider(t, "http://localhost:1", store)
		provider.Init()

		snap := provider.Snapshot()
		require.True(t, snap.IsAuthenticated)
		require.NotNil(t, snap.User)
		require.True(t, provider.IsAdmin())
	})

	t.Run("expired stored token is not authenticated", func(t *testing.T) {
		store := storefakes.NewFakeStore()
		store.SetAccessToken(signedToken(t, time.Now().Add(-time.Hour)))
		store.SetProfile(&tokenstore.Profile{ID: 1, Roles: []string{"ROLE_ADMIN"}})

		provider := newProvider(t, "http://localhost:1", store)
		provider.Init()

		snap := provider.Snapshot()
		require.False(t, snap.IsAuthenticated)
		require.Nil(t, snap.User)
		// No user in memory: every predicate short-circuits to false even
		// though the store still holds a profile.
		require.False(t, provider.IsAdmin())
		require.False(t, provider.HasRole("ROLE_ADMIN"))
	})
}

func TestProviderLogin(t *testing.T) {
	accessToken := signedToken(t, time.Now().Add(time.Hour))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"accessToken":"` + accessToken + `","refreshToken":"r1",` +
			`"user":{"id":1,"email":"a@b.c","roles":["ROLE_USER"],"permissions":["PORTFOLIO_READ"]}}}`))
	}))
	defer server.Close()

	store := storefakes.NewFakeStore()
	provider := newProvider(t, server.URL, store)
	provider.Init()

	var notified int
	cancel := provider.Subscribe(func(snap authctx.Snapshot) { notified++ })
	defer cancel()

	result := provider.Login(context.Background(), "a@b.c", "pw")
	require.True(t, result.Success)

	snap := provider.Snapshot()
	require.True(t, snap.IsAuthenticated)
	require.Equal(t, int64(1), snap.User.ID)
	require.True(t, provider.HasPermission("PORTFOLIO_READ"))
	require.False(t, provider.IsAdmin())
	require.Equal(t, 1, notified)
}

func TestProviderLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	store := storefakes.NewFakeStore()
	store.SetAccessToken(signedToken(t, time.Now().Add(time.Hour)))
	store.SetProfile(&tokenstore.Profile{ID: 1, Roles: []string{"ROLE_USER"}})

	provider := newProvider(t, server.URL, store)
	provider.Init()
	require.True(t, provider.Snapshot().IsAuthenticated)

	provider.Logout(context.Background())

	snap := provider.Snapshot()
	require.False(t, snap.IsAuthenticated)
	require.Nil(t, snap.User)
	require.Empty(t, store.AccessToken())
}

func TestProviderUpdateUser(t *testing.T) {
	store := storefakes.NewFakeStore()
	provider := newProvider(t, "http://localhost:1", store)
	provider.Init()

	var lastSnap authctx.Snapshot
	cancel := provider.Subscribe(func(snap authctx.Snapshot) { lastSnap = snap })
	defer cancel()

	provider.UpdateUser(&tokenstore.Profile{ID: 2, Name: "Jane"})
	require.NotNil(t, lastSnap.User)
	require.Equal(t, "Jane", lastSnap.User.Name)
}
