package authz_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/confiance/confiance-go/authz"
	"github.com/confiance/confiance-go/tokenstore"
	"github.com/confiance/confiance-go/tokenstore/storefakes"
)

func storeWithProfile(t *testing.T, profile *tokenstore.Profile) *storefakes.FakeStore {
	t.Helper()
	store := storefakes.NewFakeStore()
	if profile != nil {
		store.SetProfile(profile)
	}
	return store
}

func TestCheckerRoles(t *testing.T) {
	store := storeWithProfile(t, &tokenstore.Profile{
		ID:    1,
		Roles: []string{authz.RoleUser, authz.RoleAdmin},
	})
	checker := authz.NewChecker(store)

	require.True(t, checker.HasRole(authz.RoleUser))
	require.True(t, checker.HasRole(authz.RoleAdmin))
	require.False(t, checker.HasRole(authz.RoleSuperAdmin))

	require.True(t, checker.IsAdmin())
	require.False(t, checker.IsSuperAdmin())
}

func TestCheckerSuperAdmin(t *testing.T) {
	store := storeWithProfile(t, &tokenstore.Profile{Roles: []string{authz.RoleSuperAdmin}})
	checker := authz.NewChecker(store)

	require.True(t, checker.IsAdmin())
	require.True(t, checker.IsSuperAdmin())
}

func TestCheckerPermissions(t *testing.T) {
	store := storeWithProfile(t, &tokenstore.Profile{Permissions: []string{"A", "B"}})
	checker := authz.NewChecker(store)

	t.Run("membership", func(t *testing.T) {
		require.True(t, checker.HasPermission("A"))
		require.False(t, checker.HasPermission("C"))
	})

	t.Run("any of", func(t *testing.T) {
		require.True(t, checker.HasAnyPermission([]string{"C", "B"}))
		require.False(t, checker.HasAnyPermission([]string{"C", "D"}))
	})

	t.Run("all of", func(t *testing.T) {
		require.True(t, checker.HasAllPermissions([]string{"A", "B"}))
		require.False(t, checker.HasAllPermissions([]string{"A", "C"}))
	})

	t.Run("empty requirement semantics", func(t *testing.T) {
		// The primitive is strict: an empty any-of list is never satisfied.
		require.False(t, checker.HasAnyPermission(nil))
		require.False(t, checker.HasAnyPermission([]string{}))
		// All-of over nothing is vacuously true.
		require.True(t, checker.HasAllPermissions(nil))
	})
}

func TestCheckerWithoutProfile(t *testing.T) {
	checker := authz.NewChecker(storefakes.NewFakeStore())

	require.False(t, checker.HasRole(authz.RoleUser))
	require.False(t, checker.HasPermission("A"))
	require.False(t, checker.HasAnyPermission([]string{"A"}))
	require.False(t, checker.HasAllPermissions(nil))
	require.False(t, checker.IsAdmin())
	require.False(t, checker.IsSuperAdmin())
}

func TestCheckerIsAuthenticated(t *testing.T) {
	signed := func(exp time.Time) string {
		raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
			"userId": float64(1),
			"exp":    exp.Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return raw
	}

	t.Run("valid token", func(t *testing.T) {
		store := storefakes.NewFakeStore()
		store.SetAccessToken(signed(time.Now().Add(time.Hour)))
		require.True(t, authz.NewChecker(store).IsAuthenticated())
	})

	t.Run("expired token counts as absent", func(t *testing.T) {
		store := storefakes.NewFakeStore()
		store.SetAccessToken(signed(time.Now().Add(-time.Hour)))
		require.False(t, authz.NewChecker(store).IsAuthenticated())
	})

	t.Run("no token", func(t *testing.T) {
		require.False(t, authz.NewChecker(storefakes.NewFakeStore()).IsAuthenticated())
	})

	t.Run("cleared state is never authenticated", func(t *testing.T) {
		store := storefakes.NewFakeStore()
		store.SetAccessToken(signed(time.Now().Add(time.Hour)))
		store.SetProfile(&tokenstore.Profile{ID: 1})
		store.ClearAll()
		require.False(t, authz.NewChecker(store).IsAuthenticated())
	})
}
