// Package authz answers role and permission queries against the stored
// user profile. Decisions are made on the cached profile, not on
// live-decoded token claims, so they are synchronous and I/O free.
package authz

import (
	"github.com/confiance/confiance-go/tokens"
	"github.com/confiance/confiance-go/tokenstore"
)

// Roles known to the platform.
const (
	RoleUser       = "ROLE_USER"
	RoleAdmin      = "ROLE_ADMIN"
	RoleSuperAdmin = "ROLE_SUPER_ADMIN"
)

// Permissions known to the platform.
const (
	PermUserRead         = "USER_READ"
	PermUserWrite        = "USER_WRITE"
	PermUserDelete       = "USER_DELETE"
	PermInvestmentRead   = "INVESTMENT_READ"
	PermInvestmentWrite  = "INVESTMENT_WRITE"
	PermInvestmentDelete = "INVESTMENT_DELETE"
	PermTransactionRead  = "TRANSACTION_READ"
	PermTransactionWrite = "TRANSACTION_WRITE"
	PermPortfolioRead    = "PORTFOLIO_READ"
	PermPortfolioWrite   = "PORTFOLIO_WRITE"
	PermAdminPanelAccess = "ADMIN_PANEL_ACCESS"
	PermPermissionGrant  = "PERMISSION_GRANT"
	PermPermissionRevoke = "PERMISSION_REVOKE"
	PermPermissionView   = "PERMISSION_VIEW"
)

// Checker evaluates authorization predicates. All predicates answer false
// when no profile is stored; a missing identity is not an error.
type Checker struct {
	store tokenstore.Store
}

func NewChecker(store tokenstore.Store) *Checker {
	return &Checker{store: store}
}

// IsAuthenticated reports whether a non-expired access token is stored.
// Expired tokens count as absent.
func (c *Checker) IsAuthenticated() bool {
	token := c.store.AccessToken()
	return token != "" && !tokens.IsExpired(token)
}

func (c *Checker) HasRole(role string) bool {
	profile := c.store.Profile()
	if profile == nil {
		return false
	}
	for _, r := range profile.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c *Checker) HasPermission(permission string) bool {
	profile := c.store.Profile()
	if profile == nil {
		return false
	}
	for _, p := range profile.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission is true when at least one of permissions is held. An
// empty requirement yields false; callers that mean "no requirement" must
// say so explicitly (see the route guards).
func (c *Checker) HasAnyPermission(permissions []string) bool {
	for _, p := range permissions {
		if c.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions is true when every listed permission is held. An empty
// requirement is vacuously true.
func (c *Checker) HasAllPermissions(permissions []string) bool {
	if c.store.Profile() == nil {
		return false
	}
	for _, p := range permissions {
		if !c.HasPermission(p) {
			return false
		}
	}
	return true
}

func (c *Checker) IsAdmin() bool {
	return c.HasRole(RoleAdmin) || c.HasRole(RoleSuperAdmin)
}

func (c *Checker) IsSuperAdmin() bool {
	return c.HasRole(RoleSuperAdmin)
}
