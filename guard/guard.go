// Package guard makes per-navigation allow/deny/redirect decisions from the
// auth state. Evaluation order per guard, first match wins: loading, not
// authenticated, requirement unmet, allow.
package guard

import (
	"github.com/confiance/confiance-go/authctx"
	"github.com/confiance/confiance-go/routes"
)

type Kind int

const (
	// Loading means no decision yet; render an interstitial.
	Loading Kind = iota
	// Allow renders the guarded content.
	Allow
	// Redirect sends the user to Target; From carries the attempted
	// location so a post-login redirect can return there.
	Redirect
)

type Decision struct {
	Kind   Kind
	Target string
	From   string
}

// Requirement is the authorization condition a guard variant evaluates once
// the user is known to be authenticated.
type Requirement func(p *authctx.Provider) bool

// Evaluate runs the guard state machine for a navigation to location.
// A nil requirement admits any authenticated user.
func Evaluate(p *authctx.Provider, location string, requirement Requirement) Decision {
	snap := p.Snapshot()

	if snap.IsLoading {
		return Decision{Kind: Loading}
	}
	if !snap.IsAuthenticated {
		return Decision{Kind: Redirect, Target: routes.SignIn, From: location}
	}
	if requirement != nil && !requirement(p) {
		return Decision{Kind: Redirect, Target: routes.Forbidden}
	}
	return Decision{Kind: Allow}
}

// Protected admits any authenticated user.
func Protected(p *authctx.Provider, location string) Decision {
	return Evaluate(p, location, nil)
}

// Roles requires any of the given roles.
func Roles(roles ...string) Requirement {
	return func(p *authctx.Provider) bool {
		for _, role := range roles {
			if p.HasRole(role) {
				return true
			}
		}
		return false
	}
}

// Permissions requires the given permissions, any-of by default or all-of
// with requireAll. A zero-length requirement is automatically satisfied;
// this is deliberately different from HasAnyPermission's empty-list
// semantics, which answers false.
func Permissions(permissions []string, requireAll bool) Requirement {
	return func(p *authctx.Provider) bool {
		switch {
		case len(permissions) == 0:
			return true
		case len(permissions) == 1:
			return p.HasPermission(permissions[0])
		case requireAll:
			return p.HasAllPermissions(permissions)
		default:
			return p.HasAnyPermission(permissions)
		}
	}
}

// Admin requires ROLE_ADMIN or ROLE_SUPER_ADMIN.
func Admin() Requirement {
	return func(p *authctx.Provider) bool {
		return p.IsAdmin()
	}
}

// SuperAdmin requires ROLE_SUPER_ADMIN.
func SuperAdmin() Requirement {
	return func(p *authctx.Provider) bool {
		return p.IsSuperAdmin()
	}
}

// PublicOnly inverts the authentication step: authenticated users are sent
// to the default dashboard instead of public-only content such as sign-in.
func PublicOnly(p *authctx.Provider) Decision {
	snap := p.Snapshot()

	if snap.IsLoading {
		return Decision{Kind: Loading}
	}
	if snap.IsAuthenticated {
		return Decision{Kind: Redirect, Target: routes.DefaultDashboard}
	}
	return Decision{Kind: Allow}
}
