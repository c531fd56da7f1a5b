package guard

import "github.com/confiance/confiance-go/authctx"

// RoleGate reports whether content gated on any of the given roles should
// be shown. No user or no roles means hidden.
func RoleGate(p *authctx.Provider, roles []string) bool {
	if p.Snapshot().User == nil || len(roles) == 0 {
		return false
	}
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// PermissionGate reports whether permission-gated content should be shown.
// A single permission takes precedence over the list; with neither set the
// gate stays closed.
func PermissionGate(p *authctx.Provider, permission string, permissions []string, requireAll bool) bool {
	if permission != "" {
		return p.HasPermission(permission)
	}
	if len(permissions) > 0 {
		if requireAll {
			return p.HasAllPermissions(permissions)
		}
		return p.HasAnyPermission(permissions)
	}
	return false
}
