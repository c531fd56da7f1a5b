// Package tokens decodes access-token claims and evaluates expiry. The
// client never verifies signatures; the backend is the authority and the
// claims are only used for local, advisory decisions.
package tokens

import (
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/confiance/confiance-go/internal/utils"
	"github.com/confiance/confiance-go/tokenstore"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Logger receives decode diagnostics. It defaults to a no-op logger and is
// wired at startup alongside the rest of the logging configuration.
var Logger = zerolog.Nop()

// Claims is the decoded payload of an access token.
type Claims struct {
	UserID      int64
	Email       string
	Roles       []string
	Permissions []string
	SessionID   string
	ExpiresAt   time.Time // zero when the token carries no exp claim
}

// Decode parses a bearer token's payload without verifying its signature.
// Malformed input yields (nil, false); it is never an error to the caller.
func Decode(raw string) (*Claims, bool) {
	if raw == "" {
		return nil, false
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		Logger.Debug().Err(err).Msg("error decoding token")
		return nil, false
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		Logger.Debug().Msg("error extracting claims from token")
		return nil, false
	}

	claims := &Claims{}

	// The backend writes userId; sub is the fallback.
	if id, ok := claimUserID(mapClaims["userId"]); ok {
		claims.UserID = id
	} else if id, ok := claimUserID(mapClaims["sub"]); ok {
		claims.UserID = id
	}

	claims.Email, _ = mapClaims["email"].(string)
	claims.SessionID, _ = mapClaims["sessionId"].(string)

	if roles, ok := mapClaims["roles"].([]any); ok {
		claims.Roles = utils.ToStringSlice(roles)
	}
	if permissions, ok := mapClaims["permissions"].([]any); ok {
		claims.Permissions = utils.ToStringSlice(permissions)
	}

	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, true
}

func claimUserID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		return int64(id), true
	case string:
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// IsExpired reports whether raw can no longer authorize requests. Absent,
// undecodable, and exp-less tokens are all treated as expired.
func IsExpired(raw string) bool {
	claims, ok := Decode(raw)
	if !ok {
		return true
	}
	if claims.ExpiresAt.IsZero() {
		return true
	}
	return !claims.ExpiresAt.After(NowTimeFunc())
}

// Profile maps decoded claims onto the stored profile shape. Missing role
// and permission claims default to empty sets.
func (c *Claims) Profile() *tokenstore.Profile {
	roles := c.Roles
	if roles == nil {
		roles = []string{}
	}
	permissions := c.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return &tokenstore.Profile{
		ID:          c.UserID,
		Email:       c.Email,
		Roles:       roles,
		Permissions: permissions,
	}
}
