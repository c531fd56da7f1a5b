// Package tokenstore persists the client's credentials: access token,
// refresh token, session id, and the cached user profile used for local
// authorization decisions. It is purely storage; no validation of token
// contents happens here.
package tokenstore

// Profile is the cached user identity written at login/refresh and read by
// the authorization predicates. Roles and permissions are unordered.
type Profile struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Store is the credential storage contract. Setters ignore empty values,
// getters return zero values for anything missing or unreadable: absence of
// credentials is not an error condition.
type Store interface {
	SetAccessToken(token string)
	AccessToken() string
	RemoveAccessToken()

	SetRefreshToken(token string)
	RefreshToken() string
	RemoveRefreshToken()

	SetSessionID(sessionID string)
	SessionID() string
	RemoveSessionID()

	SetProfile(profile *Profile)
	Profile() *Profile
	RemoveProfile()

	SetTheme(settings string)
	Theme() string
	RemoveTheme()

	// ClearAll removes all four auth values together. Theme settings are
	// not auth state and survive a clear.
	ClearAll()
}
