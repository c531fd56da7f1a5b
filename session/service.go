// Package session orchestrates login, logout, and token refresh against the
// backend and keeps the token store in sync with the outcome.
package session

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/confiance/confiance-go/apiclient"
	"github.com/confiance/confiance-go/apierror"
	"github.com/confiance/confiance-go/tokens"
	"github.com/confiance/confiance-go/tokenstore"
)

const sessionRandomLength = 13

// LoginData is the payload of a successful login or refresh.
type LoginData struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         *tokenstore.Profile `json:"user,omitempty"`
}

// LoginResult is what UI code branches on: Success plus a display message.
// Business failures (bad credentials) are results, not errors.
type LoginResult struct {
	Success bool
	Message string
	Data    *LoginData
}

// Service is the auth session service. It is the only mutator of the token
// store in normal operation.
type Service struct {
	client  *apiclient.Client
	store   tokenstore.Store
	log     zerolog.Logger
	nowTime func() time.Time
}

var _ apiclient.Refresher = (*Service)(nil)

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = logger.With().Str("component", "session").Logger()
	}
}

// New creates the session service and registers it as the client's token
// refresher.
func New(client *apiclient.Client, store tokenstore.Store, options ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("[session.New] api client is required")
	}
	if store == nil {
		return nil, errors.New("[session.New] token store is required")
	}

	service := &Service{
		client:  client,
		store:   store,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	client.SetRefresher(service)
	return service, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates against the backend. On success it persists both
// tokens, the returned profile, and a freshly minted session id. Rejected
// credentials come back as Success=false; only transport-level failures
// return an error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	env, err := s.client.Post(ctx, apiclient.EndpointAuthLogin, loginRequest{Email: email, Password: password})
	if err != nil {
		if apierror.IsNetwork(err) {
			return nil, errors.Wrap(err, "[Service.Login] post")
		}
		// A rejected login may surface a non-APIError, e.g. when a stale
		// refresh token triggers a refresh that fails before normalization.
		message := err.Error()
		if apiErr, ok := apierror.AsAPIError(err); ok {
			message = apiErr.Message
		}
		s.log.Info().Str("email", email).Msg("login rejected")
		return &LoginResult{Success: false, Message: message}, nil
	}

	if !env.Success {
		return &LoginResult{Success: false, Message: env.Message}, nil
	}

	var data LoginData
	if err := env.DecodeData(&data); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] decode data")
	}

	s.store.SetAccessToken(data.AccessToken)
	s.store.SetRefreshToken(data.RefreshToken)

	if data.User != nil {
		s.store.SetProfile(data.User)
		s.store.SetSessionID(s.generateSessionID(data.User.ID))
	}

	s.log.Info().Str("email", email).Msg("login succeeded")
	return &LoginResult{Success: true, Data: &data}, nil
}

// Logout tells the backend to end the session and clears local state
// unconditionally. A failed backend call is logged and swallowed; logout is
// always locally effective.
func (s *Service) Logout(ctx context.Context) {
	sessionID := s.store.SessionID()

	opts := []apiclient.RequestOption{}
	if sessionID != "" {
		opts = append(opts, apiclient.WithHeader("X-Session-Id", sessionID))
	}
	_, err := s.client.Post(ctx, apiclient.EndpointAuthLogout, nil, opts...)

	s.store.ClearAll()

	if err != nil {
		s.log.Warn().Err(err).Msg("backend logout failed, local session cleared anyway")
		return
	}
	s.log.Info().Msg("logged out")
}

// Refresh exchanges a refresh token for new credentials. Any failure clears
// all local session state before propagating: a failed refresh never leaves
// stale credentials behind.
func (s *Service) Refresh(ctx context.Context, refreshToken string) error {
	env, err := s.client.Post(ctx, apiclient.EndpointAuthRefresh, refreshRequest{RefreshToken: refreshToken}, apiclient.WithoutRefresh())
	if err != nil {
		s.store.ClearAll()
		return errors.Wrap(err, "[Service.Refresh] post")
	}

	if !env.Success {
		s.store.ClearAll()
		return apierror.New(http.StatusUnauthorized, env.Message, apierror.CodeRefreshTokenExpired, "")
	}

	var data LoginData
	if err := env.DecodeData(&data); err != nil {
		s.store.ClearAll()
		return errors.Wrap(err, "[Service.Refresh] decode data")
	}

	s.store.SetAccessToken(data.AccessToken)
	s.store.SetRefreshToken(data.RefreshToken)
	if data.User != nil {
		s.store.SetProfile(data.User)
	}

	s.log.Debug().Msg("token refreshed")
	return nil
}

// IsAuthenticated reports whether a non-expired access token is stored.
func (s *Service) IsAuthenticated() bool {
	token := s.store.AccessToken()
	return token != "" && !tokens.IsExpired(token)
}

// CurrentUser returns the stored profile, or nil.
func (s *Service) CurrentUser() *tokenstore.Profile {
	return s.store.Profile()
}

// generateSessionID mints the client-side session correlator:
// session-{userId}-{epochMillis}-{13 base36 chars}.
func (s *Service) generateSessionID(userID int64) string {
	return fmt.Sprintf("session-%d-%d-%s", userID, s.nowTime().UnixMilli(), randomBase36(sessionRandomLength))
}

func randomBase36(length int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand failing means the platform is broken; fall back
			// to a fixed character rather than panicking mid-login.
			out[i] = '0'
			continue
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}
