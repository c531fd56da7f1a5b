// Package apiclient wraps outbound requests to the platform backend:
// auth header injection, request/response logging, envelope unwrapping,
// error normalization, and the 401 refresh-and-retry protocol.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/confiance/confiance-go/apierror"
	"github.com/confiance/confiance-go/routes"
	"github.com/confiance/confiance-go/tokens"
	"github.com/confiance/confiance-go/tokenstore"
)

const (
	defaultTimeout  = 30 * time.Second
	headerSessionID = "X-Session-Id"
)

// Refresher mints a new access token from a refresh token. The session
// service implements it; it is wired in after construction to keep the
// dependency direction explicit.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) error
}

// Navigator receives the redirect commands issued on terminal auth failure.
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) NavigateTo(path string) { f(path) }

// Envelope is the transport envelope every backend response uses. Callers
// work with the unwrapped payload via DecodeData and never see transport
// errors in raw form.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// DecodeData unmarshals the payload into v.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return errors.New("[Envelope.DecodeData] response has no data payload")
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return errors.Wrap(err, "[Envelope.DecodeData] json.Unmarshal")
	}
	return nil
}

type requestOptions struct {
	query     url.Values
	headers   http.Header
	noRefresh bool
}

type RequestOption func(*requestOptions)

// WithQuery attaches query parameters to the request.
func WithQuery(query url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = query
	}
}

// WithHeader sets an additional request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Set(key, value)
	}
}

// WithoutRefresh disables the 401 refresh-and-retry handling for this
// request. The refresh call itself uses it to avoid recursing.
func WithoutRefresh() RequestOption {
	return func(o *requestOptions) {
		o.noRefresh = true
	}
}

type refreshCall struct {
	done chan struct{}
	err  error
}

// Client is the HTTP client for the platform API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      tokenstore.Store
	nav        Navigator
	log        zerolog.Logger

	mu        sync.Mutex
	refresher Refresher
	inflight  *refreshCall
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithNavigator(nav Navigator) Option {
	return func(c *Client) {
		c.nav = nav
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger.With().Str("component", "apiclient").Logger()
	}
}

// New creates a Client for the given API base URL.
func New(baseURL string, store tokenstore.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[apiclient.New] base URL is required")
	}
	if store == nil {
		return nil, errors.New("[apiclient.New] token store is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		log:        zerolog.Nop(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// SetRefresher wires in the session service's refresh operation.
func (c *Client) SetRefresher(refresher Refresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresher = refresher
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do sends a request and unwraps the response envelope. On a 401 it
// performs at most one refresh-and-retry for this request; a terminal auth
// failure clears the session and issues a sign-in redirect before the
// error propagates.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Envelope, error) {
	o := &requestOptions{}
	for _, opt := range opts {
		opt(o)
	}

	env, apiErr := c.send(ctx, method, path, body, o)
	if apiErr == nil {
		return env, nil
	}

	if apiErr.Status != http.StatusUnauthorized || o.noRefresh {
		return nil, apiErr
	}

	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		// Nothing to recover with: tear down and surface the original 401.
		c.store.ClearAll()
		c.redirectToSignIn()
		return nil, apiErr
	}

	if err := c.refresh(ctx, refreshToken); err != nil {
		// The refresher has already cleared local state; the caller
		// observes the refresh error, not the original 401.
		c.redirectToSignIn()
		return nil, err
	}

	// Re-issue the original request exactly once.
	env, apiErr = c.send(ctx, method, path, body, o)
	if apiErr != nil {
		return nil, apiErr
	}
	return env, nil
}

// refresh coalesces concurrent attempts into one in-flight operation so a
// burst of 401s burns a single token rotation.
func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	c.mu.Lock()
	if c.refresher == nil {
		c.mu.Unlock()
		return apierror.New(http.StatusUnauthorized, "", apierror.CodeInvalidToken, "no token refresher configured")
	}

	if c.inflight != nil {
		call := c.inflight
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return apierror.Network(ctx.Err())
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	refresher := c.refresher
	c.mu.Unlock()

	call.err = refresher.Refresh(ctx, refreshToken)
	close(call.done)

	c.mu.Lock()
	c.inflight = nil
	c.mu.Unlock()

	return call.err
}

func (c *Client) redirectToSignIn() {
	c.log.Info().Str("target", routes.SignIn).Msg("session terminated, redirecting to sign-in")
	if c.nav != nil {
		c.nav.NavigateTo(routes.SignIn)
	}
}

// send performs one request attempt and normalizes any failure.
func (c *Client) send(ctx context.Context, method, path string, body any, o *requestOptions) (*Envelope, *apierror.APIError) {
	requestID := uuid.NewString()

	fullURL := c.baseURL + path
	if len(o.query) > 0 {
		fullURL += "?" + o.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, apierror.New(0, "failed to encode request body", apierror.CodeUnknown, err.Error())
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, apierror.New(0, "failed to build request", apierror.CodeUnknown, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	// Attach credentials when usable; an expired token is treated as absent.
	if token := c.store.AccessToken(); token != "" && !tokens.IsExpired(token) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if sessionID := c.store.SessionID(); sessionID != "" {
		req.Header.Set(headerSessionID, sessionID)
	}
	for key, values := range o.headers {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("url", fullURL).
		Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Str("request_id", requestID).Err(err).Msg("network error")
		return nil, apierror.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error().Str("request_id", requestID).Err(err).Msg("error reading response")
		return nil, apierror.Network(err)
	}

	c.log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Str("url", fullURL).
		Msg("api response")

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := apierror.FromBody(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusForbidden && apiErr.Detail.Code == apierror.CodeUnknown {
			apiErr = apierror.Forbidden()
		}
		c.log.Error().
			Str("request_id", requestID).
			Int("status", resp.StatusCode).
			Str("code", apiErr.Detail.Code).
			Msg(apiErr.Message)
		return nil, apiErr
	}

	if len(raw) == 0 {
		return &Envelope{Success: true}, nil
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, apierror.New(resp.StatusCode, "unexpected response shape", apierror.CodeUnknown, err.Error())
	}
	return &env, nil
}
