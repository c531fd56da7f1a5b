// Package authctx owns the process-wide session state the UI reads. It is
// an explicitly constructed, injected object with a defined initialization
// lifecycle, not an ambient global.
package authctx

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/confiance/confiance-go/authz"
	"github.com/confiance/confiance-go/session"
	"github.com/confiance/confiance-go/tokenstore"
)

// Snapshot is a point-in-time read of the auth state. IsLoading is true
// only before the one-time bootstrap completes.
type Snapshot struct {
	User            *tokenstore.Profile
	IsAuthenticated bool
	IsLoading       bool
}

// Provider exposes the session and the authorization predicates to the UI
// tree and notifies subscribers on every state change.
type Provider struct {
	service *session.Service
	store   tokenstore.Store
	checker *authz.Checker

	mu            sync.RWMutex
	user          *tokenstore.Profile
	authenticated bool
	loading       bool
	nextListener  int
	listeners     map[int]func(Snapshot)
}

func NewProvider(service *session.Service, store tokenstore.Store) (*Provider, error) {
	if service == nil {
		return nil, errors.New("[NewProvider] session service is required")
	}
	if store == nil {
		return nil, errors.New("[NewProvider] token store is required")
	}
	return &Provider{
		service:   service,
		store:     store,
		checker:   authz.NewChecker(store),
		loading:   true,
		listeners: map[int]func(Snapshot){},
	}, nil
}

// Init runs the one-time bootstrap: evaluate authentication synchronously
// and, when authenticated, load the stored profile into memory.
func (p *Provider) Init() {
	authenticated := p.checker.IsAuthenticated()

	p.mu.Lock()
	p.authenticated = authenticated
	if authenticated {
		p.user = p.store.Profile()
	}
	p.loading = false
	p.mu.Unlock()

	p.notify()
}

// Snapshot returns the current state.
func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{User: p.user, IsAuthenticated: p.authenticated, IsLoading: p.loading}
}

// Subscribe registers a listener for state changes and returns its cancel
// function. Listeners are called synchronously with the new snapshot.
func (p *Provider) Subscribe(fn func(Snapshot)) func() {
	p.mu.Lock()
	id := p.nextListener
	p.nextListener++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) notify() {
	snap := p.Snapshot()
	p.mu.RLock()
	fns := make([]func(Snapshot), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// Login runs the session login and folds any failure into the result; UI
// code only ever branches on Success and Message.
func (p *Provider) Login(ctx context.Context, email, password string) *session.LoginResult {
	result, err := p.service.Login(ctx, email, password)
	if err != nil {
		return &session.LoginResult{Success: false, Message: err.Error()}
	}

	if result.Success && result.Data != nil {
		p.mu.Lock()
		p.user = result.Data.User
		p.authenticated = true
		p.mu.Unlock()
		p.notify()
	}

	return result
}

// Logout ends the session server-side (best effort) and resets local state.
func (p *Provider) Logout(ctx context.Context) {
	p.service.Logout(ctx)

	p.mu.Lock()
	p.user = nil
	p.authenticated = false
	p.mu.Unlock()

	p.notify()
}

// UpdateUser replaces the in-memory profile after an explicit profile
// update call.
func (p *Provider) UpdateUser(user *tokenstore.Profile) {
	p.mu.Lock()
	p.user = user
	p.mu.Unlock()
	p.notify()
}

func (p *Provider) hasUser() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user != nil
}

// The predicates mirror authz but additionally short-circuit to false when
// no user is loaded in memory.

func (p *Provider) HasRole(role string) bool {
	return p.hasUser() && p.checker.HasRole(role)
}

func (p *Provider) HasPermission(permission string) bool {
	return p.hasUser() && p.checker.HasPermission(permission)
}

func (p *Provider) HasAnyPermission(permissions []string) bool {
	return p.hasUser() && p.checker.HasAnyPermission(permissions)
}

func (p *Provider) HasAllPermissions(permissions []string) bool {
	return p.hasUser() && p.checker.HasAllPermissions(permissions)
}

func (p *Provider) IsAdmin() bool {
	return p.hasUser() && p.checker.IsAdmin()
}

func (p *Provider) IsSuperAdmin() bool {
	return p.hasUser() && p.checker.IsSuperAdmin()
}
