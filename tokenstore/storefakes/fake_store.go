package storefakes

import (
	"sync"

	"github.com/confiance/confiance-go/tokenstore"
)

var _ tokenstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory Store for tests. ClearAllCallCount records how
// many times the session was torn down.
type FakeStore struct {
	lock sync.RWMutex

	accessToken  string
	refreshToken string
	sessionID    string
	profile      *tokenstore.Profile
	theme        string

	ClearAllCallCount int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) SetAccessToken(token string) {
	if token == "" {
		return
	}
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.accessToken = token
}

func (fs *FakeStore) AccessToken() string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.accessToken
}

func (fs *FakeStore) RemoveAccessToken() {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.accessToken = ""
}

func (fs *FakeStore) SetRefreshToken(token string) {
	if token == "" {
		return
	}
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.refreshToken = token
}

func (fs *FakeStore) RefreshToken() string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.refreshToken
}

func (fs *FakeStore) RemoveRefreshToken() {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.refreshToken = ""
}

func (fs *FakeStore) SetSessionID(sessionID string) {
	if sessionID == "" {
		return
	}
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.sessionID = sessionID
}

func (fs *FakeStore) SessionID() string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.sessionID
}

func (fs *FakeStore) RemoveSessionID() {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.sessionID = ""
}

func (fs *FakeStore) SetProfile(profile *tokenstore.Profile) {
	if profile == nil {
		return
	}
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.profile = profile
}

func (fs *FakeStore) Profile() *tokenstore.Profile {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.profile
}

func (fs *FakeStore) RemoveProfile() {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.profile = nil
}

func (fs *FakeStore) SetTheme(settings string) {
	if settings == "" {
		return
	}
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.theme = settings
}

func (fs *FakeStore) Theme() string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.theme
}

func (fs *FakeStore) RemoveTheme() {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.theme = ""
}

func (fs *FakeStore) ClearAll() {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.accessToken = ""
	fs.refreshToken = ""
	fs.sessionID = ""
	fs.profile = nil
	fs.ClearAllCallCount++
}
