package tokenstore

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	credentialsFile = "credentials.json"

	// File header for the encrypted layout: magic, then the scrypt salt,
	// then the XChaCha20-Poly1305 nonce, then ciphertext.
	sealedMagic = "CONF1"
	saltLength  = 16
)

// record is the on-disk document. Field names match the storage keys the
// platform has always used.
type record struct {
	AccessToken  string   `json:"confiance_access_token,omitempty"`
	RefreshToken string   `json:"confiance_refresh_token,omitempty"`
	SessionID    string   `json:"confiance_session_id,omitempty"`
	Profile      *Profile `json:"confiance_user_data,omitempty"`
	Theme        string   `json:"La-Theme-settings,omitempty"`
}

// FileStore keeps credentials in a single file under a data directory.
// With a secret configured the file is sealed with XChaCha20-Poly1305 under
// an scrypt-derived key; without one it is plain JSON. A file that cannot
// be decrypted or parsed reads as empty.
type FileStore struct {
	mu   sync.RWMutex
	path string
	key  []byte
	salt []byte
	log  zerolog.Logger
	data record
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (or initializes) the credential file in dir. A
// non-empty secret enables encryption at rest.
func NewFileStore(dir, secret string, logger zerolog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("[NewFileStore] data directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] os.MkdirAll")
	}

	fs := &FileStore{
		path: filepath.Join(dir, credentialsFile),
		log:  logger.With().Str("component", "tokenstore").Logger(),
	}

	if secret != "" {
		salt := make([]byte, saltLength)
		if _, err := rand.Read(salt); err != nil {
			return nil, errors.Wrap(err, "[NewFileStore] rand.Read")
		}
		fs.salt = salt
	}

	fs.load(secret)

	if secret != "" && fs.key == nil {
		key, err := deriveKey(secret, fs.salt)
		if err != nil {
			return nil, errors.Wrap(err, "[NewFileStore] deriveKey")
		}
		fs.key = key
	}

	return fs, nil
}

func deriveKey(secret string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(secret), salt, 1<<15, 8, 1, chacha20poly1305.KeySize)
}

// load reads whatever is on disk into memory. Corrupt content is treated as
// an empty store, never surfaced to callers.
func (fs *FileStore) load(secret string) {
	raw, err := os.ReadFile(fs.path)
	if err != nil {
		return
	}

	if bytes.HasPrefix(raw, []byte(sealedMagic)) {
		if secret == "" {
			fs.log.Warn().Msg("credential file is encrypted but no store secret is configured")
			return
		}
		body := raw[len(sealedMagic):]
		if len(body) < saltLength+chacha20poly1305.NonceSizeX {
			fs.log.Warn().Msg("credential file truncated, starting empty")
			return
		}
		salt := body[:saltLength]
		key, err := deriveKey(secret, salt)
		if err != nil {
			return
		}
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return
		}
		nonce := body[saltLength : saltLength+chacha20poly1305.NonceSizeX]
		plaintext, err := aead.Open(nil, nonce, body[saltLength+chacha20poly1305.NonceSizeX:], nil)
		if err != nil {
			fs.log.Warn().Msg("credential file failed to decrypt, starting empty")
			return
		}
		fs.salt = salt
		fs.key = key
		raw = plaintext
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		fs.log.Warn().Err(err).Msg("credential file unreadable, starting empty")
		return
	}
	fs.data = rec
}

// persist writes the in-memory record back to disk. Write failures are
// logged and otherwise swallowed so storage stays a best-effort cache.
func (fs *FileStore) persist() {
	raw, err := json.Marshal(fs.data)
	if err != nil {
		fs.log.Error().Err(err).Msg("marshal credentials")
		return
	}

	if fs.key != nil {
		aead, err := chacha20poly1305.NewX(fs.key)
		if err != nil {
			fs.log.Error().Err(err).Msg("init cipher")
			return
		}
		nonce := make([]byte, chacha20poly1305.NonceSizeX)
		if _, err := rand.Read(nonce); err != nil {
			fs.log.Error().Err(err).Msg("generate nonce")
			return
		}
		sealed := aead.Seal(nil, nonce, raw, nil)
		out := make([]byte, 0, len(sealedMagic)+saltLength+len(nonce)+len(sealed))
		out = append(out, sealedMagic...)
		out = append(out, fs.salt...)
		out = append(out, nonce...)
		out = append(out, sealed...)
		raw = out
	}

	if err := os.WriteFile(fs.path, raw, 0o600); err != nil {
		fs.log.Error().Err(err).Msg("write credential file")
	}
}

func (fs *FileStore) SetAccessToken(token string) {
	if token == "" {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.AccessToken = token
	fs.persist()
}

func (fs *FileStore) AccessToken() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.data.AccessToken
}

func (fs *FileStore) RemoveAccessToken() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.AccessToken = ""
	fs.persist()
}

func (fs *FileStore) SetRefreshToken(token string) {
	if token == "" {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.RefreshToken = token
	fs.persist()
}

func (fs *FileStore) RefreshToken() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.data.RefreshToken
}

func (fs *FileStore) RemoveRefreshToken() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.RefreshToken = ""
	fs.persist()
}

func (fs *FileStore) SetSessionID(sessionID string) {
	if sessionID == "" {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.SessionID = sessionID
	fs.persist()
}

func (fs *FileStore) SessionID() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.data.SessionID
}

func (fs *FileStore) RemoveSessionID() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.SessionID = ""
	fs.persist()
}

func (fs *FileStore) SetProfile(profile *Profile) {
	if profile == nil {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.Profile = profile
	fs.persist()
}

func (fs *FileStore) Profile() *Profile {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.data.Profile
}

func (fs *FileStore) RemoveProfile() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.Profile = nil
	fs.persist()
}

func (fs *FileStore) SetTheme(settings string) {
	if settings == "" {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.Theme = settings
	fs.persist()
}

func (fs *FileStore) Theme() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.data.Theme
}

func (fs *FileStore) RemoveTheme() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.Theme = ""
	fs.persist()
}

func (fs *FileStore) ClearAll() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data.AccessToken = ""
	fs.data.RefreshToken = ""
	fs.data.SessionID = ""
	fs.data.Profile = nil
	fs.persist()
}
