// Package auth owns the session: the persisted bearer token and the current
// user. It is the single writer of the token file; the API client reads the
// token through the TokenSource interface and nothing else touches it.
package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// tokenFileName is the fixed storage key for the persisted session token.
const tokenFileName = "auth_token.json"

// tokenFile is the on-disk format.
type tokenFile struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// TokenStore persists the bearer token under the config directory so a
// session survives process restarts. All methods are safe for concurrent use.
type TokenStore struct {
	path  string
	mu    sync.RWMutex
	token string
}

// NewTokenStore loads any previously persisted token from dir. A missing or
// unreadable file just starts the store anonymous.
func NewTokenStore(dir string) *TokenStore {
	ts := &TokenStore{path: filepath.Join(dir, tokenFileName)}

	data, err := os.ReadFile(ts.path)
	if err != nil {
		return ts
	}
	var tf tokenFile
	if json.Unmarshal(data, &tf) != nil {
		return ts
	}
	ts.token = tf.AccessToken
	return ts
}

// Token returns the current bearer token, or "" when anonymous. Implements
// api.TokenSource.
func (ts *TokenStore) Token() string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.token
}

// Set stores the token in memory and on disk (0600).
func (ts *TokenStore) Set(token string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.token = token

	data, err := json.MarshalIndent(tokenFile{AccessToken: token, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(ts.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(ts.path, data, 0600)
}

// Clear wipes the in-memory token and removes the file. Clearing an already
// empty store is a no-op.
func (ts *TokenStore) Clear() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.token = ""
	if err := os.Remove(ts.path); err != nil && !os.IsNotExist(err) {
		// Best effort: the in-memory token is gone either way, and the next
		// Set overwrites the file.
		_ = err
	}
}
