package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// TokenStore persists the session token between client lifetimes.
type TokenStore interface {
	// Load returns the stored token. ok is false when no usable token
	// exists (missing or expired).
	Load() (token string, ok bool, err error)
	Save(token string, expiresAt time.Time) error
	Clear() error
}

// FileTokenStore keeps the token in a JSON file with an expiry timestamp,
// the CLI analog of a browser cookie.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

type storedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *FileTokenStore) Load() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read token file: %w", err)
	}

	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		// An unreadable token file is treated as logged-out.
		_ = s.Clear()
		return "", false, nil
	}

	if stored.Token == "" || time.Now().After(stored.ExpiresAt) {
		_ = s.Clear()
		return "", false, nil
	}
	return stored.Token, true, nil
}

func (s *FileTokenStore) Save(token string, expiresAt time.Time) error {
	data, err := json.Marshal(storedToken{Token: token, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
