// internal/token/store.go
package token

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileName is the fixed key the bearer token is stored under.
const fileName = "token"

// Store is a durable single-slot store for the bearer token.
// It does not enforce expiry; a stale token simply fails
// verification on the next use.
type Store struct {
	path string
}

// NewStore creates a token store at path. An empty path selects the
// default slot under the user config dir.
func NewStore(path string) (*Store, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		path = filepath.Join(dir, "fxpulse", fileName)
	}
	return &Store{path: path}, nil
}

// Get returns the stored token, or false when no token is held.
func (s *Store) Get() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Set persists the token, replacing any previous value.
func (s *Store) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}
