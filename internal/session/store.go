// ABOUTME: Durable session storage in the XDG config directory
// ABOUTME: One record carrying token, user, and role; sole writer of the file

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/civicfix/civicfix-cli/internal/client"
)

const (
	sessionFile = "session.json"

	// legacyAdminFile is the separate admin slot older builds wrote.
	// Logout removes it so a stale duplicate cannot resurrect a session.
	legacyAdminFile = "admin_session.json"
)

// Record is the persisted session: the bearer token and the user it
// belongs to. Role lives on the user; there is no separate admin slot.
type Record struct {
	Token string      `json:"token"`
	User  client.User `json:"user"`
}

// Store reads and writes the session record on disk
type Store struct {
	configDir string
}

// NewStore creates a session store rooted at the given config directory
func NewStore(configDir string) *Store {
	return &Store{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "civicfix")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "civicfix")
}

func (s *Store) sessionPath() string {
	return filepath.Join(s.configDir, sessionFile)
}

// Load reads the persisted session. A missing or corrupt file yields nil
// without error; the caller simply starts logged out.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.sessionPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil
	}
	if rec.Token == "" {
		return nil, nil
	}
	return &rec, nil
}

// Save writes the session record to disk
func (s *Store) Save(rec Record) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.sessionPath(), data, 0600)
}

// Clear removes every persisted session artifact, the legacy admin slot
// included
func (s *Store) Clear() error {
	var errs []error
	for _, name := range []string{sessionFile, legacyAdminFile} {
		if err := os.Remove(filepath.Join(s.configDir, name)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Token implements client.TokenSource by reading the persisted record
func (s *Store) Token() string {
	rec, err := s.Load()
	if err != nil || rec == nil {
		return ""
	}
	return rec.Token
}

// ClearToken implements client.TokenSource. Dropping the token drops the
// whole record: a user without a credential is not a session.
func (s *Store) ClearToken() {
	_ = s.Clear()
}
