// Package store persists the small amount of client state that survives
// between runs: the bearer credential, the preferred locale, and the
// ephemeral pending preview id used to resume an unlock after login.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type state struct {
	APIKey           string `json:"apiKey,omitempty"`
	Locale           string `json:"locale,omitempty"`
	PendingPreviewID string `json:"pendingPreviewId,omitempty"`
}

// Store is a single-slot JSON file. Writes are last-write-wins; callers are
// user actions so they are already serialized in practice, the mutex only
// covers concurrent readers inside one process.
type Store struct {
	path string

	mu    sync.Mutex
	state state
}

// DefaultPath resolves the state file under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "guides", "state.json"), nil
}

// Open loads the state file at path, creating parent directories as needed.
// A missing file is an empty state, not an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		// A corrupt state file should not brick the client; start fresh.
		s.state = state{}
	}
	return s, nil
}

func (s *Store) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.APIKey
}

func (s *Store) SetAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.APIKey = key
	return s.save()
}

func (s *Store) ClearAPIKey() error {
	return s.SetAPIKey("")
}

func (s *Store) Locale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Locale
}

func (s *Store) SetLocale(locale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Locale = locale
	return s.save()
}

func (s *Store) PendingPreviewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.PendingPreviewID
}

func (s *Store) SetPendingPreviewID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PendingPreviewID = id
	return s.save()
}

func (s *Store) ClearPendingPreviewID() error {
	return s.SetPendingPreviewID("")
}

// save writes the state atomically. The file holds a credential, so 0600.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
