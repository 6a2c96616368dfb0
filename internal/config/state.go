package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// State is the persisted local state: the auth token and the active
// provider/model selection. These are the only process-wide mutable values;
// every reader and writer goes through a StateStore rather than ambient
// lookups.
type State struct {
	Token      string `json:"token,omitempty"`
	ProviderID int    `json:"provider_id,omitempty"`
	Model      string `json:"model,omitempty"`
}

// StateStore is the single read/write interface for persisted state
type StateStore interface {
	Load() (State, error)
	Save(State) error
}

// FileStateStore persists state as JSON in the config directory
type FileStateStore struct {
	path string
	mu   sync.Mutex
}

// NewStateStore creates a store backed by state.json in the given directory
func NewStateStore(dir string) *FileStateStore {
	return &FileStateStore{path: filepath.Join(dir, "state.json")}
}

// DefaultStateStore creates a store in the default config directory,
// creating the directory if needed.
func DefaultStateStore() (*FileStateStore, error) {
	dir, err := EnsureConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStateStore(dir), nil
}

// Load reads the persisted state. A missing file yields zero state.
func (s *FileStateStore) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st State
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("failed to parse state file: %w", err)
	}

	return st, nil
}

// Save writes the full state. Last write wins; writes happen only on
// explicit user action (login, provider selection).
func (s *FileStateStore) Save(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// 0o600: contains the auth token
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ClearToken removes the stored auth token, keeping the provider selection.
// Called on 401 responses.
func ClearToken(store StateStore) error {
	st, err := store.Load()
	if err != nil {
		return err
	}
	if st.Token == "" {
		return nil
	}
	st.Token = ""
	return store.Save(st)
}

// SetSelection persists the provider/model selection, keeping the token
func SetSelection(store StateStore, providerID int, model string) error {
	st, err := store.Load()
	if err != nil {
		return err
	}
	st.ProviderID = providerID
	st.Model = model
	return store.Save(st)
}

// SetToken persists the auth token, keeping the provider selection
func SetToken(store StateStore, token string) error {
	st, err := store.Load()
	if err != nil {
		return err
	}
	st.Token = token
	return store.Save(st)
}
