package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FilePersister keeps a copy of the auth state on disk so a later process
// starts where the previous one stopped.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister writing to path
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Path returns the state file location
func (p *FilePersister) Path() string {
	return p.path
}

// Load reads the saved state. A missing file yields InitialState.
// A pending login is never restored.
func (p *FilePersister) Load() (*AuthState, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return InitialState, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var st AuthState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", p.path, err)
	}

	st.Loading = false
	if st.IsInitial() {
		return InitialState, nil
	}
	return &st, nil
}

// Save writes st atomically
func (p *FilePersister) Save(st *AuthState) error {
	if st == nil {
		st = InitialState
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set state file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Sync saves every new state of s until the returned function is called.
// States with a login in flight are skipped.
func (p *FilePersister) Sync(s *Store, logger zerolog.Logger) (stop func()) {
	return s.Subscribe(func(st *AuthState) {
		if st.Loading {
			return
		}
		if err := p.Save(st); err != nil {
			logger.Warn().Err(err).Str("path", p.path).Msg("Failed to persist auth state")
		}
	})
}
