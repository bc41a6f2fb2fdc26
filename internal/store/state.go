// Package store persists the small amount of overlay state that survives
// restarts.
package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/statusstrip/statusstrip/internal/config"
)

// CurrentSchemaVersion is the current version of the state schema.
const CurrentSchemaVersion = 1

// SharedState is the on-disk state, persisted to
// $XDG_DATA_HOME/statusstrip/state.json.
type SharedState struct {
	// Shrunk is the collapsed-strip preference. It is the only display
	// setting that survives a restart.
	Shrunk bool `json:"shrunk"`

	// LastActivityAt is the Unix timestamp of the last settings change.
	LastActivityAt int64 `json:"last_activity_at,omitempty"`

	// SchemaVersion for compatibility. Currently 1.
	SchemaVersion int `json:"schema_version"`
}

// DefaultSharedState returns a new SharedState with default values.
func DefaultSharedState() *SharedState {
	return &SharedState{
		SchemaVersion: CurrentSchemaVersion,
	}
}

// StateFilePath returns the path to the state file.
func StateFilePath() (string, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "state.json"), nil
}

// Store loads and saves SharedState. It implements the settings interface
// the scheduler persists the shrunk preference through.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	state  *SharedState
}

// Open loads the state from path, or the default path when empty. A missing
// or corrupted file yields the default state.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		var err error
		path, err = StateFilePath()
		if err != nil {
			return nil, err
		}
	}

	s := &Store{
		path:   path,
		logger: logger,
		state:  DefaultSharedState(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var state SharedState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("state file corrupted, using defaults", "path", path, "error", err)
		return s, nil
	}
	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}
	s.state = &state
	return s, nil
}

// State returns a copy of the current state.
func (s *Store) State() SharedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state
}

// Shrunk returns the persisted collapsed-strip preference.
func (s *Store) Shrunk() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Shrunk
}

// SetShrunk updates and persists the collapsed-strip preference. Save
// failures are logged, not returned; callers treat this as fire-and-forget.
func (s *Store) SetShrunk(shrunk bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Shrunk == shrunk {
		return
	}
	s.state.Shrunk = shrunk
	s.state.LastActivityAt = time.Now().Unix()

	if err := s.saveLocked(); err != nil {
		s.logger.Warn("failed to save state", "path", s.path, "error", err)
	}
}

// Save writes the current state to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes atomically via a temp file. Caller holds s.mu.
func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}
