// Package state persists which code generator version is installed on
// this machine and where it lives.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// InstalledState records a verified installation. It is rewritten only
// after a download has been verified, extracted and promoted; every
// failure path leaves the previous record in place.
type InstalledState struct {
	Version     string `json:"installedVersion"`
	InstallPath string `json:"installPath"`
}

// Store reads and writes the installed-state record at a fixed path.
// Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the recorded state, or (nil, nil) when nothing has been
// recorded yet.
func (s *Store) Load() (*InstalledState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read installed state: %w", err)
	}

	var st InstalledState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode installed state %s: %w", s.path, err)
	}
	return &st, nil
}

// Save atomically replaces the record: marshal, write to a temp file,
// rename over the target, then sync the directory so the rename is
// durable. A crash mid-save never leaves a torn record.
func (s *Store) Save(st InstalledState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode installed state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write installed state: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("promote installed state: %w", err)
	}

	if d, err := os.Open(dir); err == nil {
		d.Sync()
		d.Close()
	}

	return nil
}
