// Package runstore persists the result of the last boot sequence run as a
// JSON file. The sequence ends by replacing its own process image, so this
// file is the only artifact the diagnostic API can report on afterwards.
package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vsenadev/sanitary-surveillance/internal/sequencer"
)

// Store reads and writes the last sequence result at a fixed path.
type Store struct {
	path string
}

// New returns a Store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Save writes the result atomically: tmp file then rename, so a crash mid-write
// never leaves a truncated result behind.
func (s *Store) Save(res *sequencer.SequenceResult) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating run store directory: %w", err)
	}

	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling sequence result: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("writing sequence result: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming sequence result: %w", err)
	}
	return nil
}

// Load reads the last persisted result. os.ErrNotExist is returned unwrapped
// when no sequence has run yet; callers distinguish it with errors.Is.
func (s *Store) Load() (*sequencer.SequenceResult, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var res sequencer.SequenceResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("unmarshalling sequence result: %w", err)
	}
	return &res, nil
}
