// Package jsonfile stores the ledger as a single indented JSON document.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Flyrell/checkin/internal/ledger"
	"github.com/Flyrell/checkin/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store reads and writes the ledger document at Path.
type Store struct {
	path string
}

// New returns a store for the document at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Load reads the ledger document.
// Returns the empty state if the file does not exist.
func (s *Store) Load(_ context.Context) (ledger.State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return ledger.NewState(), nil
	}
	if err != nil {
		return ledger.State{}, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return ledger.State{}, fmt.Errorf("%w: %s is empty", store.ErrCorrupt, s.path)
	}

	var st ledger.State
	if err := json.Unmarshal(data, &st); err != nil {
		return ledger.State{}, fmt.Errorf("%w: %s: %v", store.ErrCorrupt, s.path, err)
	}
	return st, nil
}

// Save writes the ledger document, creating the directory if needed.
func (s *Store) Save(_ context.Context, st ledger.State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, append(data, '\n'), 0644)
}
