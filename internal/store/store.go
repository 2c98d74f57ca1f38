// Package store persists the check-in ledger.
package store

import (
	"context"
	"errors"

	"github.com/Flyrell/checkin/internal/ledger"
)

// ErrCorrupt is returned by Load when persisted data exists but cannot be read
// back into a ledger state.
var ErrCorrupt = errors.New("ledger data is corrupt")

// Store loads and saves the full ledger state.
//
// Load returns the empty state when nothing has been persisted yet.
// Save overwrites whatever was persisted before.
type Store interface {
	Load(ctx context.Context) (ledger.State, error)
	Save(ctx context.Context, s ledger.State) error
}

// Reset replaces the persisted state with the empty state and returns it.
func Reset(ctx context.Context, s Store) (ledger.State, error) {
	empty := ledger.Reset()
	if err := s.Save(ctx, empty); err != nil {
		return ledger.State{}, err
	}
	return empty, nil
}

// Update loads the state, applies fn and saves the result.
// Nothing is saved when fn returns an error.
func Update(ctx context.Context, s Store, fn func(ledger.State) (ledger.State, error)) (ledger.State, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return ledger.State{}, err
	}

	next, err := fn(current)
	if err != nil {
		return ledger.State{}, err
	}

	if err := s.Save(ctx, next); err != nil {
		return ledger.State{}, err
	}
	return next, nil
}
