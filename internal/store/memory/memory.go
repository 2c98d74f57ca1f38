// Package memory keeps the ledger in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/Flyrell/checkin/internal/ledger"
	"github.com/Flyrell/checkin/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu    sync.RWMutex
	state *ledger.State
	err   error
}

func New() *Store {
	return &Store{}
}

// NewWithState returns a store that already holds s.
func NewWithState(s ledger.State) *Store {
	c := s.Clone()
	return &Store{state: &c}
}

// Fail makes every following Load return err. A nil err clears it.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Store) Load(_ context.Context) (ledger.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return ledger.State{}, s.err
	}
	if s.state == nil {
		return ledger.NewState(), nil
	}
	return s.state.Clone(), nil
}

func (s *Store) Save(_ context.Context, st ledger.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := st.Clone()
	s.state = &c
	s.err = nil
	return nil
}
