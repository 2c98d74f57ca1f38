package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/Flyrell/checkin/internal/calendar"
)

// Event is a single recorded check-in.
type Event struct {
	Party      Party
	Date       time.Time
	Points     int
	IsBirthday bool
}

// State holds both parties' points, their last contact dates and the
// check-in history in insertion order.
type State struct {
	Points      map[Party]int
	LastContact map[Party]time.Time
	History     []Event
}

// NewState returns the initial empty state.
func NewState() State {
	return State{
		Points:      map[Party]int{PartyA: 0, PartyB: 0},
		LastContact: map[Party]time.Time{},
		History:     []Event{},
	}
}

// Reset returns the initial empty state. Callers persist it.
func Reset() State {
	return NewState()
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := NewState()
	for p, v := range s.Points {
		c.Points[p] = v
	}
	for p, d := range s.LastContact {
		c.LastContact[p] = d
	}
	c.History = append(c.History, s.History...)
	return c
}

// LastContactOf returns the party's last contact date, if any.
func (s State) LastContactOf(p Party) (time.Time, bool) {
	d, ok := s.LastContact[p]
	return d, ok
}

// IsEmpty reports whether nothing has been recorded yet.
func (s State) IsEmpty() bool {
	return len(s.History) == 0 && len(s.LastContact) == 0 && s.Points[PartyA] == 0 && s.Points[PartyB] == 0
}

// EventsFor returns the party's events in insertion order.
func (s State) EventsFor(p Party) []Event {
	var events []Event
	for _, e := range s.History {
		if e.Party == p {
			events = append(events, e)
		}
	}
	return events
}

// Replay rebuilds a state from history, keeping each event's recorded points.
func Replay(history []Event) State {
	s := NewState()
	for _, e := range history {
		s.Points[e.Party] += e.Points
		s.LastContact[e.Party] = calendar.Day(e.Date)
		s.History = append(s.History, e)
	}
	return s
}

// Verify checks that points and last contact dates agree with the history.
func (s State) Verify() error {
	want := Replay(s.History)
	var errs []error
	for _, p := range Parties {
		if got, exp := s.Points[p], want.Points[p]; got != exp {
			errs = append(errs, fmt.Errorf("party %s: points %d do not match history total %d", p, got, exp))
		}
		got, gotOK := s.LastContact[p]
		exp, expOK := want.LastContact[p]
		switch {
		case gotOK != expOK:
			errs = append(errs, fmt.Errorf("party %s: last contact set=%t but history says set=%t", p, gotOK, expOK))
		case gotOK && !calendar.Day(got).Equal(exp):
			errs = append(errs, fmt.Errorf("party %s: last contact %s does not match last event %s",
				p, calendar.Format(got), calendar.Format(exp)))
		}
	}
	for i, e := range s.History {
		if !e.Party.Valid() {
			errs = append(errs, fmt.Errorf("event %d: %w %q", i, ErrUnknownParty, e.Party))
		}
	}
	return errors.Join(errs...)
}
