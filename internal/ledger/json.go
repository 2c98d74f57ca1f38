package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Flyrell/checkin/internal/calendar"
)

// document is the persisted layout of a State.
type document struct {
	PointsA      int     `json:"pointsA"`
	PointsB      int     `json:"pointsB"`
	LastContactA *string `json:"lastContactA"`
	LastContactB *string `json:"lastContactB"`
	History      []Event `json:"history"`
}

type eventDocument struct {
	Party      Party  `json:"party"`
	Date       string `json:"date"`
	Points     int    `json:"points"`
	IsBirthday bool   `json:"isBirthday"`
}

// MarshalJSON encodes the event with a YYYY-MM-DD date.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventDocument{
		Party:      e.Party,
		Date:       calendar.Format(e.Date),
		Points:     e.Points,
		IsBirthday: e.IsBirthday,
	})
}

// UnmarshalJSON decodes an event, rejecting unknown parties and bad dates.
func (e *Event) UnmarshalJSON(data []byte) error {
	var doc eventDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if !doc.Party.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownParty, doc.Party)
	}
	d, err := calendar.Parse(doc.Date)
	if err != nil {
		return err
	}
	*e = Event{
		Party:      doc.Party,
		Date:       d,
		Points:     doc.Points,
		IsBirthday: doc.IsBirthday,
	}
	return nil
}

// MarshalJSON encodes the state in the persisted document layout.
func (s State) MarshalJSON() ([]byte, error) {
	doc := document{
		PointsA:      s.Points[PartyA],
		PointsB:      s.Points[PartyB],
		LastContactA: formatOptional(s, PartyA),
		LastContactB: formatOptional(s, PartyB),
		History:      s.History,
	}
	if doc.History == nil {
		doc.History = []Event{}
	}
	return json.Marshal(doc)
}

var errNullDocument = errors.New("ledger document is null")

// UnmarshalJSON decodes the persisted document layout. A literal null is
// rejected rather than read as the empty state.
func (s *State) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNullDocument
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	st := NewState()
	st.Points[PartyA] = doc.PointsA
	st.Points[PartyB] = doc.PointsB

	for p, raw := range map[Party]*string{PartyA: doc.LastContactA, PartyB: doc.LastContactB} {
		if raw == nil || *raw == "" {
			continue
		}
		d, err := calendar.Parse(*raw)
		if err != nil {
			return fmt.Errorf("last contact for %s: %w", p, err)
		}
		st.LastContact[p] = d
	}

	if len(doc.History) > 0 {
		st.History = doc.History
	}

	*s = st
	return nil
}

func formatOptional(s State, p Party) *string {
	d, ok := s.LastContact[p]
	if !ok {
		return nil
	}
	v := calendar.Format(d)
	return &v
}
