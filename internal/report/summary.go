// Package report derives read-only views of the ledger for display and export.
package report

import (
	"encoding/json"
	"time"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/config"
	"github.com/Flyrell/checkin/internal/ledger"
)

// PartySummary is the status line for a single party.
type PartySummary struct {
	Party        ledger.Party
	Name         string
	Points       int
	CheckIns     int
	Birthdays    int
	LastContact  *time.Time
	DaysSince    *int
	NextBirthday *time.Time
	// PendingPoints is what a check-in today would award.
	PendingPoints int
}

// Summary is the overall status of the ledger.
type Summary struct {
	Date    time.Time
	Parties []PartySummary
	// Leader is empty on a tie.
	Leader ledger.Party
}

type partySummaryJSON struct {
	Party         ledger.Party `json:"party"`
	Name          string       `json:"name"`
	Points        int          `json:"points"`
	CheckIns      int          `json:"checkIns"`
	Birthdays     int          `json:"birthdayCheckIns"`
	LastContact   *string      `json:"lastContact"`
	DaysSince     *int         `json:"daysSinceLastContact"`
	NextBirthday  *string      `json:"nextBirthday"`
	PendingPoints int          `json:"pendingPoints"`
}

// MarshalJSON renders dates as YYYY-MM-DD.
func (ps PartySummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(partySummaryJSON{
		Party:         ps.Party,
		Name:          ps.Name,
		Points:        ps.Points,
		CheckIns:      ps.CheckIns,
		Birthdays:     ps.Birthdays,
		LastContact:   formatDate(ps.LastContact),
		DaysSince:     ps.DaysSince,
		NextBirthday:  formatDate(ps.NextBirthday),
		PendingPoints: ps.PendingPoints,
	})
}

// MarshalJSON renders the summary for the HTTP API.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date    string         `json:"date"`
		Parties []PartySummary `json:"parties"`
		Leader  ledger.Party   `json:"leader"`
	}{
		Date:    calendar.Format(s.Date),
		Parties: s.Parties,
		Leader:  s.Leader,
	})
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := calendar.Format(*t)
	return &v
}

// Summarize builds the status of every party as of now.
func Summarize(s ledger.State, cfg *config.Config, now time.Time) Summary {
	today := calendar.Today(now)
	rules := cfg.Rules()

	sum := Summary{Date: today}
	for _, p := range ledger.Parties {
		ps := PartySummary{
			Party:  p,
			Name:   cfg.Party(p).Name,
			Points: s.Points[p],
		}
		for _, e := range s.EventsFor(p) {
			ps.CheckIns++
			if e.IsBirthday {
				ps.Birthdays++
			}
		}
		if last, ok := s.LastContactOf(p); ok {
			l := last
			days := calendar.DaysBetween(last, today)
			ps.LastContact = &l
			ps.DaysSince = &days
		}
		if next, ok := rules.Birthdays[p].Next(today); ok {
			ps.NextBirthday = &next
		}
		ps.PendingPoints = rules.Score(s, p, today).Points
		sum.Parties = append(sum.Parties, ps)
	}

	a, b := s.Points[ledger.PartyA], s.Points[ledger.PartyB]
	switch {
	case a > b:
		sum.Leader = ledger.PartyA
	case b > a:
		sum.Leader = ledger.PartyB
	}
	return sum
}
