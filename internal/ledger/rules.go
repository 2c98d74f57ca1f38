package ledger

import (
	"time"

	"github.com/Flyrell/checkin/internal/calendar"
)

// DefaultBirthdayBonus is awarded on top of the day count on a birthday.
const DefaultBirthdayBonus = 10

// BackdatePolicy controls check-ins dated before the party's last contact.
type BackdatePolicy string

const (
	// BackdateAllow scores the negative day delta as is.
	BackdateAllow BackdatePolicy = "allow"
	// BackdateClamp scores a negative day delta as zero.
	BackdateClamp BackdatePolicy = "clamp"
)

// Rules are the scoring parameters for check-ins.
type Rules struct {
	Birthdays     map[Party]calendar.Birthday
	BirthdayBonus int
	Backdated     BackdatePolicy
}

// DefaultRules returns the stock rules with the default two birthdays,
// matched on the exact configured date.
func DefaultRules() Rules {
	return Rules{
		Birthdays: map[Party]calendar.Birthday{
			PartyA: {Date: time.Date(2024, 8, 23, 0, 0, 0, 0, time.UTC)},
			PartyB: {Date: time.Date(2024, 10, 27, 0, 0, 0, 0, time.UTC)},
		},
		BirthdayBonus: DefaultBirthdayBonus,
		Backdated:     BackdateAllow,
	}
}

// DaysSince returns the whole days between the party's last contact and date,
// or 0 when the party has never checked in.
func DaysSince(s State, p Party, date time.Time) int {
	last, ok := s.LastContactOf(p)
	if !ok {
		return 0
	}
	return calendar.DaysBetween(last, date)
}

// Score computes the event a check-in would record without applying it.
func (r Rules) Score(s State, p Party, date time.Time) Event {
	date = calendar.Day(date)

	days := DaysSince(s, p, date)
	if days < 0 && r.Backdated == BackdateClamp {
		days = 0
	}

	isBirthday := r.Birthdays[p].Matches(date)
	points := days
	if isBirthday {
		points += r.BirthdayBonus
	}

	return Event{
		Party:      p,
		Date:       date,
		Points:     points,
		IsBirthday: isBirthday,
	}
}

// RecordCheckIn scores a check-in for p on date and returns the updated
// state along with the recorded event. The input state is left untouched.
func (r Rules) RecordCheckIn(s State, p Party, date time.Time) (State, Event) {
	e := r.Score(s, p, date)

	next := s.Clone()
	next.Points[p] += e.Points
	next.LastContact[p] = e.Date
	next.History = append(next.History, e)

	return next, e
}
