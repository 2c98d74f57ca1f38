package calendar

import (
	"time"

	"github.com/teambition/rrule-go"
)

// Birthday is a party's birthday. When Yearly is false only the exact
// configured date counts; otherwise the month and day match in any year.
type Birthday struct {
	Date   time.Time
	Yearly bool
}

// IsZero reports whether no birthday is configured.
func (b Birthday) IsZero() bool {
	return b.Date.IsZero()
}

// Matches reports whether d is the birthday.
func (b Birthday) Matches(d time.Time) bool {
	if b.IsZero() {
		return false
	}
	if !b.Yearly {
		return Day(d).Equal(Day(b.Date))
	}
	_, bm, bd := b.Date.Date()
	_, m, day := d.Date()
	return bm == m && bd == day
}

// Next returns the first birthday on or after the given date.
// The second return value is false when there is none.
func (b Birthday) Next(after time.Time) (time.Time, bool) {
	if b.IsZero() {
		return time.Time{}, false
	}
	from := Day(after)
	if !b.Yearly {
		d := Day(b.Date)
		if d.Before(from) {
			return time.Time{}, false
		}
		return d, true
	}

	r, err := b.rule(from.Year())
	if err != nil {
		return time.Time{}, false
	}
	next := r.After(from, true)
	if next.IsZero() {
		return time.Time{}, false
	}
	return Day(next), true
}

// rule builds the yearly recurrence starting January 1st of the given year.
// Feb 29 birthdays only occur in leap years.
func (b Birthday) rule(year int) (*rrule.RRule, error) {
	_, m, d := b.Date.Date()
	return rrule.NewRRule(rrule.ROption{
		Freq:       rrule.YEARLY,
		Dtstart:    time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		Bymonth:    []int{int(m)},
		Bymonthday: []int{d},
	})
}
