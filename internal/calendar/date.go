package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the persisted and user-facing date format.
const Layout = "2006-01-02"

// Day returns the calendar date of t as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date as midnight UTC.
func Today(now time.Time) time.Time {
	return Day(now)
}

// DaysBetween returns the number of whole days from one date to another.
// The result is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int((Day(to).Unix() - Day(from).Unix()) / 86400)
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return Day(t).Format(Layout)
}

// Parse parses a strict YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseDate parses a date expression relative to now.
// Supports: "today", "yesterday", "tomorrow", "monday", "last friday",
// "on Monday", "2024-01-15", "Jan 2", "Jan 2 2006", "January 2",
// "January 2 2006", "2 Jan", "2 Jan 2006", "2 January", "2 January 2006".
// Weekday names resolve to the most recent past occurrence.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	s = strings.TrimPrefix(s, "on ")
	s = strings.TrimSpace(s)

	today := Day(now)
	switch s {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	cleaned := strings.TrimPrefix(s, "last ")
	if wd, ok := parseWeekday(cleaned); ok {
		return previousWeekday(today, wd), nil
	}

	layouts := []string{
		Layout,
		"jan 2",
		"jan 2 2006",
		"january 2",
		"january 2 2006",
		"2 jan",
		"2 jan 2006",
		"2 january",
		"2 january 2006",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			if !hasYear(layout) {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			}
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdays[s]
	return wd, ok
}

// previousWeekday returns the most recent occurrence of wd strictly before today.
func previousWeekday(today time.Time, wd time.Weekday) time.Time {
	daysBack := int(today.Weekday()) - int(wd)
	if daysBack <= 0 {
		daysBack += 7
	}
	return today.AddDate(0, 0, -daysBack)
}

func hasYear(layout string) bool {
	return strings.Contains(layout, "2006")
}
