package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/config"
	"github.com/Flyrell/checkin/internal/ledger"
)

// ExportEvent is a single check-in line.
type ExportEvent struct {
	Index      int
	Date       time.Time
	Party      ledger.Party
	Name       string
	Points     int
	IsBirthday bool
}

// ExportMonth holds the check-ins dated in one calendar month.
type ExportMonth struct {
	Year   int
	Month  time.Month
	Events []ExportEvent
	Totals map[ledger.Party]int
}

// ExportData is the full history grouped by month.
type ExportData struct {
	Title  string
	Names  map[ledger.Party]string
	Months []ExportMonth
	Totals map[ledger.Party]int
}

// BuildExport groups the history by the month of each event date.
// Months are sorted chronologically; within a month events keep their
// insertion order.
func BuildExport(s ledger.State, cfg *config.Config, title string) ExportData {
	type monthKey struct {
		year  int
		month time.Month
	}
	groups := make(map[monthKey]*ExportMonth)

	for i, e := range s.History {
		d := calendar.Day(e.Date)
		key := monthKey{d.Year(), d.Month()}
		m := groups[key]
		if m == nil {
			m = &ExportMonth{Year: key.year, Month: key.month, Totals: map[ledger.Party]int{}}
			groups[key] = m
		}
		m.Events = append(m.Events, ExportEvent{
			Index:      i + 1,
			Date:       d,
			Party:      e.Party,
			Name:       cfg.Party(e.Party).Name,
			Points:     e.Points,
			IsBirthday: e.IsBirthday,
		})
		m.Totals[e.Party] += e.Points
	}

	months := make([]ExportMonth, 0, len(groups))
	for _, m := range groups {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})

	totals := make(map[ledger.Party]int, len(ledger.Parties))
	for _, p := range ledger.Parties {
		totals[p] = s.Points[p]
	}

	return ExportData{
		Title:  title,
		Names:  cfg.Names(),
		Months: months,
		Totals: totals,
	}
}

// Markdown renders the export as a markdown document.
func Markdown(data ExportData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", data.Title)

	b.WriteString("| Party | Points |\n|---|---:|\n")
	for _, p := range ledger.Parties {
		fmt.Fprintf(&b, "| %s | %d |\n", data.Names[p], data.Totals[p])
	}
	b.WriteString("\n")

	if len(data.Months) == 0 {
		b.WriteString("_No check-ins recorded yet._\n")
		return b.String()
	}

	for _, m := range data.Months {
		fmt.Fprintf(&b, "## %s %d\n\n", m.Month, m.Year)
		b.WriteString("| # | Date | Party | Points | |\n|---:|---|---|---:|---|\n")
		for _, e := range m.Events {
			mark := ""
			if e.IsBirthday {
				mark = "birthday"
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %d | %s |\n", e.Index, calendar.Format(e.Date), e.Name, e.Points, mark)
		}
		b.WriteString("\n")

		parts := make([]string, 0, len(ledger.Parties))
		for _, p := range ledger.Parties {
			parts = append(parts, fmt.Sprintf("%s %d", data.Names[p], m.Totals[p]))
		}
		fmt.Fprintf(&b, "Subtotal: %s\n\n", strings.Join(parts, ", "))
	}

	return b.String()
}
