package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/report"
)

var statusCmd = LeafCommand{
	Use:   "status",
	Short: "Show points, last check-ins and upcoming birthdays",
	BoolFlags: []BoolFlag{
		{Name: "json", Usage: "print the summary as JSON"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		pk := NewPromptKit(isInteractive(cmd.InOrStdin(), cmd.OutOrStdout()))
		return runStatus(cmd, home, asJSON, pk, time.Now)
	},
}.Build()

func runStatus(
	cmd *cobra.Command,
	homeDir string,
	asJSON bool,
	pk PromptKit,
	nowFunc func() time.Time,
) error {
	sess, err := openSession(cmd, homeDir)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	state, err := sess.load(cmd, pk, false)
	if err != nil {
		return err
	}

	now := nowFunc()
	summary := report.Summarize(state, sess.cfg, now)
	w := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	today := calendar.Today(now)
	_, _ = fmt.Fprintf(w, "%s %s\n", Silent("As of"), Text(calendar.Format(today)))

	for _, ps := range summary.Parties {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "%s  %s\n",
			Primary(fmt.Sprintf("%s (%s)", ps.Name, ps.Party)),
			Text(humanize.Comma(int64(ps.Points))+" points"),
		)

		checkIns := fmt.Sprintf("%d", ps.CheckIns)
		if ps.Birthdays > 0 {
			checkIns += fmt.Sprintf(" (%d on a birthday)", ps.Birthdays)
		}
		_, _ = fmt.Fprintf(w, "  %s     %s\n", Silent("Check-ins:"), Text(checkIns))

		if ps.LastContact != nil {
			_, _ = fmt.Fprintf(w, "  %s  %s %s\n",
				Silent("Last check-in:"),
				Text(calendar.Format(*ps.LastContact)),
				Silent("("+relativeDay(*ps.LastContact, today)+")"),
			)
		} else {
			_, _ = fmt.Fprintf(w, "  %s  %s\n", Silent("Last check-in:"), Text("never"))
		}

		if ps.NextBirthday != nil {
			_, _ = fmt.Fprintf(w, "  %s %s %s\n",
				Silent("Next birthday:"),
				Text(calendar.Format(*ps.NextBirthday)),
				Silent("("+relativeDay(*ps.NextBirthday, today)+")"),
			)
		}

		_, _ = fmt.Fprintf(w, "  %s      %s\n", Silent("Today:"), Info(formatPoints(ps.PendingPoints)+" points if checked in now"))
	}

	_, _ = fmt.Fprintln(w)
	if summary.Leader == "" {
		_, _ = fmt.Fprintf(w, "%s %s\n", Silent("Leader:"), Text("tied"))
	} else {
		_, _ = fmt.Fprintf(w, "%s %s\n", Silent("Leader:"), Primary(sess.cfg.Party(summary.Leader).Name))
	}
	return nil
}

// relativeDay describes d relative to today in whole days.
func relativeDay(d, today time.Time) string {
	if calendar.DaysBetween(d, today) == 0 {
		return "today"
	}
	return humanize.RelTime(d, today, "ago", "from now")
}
