package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/config"
	"github.com/Flyrell/checkin/internal/ledger"
)

var addCmd = LeafCommand{
	Use:     "add [PARTY]",
	Aliases: []string{"in"},
	Short:   "Record a check-in for a party",
	Example: "  checkin add A\n  checkin add E --date yesterday\n  checkin add M -d 2024-08-23 -y",
	Args:    cobra.MaximumNArgs(1),
	StrFlags: []StringFlag{
		{Name: "date", Shorthand: "d", Usage: "check-in date (YYYY-MM-DD, today, yesterday, monday, jan 2)"},
	},
	BoolFlags: []BoolFlag{
		{Name: "yes", Shorthand: "y", Usage: "skip confirmation"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		partyArg := ""
		if len(args) > 0 {
			partyArg = args[0]
		}
		dateFlag, _ := cmd.Flags().GetString("date")
		yes, _ := cmd.Flags().GetBool("yes")
		pk := NewPromptKit(isInteractive(cmd.InOrStdin(), cmd.OutOrStdout()))
		return runAdd(cmd, home, partyArg, dateFlag, yes, pk, time.Now)
	},
}.Build()

func runAdd(
	cmd *cobra.Command,
	homeDir, partyArg, dateFlag string,
	yes bool,
	pk PromptKit,
	nowFunc func() time.Time,
) error {
	sess, err := openSession(cmd, homeDir)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	state, err := sess.load(cmd, pk, yes)
	if err != nil {
		return err
	}

	party, err := resolveParty(sess.cfg, partyArg, pk)
	if err != nil {
		return err
	}

	now := nowFunc()
	date, err := resolveDate(dateFlag, yes, pk, now)
	if err != nil {
		return err
	}

	rules := sess.cfg.Rules()
	name := sess.cfg.Party(party).Name
	w := cmd.OutOrStdout()

	if !yes && pk.Interactive {
		preview := rules.Score(state, party, date)
		ok, err := pk.Confirm(fmt.Sprintf("Record a check-in for %s on %s (%s points)?",
			name, calendar.Format(date), formatPoints(preview.Points)))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(w, "cancelled")
			return nil
		}
	}

	next, event := rules.RecordCheckIn(state, party, date)
	if err := sess.store.Save(cmdContext(cmd), next); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	logger(cmd).Debug("check-in saved", "party", party, "date", calendar.Format(date), "points", event.Points)

	_, _ = fmt.Fprintf(w, "%s\n", Text(fmt.Sprintf("checked in %s on %s: %s points",
		Primary(name), calendar.Format(event.Date), Primary(formatPoints(event.Points)))))
	if event.IsBirthday {
		_, _ = fmt.Fprintf(w, "%s\n", Bonus(fmt.Sprintf("happy birthday, %s! (+%d bonus)", name, rules.BirthdayBonus)))
	}
	if event.Points < 0 {
		_, _ = fmt.Fprintf(w, "%s\n", Warning("check-in is earlier than the previous one, points were deducted"))
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", Silent("total:"), Text(fmt.Sprintf("%d", next.Points[party])))
	return nil
}

// resolveParty parses partyArg, or asks for it when the user can be prompted.
func resolveParty(cfg *config.Config, partyArg string, pk PromptKit) (ledger.Party, error) {
	if partyArg != "" {
		return ledger.ParseParty(partyArg, cfg.Names())
	}
	if !pk.Interactive {
		return "", fmt.Errorf("party is required (%s)", partyChoices(cfg))
	}

	options := make([]string, len(ledger.Parties))
	for i, p := range ledger.Parties {
		options[i] = fmt.Sprintf("%s (%s)", cfg.Party(p).Name, p)
	}
	idx, err := pk.Select("Who checked in?", options)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(ledger.Parties) {
		return "", ledger.ErrUnknownParty
	}
	return ledger.Parties[idx], nil
}

// resolveDate parses dateFlag; an empty flag is asked for or defaults to today.
func resolveDate(dateFlag string, yes bool, pk PromptKit, now time.Time) (time.Time, error) {
	if dateFlag != "" {
		return calendar.ParseDate(dateFlag, now)
	}
	if yes || !pk.Interactive {
		return calendar.Today(now), nil
	}

	answer, err := pk.Prompt("Check-in date", "today")
	if err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(answer) == "" {
		return calendar.Today(now), nil
	}
	return calendar.ParseDate(answer, now)
}

func partyChoices(cfg *config.Config) string {
	choices := make([]string, len(ledger.Parties))
	for i, p := range ledger.Parties {
		choices[i] = fmt.Sprintf("%s or %q", p, cfg.Party(p).Name)
	}
	return strings.Join(choices, ", ")
}

func formatPoints(n int) string {
	return fmt.Sprintf("%+d", n)
}
