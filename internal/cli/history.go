package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/config"
	"github.com/Flyrell/checkin/internal/ledger"
)

// historyItem is one recorded check-in prepared for display.
type historyItem struct {
	Index      int
	Date       string
	Party      ledger.Party
	Name       string
	Points     int
	IsBirthday bool
}

var historyCmd = LeafCommand{
	Use:   "history",
	Short: "Show recorded check-ins in the order they were made",
	StrFlags: []StringFlag{
		{Name: "party", Shorthand: "p", Usage: "only show check-ins of this party"},
		{Name: "limit", Shorthand: "n", Usage: "maximum number of entries to show (0 = all)", Default: "50"},
	},
	BoolFlags: []BoolFlag{
		{Name: "interactive", Shorthand: "i", Usage: "browse the history in a scrollable view"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}

		partyFlag, _ := cmd.Flags().GetString("party")
		limitStr, _ := cmd.Flags().GetString("limit")
		interactive, _ := cmd.Flags().GetBool("interactive")

		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid --limit value %q: expected a number", limitStr)
		}
		if limit < 0 {
			return fmt.Errorf("--limit must be 0 or positive")
		}

		pk := NewPromptKit(isInteractive(cmd.InOrStdin(), cmd.OutOrStdout()))
		return runHistory(cmd, home, partyFlag, limit, interactive, pk)
	},
}.Build()

func runHistory(cmd *cobra.Command, homeDir, partyFlag string, limit int, interactive bool, pk PromptKit) error {
	sess, err := openSession(cmd, homeDir)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	state, err := sess.load(cmd, pk, false)
	if err != nil {
		return err
	}

	var only ledger.Party
	if partyFlag != "" {
		only, err = ledger.ParseParty(partyFlag, sess.cfg.Names())
		if err != nil {
			return err
		}
	}

	items := historyItems(state, sess.cfg, only)
	if len(items) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no check-ins recorded")
		return nil
	}

	// Keep the most recently recorded entries.
	total := len(items)
	if limit > 0 && total > limit {
		items = items[total-limit:]
	}

	if interactive {
		err = runHistoryView(cmd, items)
	} else {
		err = printHistory(cmd.OutOrStdout(), items)
	}
	if err != nil {
		return err
	}
	if len(items) < total {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(),
			Silent(fmt.Sprintf("showing %d of %d check-ins (use --limit 0 for all)", len(items), total)))
	}
	return nil
}

func historyItems(s ledger.State, cfg *config.Config, only ledger.Party) []historyItem {
	var items []historyItem
	for i, e := range s.History {
		if only != "" && e.Party != only {
			continue
		}
		items = append(items, historyItem{
			Index:      i + 1,
			Date:       calendar.Format(e.Date),
			Party:      e.Party,
			Name:       cfg.Party(e.Party).Name,
			Points:     e.Points,
			IsBirthday: e.IsBirthday,
		})
	}
	return items
}

func formatHistoryLine(item historyItem) string {
	line := fmt.Sprintf("%s  %s  %s  %s",
		Silent(fmt.Sprintf("#%-4d", item.Index)),
		Text(item.Date),
		Primary(padRight(item.Name, nameColWidth)),
		Info(padLeft(formatPoints(item.Points), pointsColWidth)),
	)
	if item.IsBirthday {
		line += "  " + Bonus("birthday")
	}
	return line
}
