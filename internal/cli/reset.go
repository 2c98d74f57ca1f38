package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/ledger"
	"github.com/Flyrell/checkin/internal/store"
)

var resetCmd = LeafCommand{
	Use:   "reset",
	Short: "Clear all points and history",
	BoolFlags: []BoolFlag{
		{Name: "yes", Shorthand: "y", Usage: "skip confirmation prompt"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		pk := NewPromptKit(isInteractive(cmd.InOrStdin(), cmd.OutOrStdout()))
		if yes {
			pk.Confirm = AlwaysYes()
		}
		return runReset(cmd, home, yes, pk)
	},
}.Build()

func runReset(cmd *cobra.Command, homeDir string, yes bool, pk PromptKit) error {
	sess, err := openSession(cmd, homeDir)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	ctx := cmdContext(cmd)
	w := cmd.OutOrStdout()

	// Unreadable data can still be reset.
	state, err := sess.store.Load(ctx)
	switch {
	case err == nil:
		if state.IsEmpty() {
			_, _ = fmt.Fprintln(w, Text("ledger is already empty"))
		} else {
			for _, p := range ledger.Parties {
				_, _ = fmt.Fprintf(w, "  %s %s\n",
					Primary(padRight(sess.cfg.Party(p).Name+":", nameColWidth)),
					Text(fmt.Sprintf("%d points, %d check-ins", state.Points[p], len(state.EventsFor(p)))))
			}
		}
	case errors.Is(err, store.ErrCorrupt):
		_, _ = fmt.Fprintln(w, Warning("stored ledger is unreadable"))
	default:
		return err
	}

	if !yes {
		if !pk.Interactive {
			return fmt.Errorf("refusing to reset without confirmation; pass --yes")
		}
		ok, err := pk.Confirm("Erase all points and history?")
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(w, "cancelled")
			return nil
		}
	}

	if _, err := store.Reset(ctx, sess.store); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	logger(cmd).Debug("ledger reset", "path", sess.cfg.DataPath(homeDir))

	_, _ = fmt.Fprintln(w, Text("ledger reset"))
	return nil
}
