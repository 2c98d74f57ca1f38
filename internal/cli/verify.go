package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/ledger"
)

// ErrInconsistent is returned when stored totals disagree with the history.
var ErrInconsistent = errors.New("ledger is inconsistent")

var verifyCmd = LeafCommand{
	Use:   "verify",
	Short: "Check that points and last check-ins match the history",
	BoolFlags: []BoolFlag{
		{Name: "fix", Usage: "rebuild points and last check-ins from the history"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		fix, _ := cmd.Flags().GetBool("fix")
		pk := NewPromptKit(isInteractive(cmd.InOrStdin(), cmd.OutOrStdout()))
		return runVerify(cmd, home, fix, pk)
	},
}.Build()

func runVerify(cmd *cobra.Command, homeDir string, fix bool, pk PromptKit) error {
	sess, err := openSession(cmd, homeDir)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	state, err := sess.load(cmd, pk, false)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	verr := state.Verify()
	if verr == nil {
		_, _ = fmt.Fprintf(w, "%s\n", Text(fmt.Sprintf("ledger is consistent (%d check-ins)", len(state.History))))
		return nil
	}

	for _, line := range strings.Split(verr.Error(), "\n") {
		_, _ = fmt.Fprintf(w, "%s %s\n", Error("!"), Text(line))
	}

	if !fix {
		return fmt.Errorf("%w; run 'checkin verify --fix' to rebuild it from the history", ErrInconsistent)
	}

	repaired := ledger.Replay(state.History)
	if err := sess.store.Save(cmdContext(cmd), repaired); err != nil {
		return fmt.Errorf("saving repaired ledger: %w", err)
	}
	logger(cmd).Info("ledger rebuilt from history", "events", len(repaired.History))
	_, _ = fmt.Fprintln(w, Info("ledger rebuilt from history"))
	return nil
}
