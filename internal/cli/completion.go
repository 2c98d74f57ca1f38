package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/config"
	"github.com/Flyrell/checkin/internal/ledger"
)

var validShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = GroupCommand{
	Use:   "completion",
	Short: "Shell completion scripts",
	Subcommands: []*cobra.Command{
		completionGenerateCmd,
	},
}.Build()

var completionGenerateCmd = newCompletionGenerateCmd()

func newCompletionGenerateCmd() *cobra.Command {
	cmd := LeafCommand{
		Use:   "generate [SHELL]",
		Short: "Generate shell completion script",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := ""
			if len(args) > 0 {
				shell = args[0]
			} else {
				shell = detectShell()
				if shell == "" {
					return fmt.Errorf("could not detect shell from $SHELL environment variable; please specify one explicitly (bash, zsh, fish, powershell)")
				}
			}
			return runCompletion(cmd, shell)
		},
	}.Build()
	cmd.ValidArgs = validShells
	return cmd
}

// detectShell returns the shell named by $SHELL if completions exist for it.
func detectShell() string {
	switch base := filepath.Base(os.Getenv("SHELL")); base {
	case "bash", "zsh", "fish":
		return base
	default:
		return ""
	}
}

func runCompletion(cmd *cobra.Command, shell string) error {
	root := cmd.Root()
	out := cmd.OutOrStdout()

	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (valid: bash, zsh, fish, powershell)", shell)
	}
}

// completeParty offers party keys and configured names for positional arguments.
func completeParty(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg := config.Default()
	if home, err := homeDir(); err == nil {
		if c, err := config.Read(home); err == nil {
			cfg = c
		}
	}

	var out []string
	for _, p := range ledger.Parties {
		out = append(out, string(p))
	}
	for _, p := range ledger.Parties {
		out = append(out, cfg.Party(p).Name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
