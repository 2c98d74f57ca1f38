package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/config"
)

var configShowCmd = LeafCommand{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		return runConfigShow(cmd, home)
	},
}.Build()

func runConfigShow(cmd *cobra.Command, homeDir string) error {
	cfg, err := config.Read(homeDir)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s %s\n", Silent("# config:"), Silent(config.Path(homeDir)))
	_, _ = fmt.Fprintf(w, "%s %s\n", Silent("# ledger:"), Silent(cfg.DataPath(homeDir)))
	return toml.NewEncoder(w).Encode(cfg)
}
