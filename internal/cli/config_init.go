package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/config"
	"github.com/Flyrell/checkin/internal/ledger"
)

var configInitCmd = LeafCommand{
	Use:   "init",
	Short: "Write a configuration file",
	BoolFlags: []BoolFlag{
		{Name: "force", Usage: "overwrite an existing configuration"},
		{Name: "yes", Usage: "write the defaults without asking"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		yes, _ := cmd.Flags().GetBool("yes")
		pk := NewPromptKit(isInteractive(cmd.InOrStdin(), cmd.OutOrStdout()))
		return runConfigInit(cmd, home, force, yes, pk)
	},
}.Build()

func runConfigInit(cmd *cobra.Command, homeDir string, force, yes bool, pk PromptKit) error {
	path := config.Path(homeDir)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := config.Default()
	if pk.Interactive && !yes {
		if err := askConfig(cfg, pk); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Write(homeDir, cfg); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("config written to %s", Primary(path))))
	return nil
}

// askConfig fills cfg from prompts. Empty answers keep the defaults.
func askConfig(cfg *config.Config, pk PromptKit) error {
	for _, p := range ledger.Parties {
		pc := cfg.Party(p)

		name, err := pk.Prompt(fmt.Sprintf("Name of party %s", p), pc.Name)
		if err != nil {
			return err
		}
		if name = strings.TrimSpace(name); name != "" {
			pc.Name = name
		}

		birthday, err := pk.Prompt(fmt.Sprintf("Birthday of %s (YYYY-MM-DD)", pc.Name), pc.Birthday)
		if err != nil {
			return err
		}
		if birthday = strings.TrimSpace(birthday); birthday != "" {
			if _, err := calendar.Parse(birthday); err != nil {
				return err
			}
			pc.Birthday = birthday
		}

		cfg.Parties[string(p)] = pc
	}

	matches := []string{config.MatchExact, config.MatchYearly}
	idx, err := pk.Select("Birthday bonus applies", []string{
		"only on the exact configured date",
		"every year on the same day",
	})
	if err != nil {
		return err
	}
	cfg.BirthdayMatch = matches[idx]

	backends := []string{config.StorageJSON, config.StorageSQLite}
	idx, err = pk.Select("Store the ledger as", []string{"JSON file", "SQLite database"})
	if err != nil {
		return err
	}
	cfg.Storage = backends[idx]
	return nil
}
