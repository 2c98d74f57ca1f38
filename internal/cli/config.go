package cli

import "github.com/spf13/cobra"

var configCmd = GroupCommand{
	Use:   "config",
	Short: "Show or create the checkin configuration",
	Subcommands: []*cobra.Command{
		configShowCmd,
		configInitCmd,
	},
}.Build()
