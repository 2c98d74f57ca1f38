package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/log"
)

var rootCmd = &cobra.Command{
	Use:           "checkin",
	Short:         "Keep score of who checks in with whom",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		cmd.SetContext(log.IntoContext(cmdContext(cmd), log.New("checkin", level)))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	addCmd.ValidArgsFunction = completeParty

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// cmdContext returns the command's context, or Background when run outside Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func logger(cmd *cobra.Command) *slog.Logger {
	return log.FromContext(cmdContext(cmd))
}
