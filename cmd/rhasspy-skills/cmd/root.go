package cmd

import (
	"context"
	"fmt"

	"github.com/razzo04/rhasspy-skills/internal/api"
	"github.com/razzo04/rhasspy-skills/internal/logger"
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rhasspy-skills",
	Short: "Manage skills of a rhasspy voice assistant",
	Long: `rhasspy-skills installs, lists, starts, stops and removes skills on a
rhasspy skills service, and scaffolds new skills from templates.

Skills can be installed from a local folder, a pre-built tar archive, or by
name from one or more git repositories.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		if err := logger.SetLogLevel(level); err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("log-format")
		logger.SetLogFormat(format)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rhasspy-skills %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("host", api.DefaultHost, "Base URL of the skills service")
	rootCmd.PersistentFlags().String("config", "", "Settings file (default <user config dir>/rhasspy_skills/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.AddCommand(versionCmd)
}

// ExecuteContext runs the root command with ctx, which commands use for
// cancellation and logging.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(logger.WithLogger(ctx, logger.L))
}
