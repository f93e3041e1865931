package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "notesadmin",
		Short: "Operator tooling for the Notes API",
		Long: `notesadmin bootstraps the Notes API store: it applies the schema,
creates the first admin account, mints access tokens for scripting and
seeds demo data.
Connection settings and secrets come from the same environment variables
and CONFIG_FILE as the server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newSchemaCmd(),
		newCreateAdminCmd(),
		newTokenCmd(),
		newSeedCmd(),
	)
	return root
}
