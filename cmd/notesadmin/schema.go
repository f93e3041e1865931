package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/forgo/notes/api/internal/config"
	"github.com/forgo/notes/api/internal/database"
)

func newSchemaCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the store schema, or apply it with --apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !apply {
				_, err := fmt.Fprint(cmd.OutOrStdout(), database.Schema)
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := database.ApplySchema(cmd.Context(), db); err != nil {
				return err
			}
			slog.Info("schema applied", slog.String("database", cfg.Database.Database))
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Apply the schema to the configured database")
	return cmd
}

// connect opens the store described by cfg
func connect(ctx context.Context, cfg *config.Config) (*database.SurrealDB, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s:%s: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	return db, nil
}
