package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/notes/api/internal/config"
	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/repository"
	"github.com/forgo/notes/api/internal/service"
)

func newSeedCmd() *cobra.Command {
	var (
		req     service.SeedRequest
		cleanup bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or remove demo users and notes",
		Long: `seed creates --users demo users named <prefix>_user_<n>, each owning
--notes notes, and prints the created ids as JSON. With --cleanup it removes
every user named <prefix>_* together with their notes instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			seeder := newSeeder(db)
			var result interface{}
			if cleanup {
				result, err = seeder.Cleanup(cmd.Context(), req.Prefix)
			} else {
				result, err = seeder.Seed(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().IntVar(&req.Users, "users", 5, "Number of users to create")
	cmd.Flags().IntVar(&req.NotesPerUser, "notes", 3, "Notes per user")
	cmd.Flags().StringVar(&req.Prefix, "prefix", "", "Username prefix (generated when empty, required with --cleanup)")
	cmd.Flags().StringVar(&req.Password, "password", "", fmt.Sprintf("Password of seeded users (default %q)", service.DefaultSeedPassword))
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "Remove seeded data for --prefix instead of creating it")
	return cmd
}

func newSeeder(db database.Database) *service.SeederService {
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	return service.NewSeederService(service.SeederServiceConfig{
		Users: service.NewUserService(service.UserServiceConfig{
			UserRepo: userRepo,
			NoteRepo: noteRepo,
		}),
		Queries: service.NewNoteQueryService(service.NoteQueryServiceConfig{
			NoteRepo: noteRepo,
			UserRepo: userRepo,
		}),
		Mutations: service.NewNoteMutationService(service.NoteMutationServiceConfig{
			NoteRepo: noteRepo,
			UserRepo: userRepo,
		}),
	})
}
