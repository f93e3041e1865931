package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/notes/api/internal/config"
	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/model"
	"github.com/forgo/notes/api/internal/repository"
	"github.com/forgo/notes/api/internal/service"
)

func newCreateAdminCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a user holding the Admin and Manager roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
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

			users := service.NewUserService(service.UserServiceConfig{
				UserRepo: repository.NewUserRepository(db),
				NoteRepo: repository.NewNoteRepository(db),
			})
			user, err := users.Create(cmd.Context(), model.CreateUserRequest{
				Username: username,
				Password: password,
				Roles:    []model.Role{model.RoleEmployee, model.RoleManager, model.RoleAdmin},
			})
			if err != nil {
				return fmt.Errorf("create admin %q: %w", username, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	return cmd
}
