package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/notes/api/internal/config"
	"github.com/forgo/notes/api/pkg/jwt"
)

func newTokenCmd() *cobra.Command {
	var (
		username   string
		roles      []string
		ttl        time.Duration
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token signed with ACCESS_TOKEN_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.Auth.AccessTTL
			}

			tokens, err := jwt.NewService(jwt.Config{
				AccessSecret:  cfg.Auth.AccessSecret,
				RefreshSecret: cfg.Auth.RefreshSecret,
				AccessTTL:     ttl,
				RefreshTTL:    cfg.Auth.RefreshTTL,
			})
			if err != nil {
				return err
			}

			token, err := tokens.GenerateAccessToken(username, roles)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"accessToken": token,
					"tokenType":   "Bearer",
					"expiresIn":   int(tokens.AccessTTL().Seconds()),
					"username":    username,
					"roles":       roles,
				})
			}

			_, err = fmt.Fprintln(out, token)
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Username carried in the token")
	cmd.Flags().StringSliceVarP(&roles, "roles", "r", []string{"Admin"}, "Roles carried in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: ACCESS_TOKEN_TTL)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")
	return cmd
}
