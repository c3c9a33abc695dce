package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	internalauth "github.com/Dvid0316/evidence-vault/internal/auth"
	"github.com/Dvid0316/evidence-vault/internal/config"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

func newAdminUserCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage local user accounts",
	}
	cmd.AddCommand(newAdminUserAddCmd(cfg, jsonOutput))
	cmd.AddCommand(newAdminUserListCmd(cfg, jsonOutput))
	cmd.AddCommand(newAdminUserSetDisabledCmd(cfg, jsonOutput, "disable", "Disable one user", true))
	cmd.AddCommand(newAdminUserSetDisabledCmd(cfg, jsonOutput, "enable", "Enable one user", false))
	return cmd
}

func newAdminUserAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var passwordStdin bool
	var displayName string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create one user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}

			username, err := internalauth.NormalizeUsername(args[0])
			if err != nil {
				return err
			}

			passwordBytes, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			hash, err := internalauth.HashPassword(strings.TrimSpace(string(passwordBytes)))
			if err != nil {
				return err
			}

			return withStore(cfg, func(st *store.Store) error {
				ctx := cmd.Context()
				existing, err := st.GetUserByUsername(ctx, username)
				if err != nil {
					return err
				}
				if existing != nil {
					return fmt.Errorf("username %s already exists", username)
				}

				id, err := st.NewID(ctx, store.UserIDPrefix)
				if err != nil {
					return err
				}
				user := store.User{
					ID:           id,
					Username:     username,
					DisplayName:  strings.TrimSpace(displayName),
					PasswordHash: hash,
					CreatedAt:    time.Now().UTC(),
				}
				if err := st.CreateUser(ctx, &user); err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(user)
				}
				return writePlain("created user %s (%s)\n", user.Username, user.ID)
			})
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name")
	return cmd
}

func newAdminUserListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(st *store.Store) error {
				users, err := st.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"count": len(users), "users": users})
				}
				if len(users) == 0 {
					return writePlain("no users configured\n")
				}
				if err := writePlain("USERNAME\tSTATUS\tID\n"); err != nil {
					return err
				}
				for _, user := range users {
					status := "enabled"
					if user.Disabled {
						status = "disabled"
					}
					if err := writePlain("%s\t%s\t%s\n", user.Username, status, user.ID); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newAdminUserSetDisabledCmd(cfg *config.Config, jsonOutput *bool, name, short string, disabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := internalauth.NormalizeUsername(args[0])
			if err != nil {
				return err
			}

			return withStore(cfg, func(st *store.Store) error {
				ctx := cmd.Context()
				user, err := st.GetUserByUsername(ctx, username)
				if err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("user %s not found", username)
				}
				if err := st.SetUserDisabled(ctx, user.ID, disabled); err != nil {
					return err
				}

				if *jsonOutput {
					user.Disabled = disabled
					return writeJSON(user)
				}
				action := "enabled"
				if disabled {
					action = "disabled"
				}
				return writePlain("%s user %s\n", action, username)
			})
		},
	}
}
