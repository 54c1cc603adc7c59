package main

import (
	"aiexchange/internal/app/deps"
	"aiexchange/internal/app/services"
	"aiexchange/internal/config"
	c "aiexchange/internal/core/domain/common"
	"aiexchange/internal/core/domain/user"
	createuser "aiexchange/internal/core/services/create_user"
	purgeresetrequests "aiexchange/internal/core/services/purge_reset_requests"
	"aiexchange/internal/db"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "resetctl",
		Short:         "Maintenance commands for the password reset service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newPurgeCommand())
	cmd.AddCommand(newUsersCommand())
	return cmd
}

func newMigrateCommand() *cobra.Command {
	var migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert DB migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Directory with SQL migrations")

	for _, direction := range []db.Direction{db.Up, db.Down} {
		direction := direction
		cmd.AddCommand(&cobra.Command{
			Use:   string(direction),
			Short: fmt.Sprintf("Run all %s migrations", direction),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := db.Migrate(cfg.PostgresqlURL, migrationsPath, direction); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrations applied: %s\n", direction)
				return nil
			},
		})
	}
	return cmd
}

func newPurgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete used and expired reset requests past the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			deps, shutdownDeps := deps.InitDeps()
			defer shutdownDeps()

			result, err := services.InitServices(deps).PurgeResetRequests.Run(ctx, purgeresetrequests.Input{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted reset requests: %d\n", result.Deleted)
			return nil
		},
	}
}

func newUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User account operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newUsersCreateCommand())
	return cmd
}

func newUsersCreateCommand() *cobra.Command {
	var (
		email      string
		password   string
		fullName   string
		role       string
		isApproved bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an active user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			deps, shutdownDeps := deps.InitDeps()
			defer shutdownDeps()

			result, err := services.InitServices(deps).CreateUser.Run(ctx, createuser.Input{
				Email:      c.NewEmail(email),
				Password:   user.RawPassword(password),
				FullName:   fullName,
				Role:       user.Role(role),
				IsApproved: isApproved,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", result.User.ID, result.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringVar(&fullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&role, "role", string(user.RoleStaff), "Role: staff or admin")
	cmd.Flags().BoolVar(&isApproved, "approved", true, "Create the account already approved")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
