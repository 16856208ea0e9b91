package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediway/mediway/internal/domain/admin"
	"github.com/mediway/mediway/internal/platform/auth"
)

func adminCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin sign-in",
	}

	var username, password string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := e.app.Admin.Login(username, password)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidCredentials) {
					return errors.New(admin.MsgInvalidCredentials)
				}
				return err
			}
			printf(cmd, "Signed in, go to %s\n", resp.Redirect)
			return nil
		},
	}
	loginCmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "admin password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out of the admin session",
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := e.app.Admin.Logout()
			if err != nil {
				return err
			}
			printf(cmd, "Signed out, go to %s\n", route)
			return nil
		},
	}

	hashCmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", h)
			return nil
		},
	}

	cmd.AddCommand(loginCmd, logoutCmd, hashCmd)
	return cmd
}

// requireAdmin checks the stored admin token against the gate.
func requireAdmin(e *env) error {
	tok := e.app.Admin.Token()
	if tok == "" {
		return errors.New(admin.MsgLoginRequired)
	}
	if _, err := e.app.Gate.Verify(tok); err != nil {
		return fmt.Errorf("%s: %w", admin.MsgLoginRequired, err)
	}
	return nil
}
