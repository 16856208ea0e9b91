package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediway/mediway/internal/platform/session"
)

func navCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Show the navigation for the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, l := range e.app.Session.Nav() {
				mark := ""
				if l.Action {
					mark = " (action)"
				}
				printf(cmd, "%-14s %s%s\n", l.Label, l.Path, mark)
			}
			return nil
		},
	}
}

func logoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "logout patient|doctor|admin",
		Short:     "Forget one signed-in identity",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"patient", "doctor", "admin"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			route, err := e.app.Session.Logout(kind)
			if err != nil {
				return err
			}
			printf(cmd, "logged out %s, go to %s\n", kind, route)
			return nil
		},
	}
}

func parseKind(s string) (session.Kind, error) {
	switch strings.ToLower(s) {
	case "patient":
		return session.Patient, nil
	case "doctor":
		return session.Doctor, nil
	case "admin":
		return session.Admin, nil
	}
	return 0, fmt.Errorf("unknown identity %q", s)
}
