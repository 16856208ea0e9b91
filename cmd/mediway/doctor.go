package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mediway/mediway/internal/domain/doctor"
	"github.com/mediway/mediway/internal/platform/api"
)

func doctorCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Doctor directory, accounts and desk",
	}

	var q, spec string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List doctors, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []doctor.Doctor
			var err error
			if spec != "" {
				list, err = e.app.Doctors.SearchBySpecialization(cmd.Context(), spec)
			} else {
				list, err = e.app.Doctors.List(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, "Failed to load doctors"))
			}
			for _, d := range doctor.Filter(list, q) {
				printf(cmd, "%d\t%s\t%s\t%s\n", d.ID, d.Name, d.Specialization, d.Email)
			}
			return nil
		},
	}
	listCmd.Flags().StringVarP(&q, "query", "q", "", "filter on name or specialization")
	listCmd.Flags().StringVar(&spec, "specialization", "", "ask the backend for one specialization")

	var form doctor.Form
	var photo string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a doctor (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			closeFn, err := attachPhoto(&form, photo)
			if err != nil {
				return err
			}
			defer closeFn()
			d, err := e.app.Doctors.Create(cmd.Context(), form)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, err.Error()))
			}
			return printJSON(cmd, d)
		},
	}
	formFlags(createCmd, &form, &photo)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a doctor (admin); empty fields are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			closeFn, err := attachPhoto(&form, photo)
			if err != nil {
				return err
			}
			defer closeFn()
			d, err := e.app.Doctors.Update(cmd.Context(), id, form)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, "Update failed"))
			}
			return printJSON(cmd, d)
		},
	}
	formFlags(updateCmd, &form, &photo)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a doctor (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, err := e.app.Doctors.Delete(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, "Delete failed"))
			}
			printf(cmd, "deleted %d, %d doctors remain\n", id, len(list))
			return nil
		},
	}

	var email, password string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := e.app.Doctors.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, "Login failed"))
			}
			printf(cmd, "Logged in as %s (%d)\n", d.Name, d.ID)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&email, "email", "", "email")
	loginCmd.Flags().StringVar(&password, "password", "", "password")

	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Set the first password for an existing doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := e.app.Doctors.Signup(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, err.Error()))
			}
			printf(cmd, "Password set for %s. You can log in now.\n", d.Name)
			return nil
		},
	}
	signupCmd.Flags().StringVar(&email, "email", "", "email")
	signupCmd.Flags().StringVar(&password, "password", "", "password")

	deskCmd := &cobra.Command{
		Use:   "desk",
		Short: "Show the signed-in doctor and their appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := e.app.Portal.Desk(cmd.Context(), e.app.Session.DoctorID())
			if err != nil {
				return err
			}
			return printJSON(cmd, d)
		},
	}

	cmd.AddCommand(listCmd, createCmd, updateCmd, deleteCmd, loginCmd, signupCmd, deskCmd)
	return cmd
}

func formFlags(cmd *cobra.Command, f *doctor.Form, photo *string) {
	cmd.Flags().StringVar(&f.Name, "name", "", "name")
	cmd.Flags().StringVar(&f.Email, "email", "", "email")
	cmd.Flags().StringVar(&f.Specialization, "specialization", "", "specialization")
	cmd.Flags().StringVar(photo, "photo", "", "photo file")
}

// attachPhoto opens path into f.Photo. The returned func closes the file.
func attachPhoto(f *doctor.Form, path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	f.Photo = &doctor.Photo{
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     file,
	}
	return func() { file.Close() }, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
