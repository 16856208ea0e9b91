package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mediway/mediway/internal/domain/patient"
	"github.com/mediway/mediway/internal/platform/api"
)

func patientCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Patient registration, login and profile",
	}

	var reg patient.Registration
	var dob string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a patient and print the new health ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dob != "" {
				reg.DateOfBirth = &dob
			}
			w, err := e.app.Patients.Register(cmd.Context(), &reg)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, err.Error()))
			}
			printf(cmd, "Welcome, %s!\nHealth ID: %s\nQR: %s\nDownload: %s\n", w.Name, w.HealthID, w.QRURL, w.DownloadURL)
			return nil
		},
	}
	registerCmd.Flags().StringVar(&reg.FullName, "name", "", "full name")
	registerCmd.Flags().StringVar(&reg.Email, "email", "", "email")
	registerCmd.Flags().StringVar(&reg.Password, "password", "", "password")
	registerCmd.Flags().StringVar(&reg.Phone, "phone", "", "phone")
	registerCmd.Flags().StringVar(&reg.Address, "address", "", "address")
	registerCmd.Flags().StringVar(&dob, "dob", "", "date of birth (YYYY-MM-DD)")

	var email, password string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.app.Patients.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, "Login failed"))
			}
			printf(cmd, "Logged in. Health ID: %s\n", id)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&email, "email", "", "email")
	loginCmd.Flags().StringVar(&password, "password", "", "password")

	profileCmd := &cobra.Command{
		Use:   "profile [health-id]",
		Short: "Show patient, appointments and records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := e.app.Session.HealthID()
			if len(args) == 1 {
				id = args[0]
			}
			p, err := e.app.Portal.Profile(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}

	var download bool
	var out string
	qrCmd := &cobra.Command{
		Use:   "qr [health-id]",
		Short: "Save the patient's QR code as a PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := e.app.Session.HealthID()
			if len(args) == 1 {
				id = args[0]
			}
			d, err := e.app.Patients.QR(cmd.Context(), id, download)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, "Failed to load QR code"))
			}
			defer d.Body.Close()
			if out == "" {
				out = d.FileName
			}
			if out == "" {
				out = id + "-qr.png"
			}
			f, err := os.Create(filepath.Clean(out))
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := io.Copy(f, d.Body); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printf(cmd, "%s\n", out)
			return nil
		},
	}
	qrCmd.Flags().BoolVar(&download, "download", false, "request the download variant")
	qrCmd.Flags().StringVarP(&out, "out", "o", "", "output file")

	cmd.AddCommand(registerCmd, loginCmd, profileCmd, qrCmd)
	return cmd
}
