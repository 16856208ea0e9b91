package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediway/mediway/internal/domain/record"
)

func recordsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Medical records",
	}

	var draft record.Draft
	var templates []string
	var appendMode bool
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Save a record as the signed-in doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, spec := range templates {
				field, label, ok := strings.Cut(spec, "=")
				if !ok {
					return fmt.Errorf("template must be field=label, got %q", spec)
				}
				f, err := record.ParseField(field)
				if err != nil {
					return err
				}
				if err := draft.ApplyNamedTemplate(f, label, appendMode); err != nil {
					return err
				}
			}
			res, err := e.app.Portal.SaveRecord(cmd.Context(), e.app.Session.DoctorID(), &draft)
			if err != nil {
				return errors.New(res.Status)
			}
			printf(cmd, "%s (#%d)\n", res.Status, res.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&draft.PatientHealthID, "health-id", "", "patient health ID")
	addCmd.Flags().StringVar(&draft.Diagnosis, "diagnosis", "", "diagnosis")
	addCmd.Flags().StringVar(&draft.Prescriptions, "prescriptions", "", "prescriptions")
	addCmd.Flags().StringVar(&draft.LabNotes, "lab-notes", "", "lab notes")
	addCmd.Flags().StringVar(&draft.Comments, "comments", "", "comments")
	addCmd.Flags().StringArrayVar(&templates, "template", nil, "apply a template, as field=label (repeatable)")
	addCmd.Flags().BoolVar(&appendMode, "append", false, "append templates instead of replacing the field")

	listCmd := &cobra.Command{
		Use:   "list [health-id]",
		Short: "List a patient's records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := e.app.Session.HealthID()
			if len(args) == 1 {
				id = args[0]
			}
			v := e.app.Portal.PatientRecords(cmd.Context(), id)
			if v.Error != "" {
				return errors.New(v.Error)
			}
			if v.Empty != "" {
				printf(cmd, "%s\n", v.Empty)
				return nil
			}
			return printJSON(cmd, v.Records)
		},
	}

	templatesCmd := &cobra.Command{
		Use:   "templates [field]",
		Short: "List record templates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := []record.Field{record.FieldDiagnosis, record.FieldPrescriptions, record.FieldLabNotes}
			if len(args) == 1 {
				f, err := record.ParseField(args[0])
				if err != nil {
					return err
				}
				fields = []record.Field{f}
			}
			for _, f := range fields {
				for _, t := range record.Templates(f) {
					printf(cmd, "%s\t%s\n", f, t.Label)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd, templatesCmd)
	return cmd
}
