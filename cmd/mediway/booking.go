package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mediway/mediway/internal/domain/appointment"
	"github.com/mediway/mediway/internal/platform/api"
)

func bookCmd(e *env) *cobra.Command {
	var healthID, date, slot string
	var doctorID int64
	var stay bool
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if healthID == "" {
				healthID = e.app.Session.HealthID()
			}
			if date != "" {
				if err := appointment.ValidateDate(date, time.Now()); err != nil {
					return err
				}
			}
			var route string
			c := e.app.BookingController(appointment.NavigatorFunc(func(r string) { route = r }))
			c.SetHealthID(ctx, healthID)
			if err := c.LoadDoctors(ctx); err != nil {
				e.app.Logger.Warn().Err(err).Msg("doctor list unavailable")
			}
			c.SelectDoctor(ctx, doctorID)
			c.SetDate(ctx, date)
			if err := c.Wait(ctx); err != nil {
				return err
			}

			if slot == "" {
				v := c.View()
				if v.Patient == nil && healthID != "" {
					printf(cmd, "No patient with health ID %s\n", healthID)
				}
				if v.Hint != "" {
					printf(cmd, "%s\n", v.Hint)
				}
				for _, s := range v.Slots {
					printf(cmd, "%s\n", appointment.ShortTime(s))
				}
				return nil
			}
			if err := c.SelectSlot(slot); err != nil {
				return fmt.Errorf("%s: %w", slot, err)
			}
			cf, err := c.Submit(ctx)
			if err != nil {
				if errors.Is(err, appointment.ErrIncomplete) {
					return errors.New(c.Status())
				}
				return fmt.Errorf("%s", api.Message(err, c.Status()))
			}
			printf(cmd, "Appointment booked! #%d with %s on %s at %s\n",
				cf.Appointment.ID, cf.Appointment.DoctorName(), cf.Appointment.Date, appointment.ShortTime(cf.Appointment.Time))
			if stay {
				cf.Stay()
				return nil
			}
			cf.GoNow()
			<-cf.Done()
			printf(cmd, "next: %s\n", route)
			return nil
		},
	}
	cmd.Flags().StringVar(&healthID, "health-id", "", "patient health ID (defaults to the signed-in patient)")
	cmd.Flags().Int64Var(&doctorID, "doctor", 0, "doctor id")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&slot, "slot", "", "slot to book; omit to list available slots")
	cmd.Flags().BoolVar(&stay, "stay", false, "do not move on to the profile after booking")
	return cmd
}

func appointmentsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "List and manage appointments",
	}

	mineCmd := &cobra.Command{
		Use:   "mine",
		Short: "List the signed-in patient's appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := e.app.Appointments.Mine(cmd.Context(), e.app.Session.HealthID())
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, "Failed to load appointments"))
			}
			printAppointments(cmd, list)
			return nil
		},
	}

	var date, t string
	rescheduleCmd := &cobra.Command{
		Use:   "reschedule <id>",
		Short: "Move an appointment to a new date and/or time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := e.app.Portal.Reschedule(cmd.Context(), e.app.Session.HealthID(), id, date, t)
			if errors.Is(err, appointment.ErrNoChange) {
				printf(cmd, "nothing to change\n")
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, "Reschedule failed"))
			}
			printAppointments(cmd, p.Appointments)
			return nil
		},
	}
	rescheduleCmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")
	rescheduleCmd.Flags().StringVar(&t, "time", "", "new time (HH:MM)")

	cancelCmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := e.app.Portal.Cancel(cmd.Context(), e.app.Session.HealthID(), id)
			if err != nil {
				return fmt.Errorf("%s", api.Message(err, "Cancel failed"))
			}
			printAppointments(cmd, p.Appointments)
			return nil
		},
	}

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all appointments (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(e); err != nil {
				return err
			}
			st, err := appointment.ParseStatus(status)
			if err != nil {
				return err
			}
			b := appointment.NewBoard(e.app.Appointments)
			b.SetFilter(st)
			if err := b.Load(cmd.Context()); err != nil {
				return errors.New(b.Status())
			}
			printAppointments(cmd, b.List())
			return nil
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "filter by status ("+statusNames()+")")

	cmd.AddCommand(mineCmd, rescheduleCmd, cancelCmd, listCmd,
		boardActionCmd(e, "confirm", (*appointment.Board).Confirm),
		boardActionCmd(e, "reject", (*appointment.Board).Reject),
	)
	return cmd
}

func boardActionCmd(e *env, verb string, action func(*appointment.Board, context.Context, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " an appointment (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(e); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b := appointment.NewBoard(e.app.Appointments)
			if err := action(b, cmd.Context(), id); err != nil {
				return errors.New(b.Status())
			}
			printAppointments(cmd, b.List())
			return nil
		},
	}
}

func printAppointments(cmd *cobra.Command, list []appointment.Appointment) {
	if len(list) == 0 {
		printf(cmd, "No appointments.\n")
		return
	}
	for _, a := range list {
		printf(cmd, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Date, appointment.ShortTime(a.Time),
			a.Status, a.PatientName(), a.DoctorName(), a.Specialization())
	}
}

func statusNames() string {
	names := make([]string, len(appointment.Statuses))
	for i, s := range appointment.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
