package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mediway/mediway/internal/app"
	"github.com/mediway/mediway/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// env is filled in by the root command's PersistentPreRunE and shared by
// every sub-command.
type env struct {
	app *app.App
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "mediway",
		Short:         "MediWay hospital client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init(cmd)
		},
	}
	root.PersistentFlags().String("api", "", "backend base URL (overrides API_BASE_URL)")
	root.PersistentFlags().String("session", "", "session file (overrides SESSION_FILE)")

	root.AddCommand(patientCmd(e))
	root.AddCommand(doctorCmd(e))
	root.AddCommand(bookCmd(e))
	root.AddCommand(appointmentsCmd(e))
	root.AddCommand(recordsCmd(e))
	root.AddCommand(adminCmd(e))
	root.AddCommand(reportsCmd(e))
	root.AddCommand(consoleCmd(e))
	root.AddCommand(navCmd(e))
	root.AddCommand(logoutCmd(e))
	return root
}

func (e *env) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("api"); v != "" {
		cfg.APIBaseURL = strings.TrimRight(v, "/")
	}
	if v, _ := cmd.Flags().GetString("session"); v != "" {
		cfg.SessionFile = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a, err := app.New(cfg, newLogger(cfg, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	e.app = a
	return nil
}

// newLogger writes JSON lines, or human-readable lines in development.
func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(w).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	return logger.Level(level)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
