package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mediway/mediway/internal/console"
)

func consoleCmd(e *env) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Serve the local web console",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := e.app.Logger
			if port == "" {
				port = e.app.Config.ConsolePort
			}
			srv := console.NewServer(e.app)

			errCh := make(chan error, 1)
			go func() {
				addr := ":" + port
				logger.Info().Str("addr", addr).Str("backend", e.app.Config.APIBaseURL).Msg("starting console")
				if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-quit:
			case err := <-errCh:
				return err
			}

			logger.Info().Msg("shutting down console")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			logger.Info().Msg("console stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (defaults to CONSOLE_PORT)")
	return cmd
}
