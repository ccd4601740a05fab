// Package cli provides the command-line interface for the pricing application.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"quantpricer/internal/server"
)

// addServeCommand adds the HTTP server command.
func addServeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pricing HTTP API",
		Long:  "Serve pricing, greeks, implied volatility, and sweep endpoints over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			if host != "" {
				app.Config.Server.Host = host
			}
			if port != 0 {
				app.Config.Server.Port = port
			}

			srv := server.New(app.Config, app.Logger, app.Store)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			output.Info("Serving on http://%s", app.Config.Addr())
			output.Dim("Press Ctrl+C to stop.")

			if err := srv.Run(ctx); err != nil {
				output.Error("Server stopped: %v", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("host", "", "bind address (overrides config)")
	cmd.Flags().Int("port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(cmd)
}
