package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/landing/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Serve the landing page",
	Long: `Serve the landing page with live section updates.

Every visit mounts the three sections and streams them to the browser over a
websocket as they load. With --static the assets are served from disk and the
page reloads whenever they change.

Examples:
  landing serve                                   # http://localhost:8080
  landing serve -p 3000 --host 0.0.0.0            # Listen on every interface
  landing serve --api-base http://localhost:3001  # Use 'landing mock'
  landing serve --static ./static                 # Serve and watch local assets`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().String("api-base", "https://jsonplaceholder.typicode.com", "Base URL of the remote API")
	serveCmd.Flags().String("static", "", "Serve and watch static assets from this directory")

	AddFlagValidation(serveCmd, "port", ValidatePort)

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("api.base_url", serveCmd.Flags().Lookup("api-base"))
	viper.BindPFlag("server.static_dir", serveCmd.Flags().Lookup("static"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, newAPIClient(cfg, logger), logger)

	fmt.Fprintf(cmd.OutOrStdout(), "Starting landing page at http://%s\n", cfg.Server.Addr())

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
