package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/wizide/bootstrap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the wizide API server.

The server will:
  - Load configuration from wizide.yaml (or --config), watching it for changes
  - Or load configuration from WIZIDE_* environment variables
  - Open the configured store (memory, sqlite or remote)
  - Serve the editor API, the event stream and /metrics

Environment variables:
  WIZIDE_SERVER_PORT        - Server port (default: 8765)
  WIZIDE_STORE_MODE         - memory, sqlite or remote
  WIZIDE_STORE_DSN          - SQLite path (default: wizide.db)
  WIZIDE_STORE_REMOTE_URL   - Remote project service URL
  WIZIDE_LOG_LEVEL          - Log level: debug, info, warn, error

Examples:
  wizide serve
  wizide serve --config /etc/wizide/wizide.yaml
  WIZIDE_STORE_MODE=sqlite wizide serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "No config file at %s, using environment variables\n", cfgFile)
	}

	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run(cmd.Context())
}
