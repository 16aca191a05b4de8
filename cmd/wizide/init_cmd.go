package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/artpar/wizide/adapters/hasher"
	"github.com/artpar/wizide/adapters/random"
	"github.com/artpar/wizide/adapters/sqlite"
	"github.com/artpar/wizide/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file and API token",
	Long: `Initialize wizide.

This will:
  1. Ask for the store mode (memory, sqlite or remote)
  2. Ask for the database path or the remote service URL
  3. Generate an API token and store its bcrypt hash in the config
  4. Create and migrate the SQLite database (sqlite mode)

The token is printed once. Pass it as "Authorization: Bearer <token>".

Examples:
  wizide init
  wizide init --store sqlite --dsn project.db --non-interactive
  wizide init --store remote --remote-url http://localhost:3000/api --non-interactive`,
	RunE: runInit,
}

var (
	initStore          string
	initDSN            string
	initRemoteURL      string
	initPort           int
	initNoToken        bool
	initForce          bool
	initNonInteractive bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initStore, "store", "", "store mode: memory, sqlite or remote")
	initCmd.Flags().StringVar(&initDSN, "dsn", "wizide.db", "SQLite database path")
	initCmd.Flags().StringVar(&initRemoteURL, "remote-url", "", "remote project service URL")
	initCmd.Flags().IntVar(&initPort, "port", 8765, "server port")
	initCmd.Flags().BoolVar(&initNoToken, "no-token", false, "do not require an API token")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "run without prompts")
}

// initOptions are the answers collected by init.
type initOptions struct {
	Store     string
	DSN       string
	RemoteURL string
	Port      int
	Token     bool
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	if _, err := os.Stat(cfgFile); err == nil && !initForce {
		if initNonInteractive || !confirm(reader, out, fmt.Sprintf("%s exists. Overwrite?", cfgFile)) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	opts := initOptions{
		Store:     initStore,
		DSN:       initDSN,
		RemoteURL: initRemoteURL,
		Port:      initPort,
		Token:     !initNoToken,
	}
	if opts.Store == "" {
		opts.Store = config.StoreMemory
		if !initNonInteractive {
			opts.Store = prompt(reader, out, "Store mode (memory, sqlite, remote)", config.StoreMemory)
		}
	}
	if !initNonInteractive {
		switch opts.Store {
		case config.StoreSQLite:
			opts.DSN = prompt(reader, out, "Database location", opts.DSN)
		case config.StoreRemote:
			if opts.RemoteURL == "" {
				opts.RemoteURL = prompt(reader, out, "Remote service URL", "")
			}
		}
	}

	cfg, token, err := buildConfig(opts, hasher.NewBcrypt(bcrypt.DefaultCost))
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	// validate before writing
	if _, err := config.Parse(data); err != nil {
		return err
	}
	if err := os.WriteFile(cfgFile, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(out, "\n%s Generated %s\n", checkMark, cfgFile)

	if cfg.Store.Mode == config.StoreSQLite {
		if err := createDatabase(cmd.Context(), cfg.Store.DSN); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Created database %s\n", checkMark, cfg.Store.DSN)
	}

	if token != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "API token (save it, shown once):")
		fmt.Fprintf(out, "  %s\n", token)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'wizide serve' to start the server.")
	fmt.Fprintf(out, "  API:     http://%s:%d/api/editors\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Fprintf(out, "  Events:  ws://%s:%d/api/events\n", cfg.Server.Host, cfg.Server.Port)
	return nil
}

// buildConfig turns init answers into a configuration. The returned token
// is empty when no token was requested.
func buildConfig(opts initOptions, h *hasher.Bcrypt) (*config.Config, string, error) {
	cfg := config.Default()
	cfg.Server.Port = opts.Port
	cfg.Store.Mode = opts.Store
	if opts.DSN != "" {
		cfg.Store.DSN = opts.DSN
	}
	cfg.Store.Remote.URL = opts.RemoteURL

	if !opts.Token {
		return cfg, "", nil
	}
	token, hash, err := hasher.NewToken(random.Real{}, h)
	if err != nil {
		return nil, "", err
	}
	cfg.Server.APIKeyHash = hash
	return cfg, token, nil
}

func createDatabase(ctx context.Context, dsn string) error {
	db, err := sqlite.Open(dsn)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "? %s [%s]: ", label, defaultVal)
	} else {
		fmt.Fprintf(out, "? %s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}

func confirm(reader *bufio.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "? %s [y/N]: ", message)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}
