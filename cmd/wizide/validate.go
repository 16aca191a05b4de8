package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/artpar/wizide/adapters/sqlite"
	"github.com/artpar/wizide/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the wizide configuration file.

Checks:
  - YAML syntax is valid
  - Required fields are present
  - The store is reachable (optional)

Examples:
  wizide validate
  wizide validate --check-store --config /etc/wizide/wizide.yaml`,
	RunE: runValidate,
}

var validateCheckStore bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateCheckStore, "check-store", false, "check that the store is reachable")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", cfgFile)

	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Fprintf(out, "  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Fprintf(out, "  %s Config file exists\n", checkMark)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(out, "  %s Config syntax valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Fprintf(out, "  %s Config syntax valid\n", checkMark)

	fmt.Fprintf(out, "  %s Listen: %s:%d\n", checkMark, cfg.Server.Host, cfg.Server.Port)
	fmt.Fprintf(out, "  %s Store: %s\n", checkMark, storeSummary(cfg.Store))
	fmt.Fprintf(out, "  %s App modes: %v\n", checkMark, cfg.Catalog.AppModes)
	if cfg.Server.APIKeyHash == "" {
		fmt.Fprintf(out, "  %s API token not required\n", crossMark)
	} else {
		fmt.Fprintf(out, "  %s API token required\n", checkMark)
	}

	if validateCheckStore {
		if err := checkStore(cmd.Context(), cfg.Store); err != nil {
			fmt.Fprintf(out, "  %s Store reachable\n", crossMark)
			fmt.Fprintf(out, "      Error: %v\n", err)
		} else {
			fmt.Fprintf(out, "  %s Store reachable\n", checkMark)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

func storeSummary(cfg config.StoreConfig) string {
	switch cfg.Mode {
	case config.StoreSQLite:
		return fmt.Sprintf("sqlite (%s)", cfg.DSN)
	case config.StoreRemote:
		return fmt.Sprintf("remote (%s)", cfg.Remote.URL)
	default:
		return cfg.Mode
	}
}

func checkStore(ctx context.Context, cfg config.StoreConfig) error {
	switch cfg.Mode {
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.PingContext(ctx)
	case config.StoreRemote:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, cfg.Remote.URL, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		return nil
	default:
		return nil
	}
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
