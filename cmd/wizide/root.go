package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wizide",
	Short: "Editor session server for wiz projects",
	Long: `wizide keeps the open editors of a wiz project workspace: apps,
routes and framework source files, each opened as an editor with tabs.

Quick start:
  wizide init       # Write wizide.yaml and an API token
  wizide serve      # Start the API server

Inspection:
  wizide editors    # Show the open editors of a running server
  wizide validate   # Validate configuration`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "wizide.yaml", "config file path")
}
