package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apihttp "github.com/artpar/wizide/adapters/http"
	"github.com/artpar/wizide/adapters/render"
	"github.com/artpar/wizide/config"
	"github.com/artpar/wizide/core/session"
)

var editorsCmd = &cobra.Command{
	Use:   "editors",
	Short: "Show the open editors of a running server",
	Long: `Fetch the open editors from a running wizide server and draw them as a
tab strip, followed by the tabs of the activated editor.

The server address defaults to the host and port of the config file.
The token is read from --token or WIZIDE_TOKEN.

Examples:
  wizide editors
  wizide editors --server http://127.0.0.1:8765 --token $TOKEN --all`,
	RunE: runEditors,
}

var (
	editorsServer string
	editorsToken  string
	editorsWidth  int
	editorsAll    bool
)

func init() {
	rootCmd.AddCommand(editorsCmd)

	editorsCmd.Flags().StringVar(&editorsServer, "server", "", "server base URL")
	editorsCmd.Flags().StringVar(&editorsToken, "token", "", "API token (default $WIZIDE_TOKEN)")
	editorsCmd.Flags().IntVar(&editorsWidth, "width", 0, "truncate the tab strip to this width")
	editorsCmd.Flags().BoolVar(&editorsAll, "all", false, "show the tabs of every editor")
}

func runEditors(cmd *cobra.Command, args []string) error {
	server := editorsServer
	if server == "" {
		cfg, err := config.LoadWithFallback(cfgFile)
		if err != nil {
			return err
		}
		server = "http://" + net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	}
	token := editorsToken
	if token == "" {
		token = os.Getenv("WIZIDE_TOKEN")
	}

	editors, err := fetchEditors(cmd.Context(), http.DefaultClient, server, token)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(editors) == 0 {
		fmt.Fprintln(out, "No open editors.")
		return nil
	}

	r := render.New(out)
	fmt.Fprintln(out, r.TabStrip(editors, editorsWidth))
	for _, e := range editors {
		if editorsAll || e.Activated {
			fmt.Fprintln(out)
			fmt.Fprint(out, r.Editor(e))
		}
	}
	return nil
}

// fetchEditors lists the open editors of the server at base.
func fetchEditors(ctx context.Context, client *http.Client, base, token string) ([]session.EditorSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/api/editors", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list editors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body apihttp.ErrorResponseBody
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Error.Message != "" {
			return nil, fmt.Errorf("list editors: %s (%s)", body.Error.Message, body.Error.Code)
		}
		return nil, fmt.Errorf("list editors: status %d", resp.StatusCode)
	}

	var editors []session.EditorSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&editors); err != nil {
		return nil, fmt.Errorf("decode editors: %w", err)
	}
	return editors, nil
}
