package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/artpar/wizide/adapters/hasher"
	"github.com/artpar/wizide/bootstrap"
	"github.com/artpar/wizide/config"
	"github.com/artpar/wizide/core/session"
)

func TestFetchEditors(t *testing.T) {
	want := []session.EditorSnapshot{
		{ID: "ed1", Title: "Main", Path: "app/page.main", Activated: true, Tabs: []session.TabSnapshot{{Index: 0, Name: "info"}}},
		{ID: "ed2", Title: "Users", Path: "route/api.users"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/editors" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":"invalid_api_key","message":"invalid API key"}}`))
			return
		}
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	got, err := fetchEditors(context.Background(), srv.Client(), srv.URL+"/", "tok")
	if err != nil {
		t.Fatalf("fetchEditors: %v", err)
	}
	if len(got) != 2 || got[0].ID != "ed1" || !got[0].Activated || got[1].Path != "route/api.users" {
		t.Errorf("editors = %+v", got)
	}

	_, err = fetchEditors(context.Background(), srv.Client(), srv.URL, "wrong")
	if err == nil || !strings.Contains(err.Error(), "invalid_api_key") {
		t.Errorf("err = %v, want invalid_api_key", err)
	}
}

func TestFetchEditors_ServerErrorBody(t *testing.T) {
	hash, err := hasher.NewBcrypt(bcrypt.MinCost).Hash("tok")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Metrics.Enabled = false
	cfg.Server.APIKeyHash = string(hash)
	a, err := bootstrap.New(bootstrap.Options{Config: cfg, LogOutput: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Shutdown()
	srv := httptest.NewServer(a.HTTPServer.Handler)
	defer srv.Close()

	editors, err := fetchEditors(context.Background(), srv.Client(), srv.URL, "tok")
	if err != nil || len(editors) != 0 {
		t.Fatalf("fetchEditors = %v, %v", editors, err)
	}

	_, err = fetchEditors(context.Background(), srv.Client(), srv.URL, "")
	if err == nil || !strings.Contains(err.Error(), "API token required (missing_api_key)") {
		t.Errorf("err = %v", err)
	}
}

func TestFetchEditors_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := fetchEditors(context.Background(), srv.Client(), srv.URL, "")
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Errorf("err = %v, want status 502", err)
	}
}

func TestBuildConfig(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	tests := []struct {
		name      string
		opts      initOptions
		wantToken bool
		wantMode  string
	}{
		{"memory with token", initOptions{Store: config.StoreMemory, Port: 9000, Token: true}, true, config.StoreMemory},
		{"sqlite without token", initOptions{Store: config.StoreSQLite, DSN: "p.db", Port: 9000}, false, config.StoreSQLite},
		{"remote", initOptions{Store: config.StoreRemote, RemoteURL: "http://svc/api", Port: 9000, Token: true}, true, config.StoreRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, token, err := buildConfig(tt.opts, h)
			if err != nil {
				t.Fatalf("buildConfig: %v", err)
			}
			if cfg.Store.Mode != tt.wantMode || cfg.Server.Port != 9000 {
				t.Errorf("store = %s, port = %d", cfg.Store.Mode, cfg.Server.Port)
			}
			if (token != "") != tt.wantToken {
				t.Fatalf("token = %q, wantToken %v", token, tt.wantToken)
			}
			if tt.wantToken && !h.Compare([]byte(cfg.Server.APIKeyHash), token) {
				t.Error("stored hash does not match the token")
			}
			if !tt.wantToken && cfg.Server.APIKeyHash != "" {
				t.Error("hash set without a token")
			}

			data, err := config.Marshal(cfg)
			if err != nil {
				t.Fatal(err)
			}
			parsed, err := config.Parse(data)
			if err != nil {
				t.Fatalf("generated config does not load: %v", err)
			}
			if parsed.Server.APIKeyHash != cfg.Server.APIKeyHash {
				t.Error("api key hash lost in round trip")
			}
		})
	}
}

func TestBuildConfig_RemoteWithoutURL(t *testing.T) {
	cfg, _, err := buildConfig(initOptions{Store: config.StoreRemote, Port: 8765}, hasher.NewBcrypt(bcrypt.MinCost))
	if err != nil {
		t.Fatal(err)
	}
	data, _ := config.Marshal(cfg)
	if _, err := config.Parse(data); err == nil {
		t.Error("remote config without url should not load")
	}
}

func TestStoreSummary(t *testing.T) {
	tests := []struct {
		cfg  config.StoreConfig
		want string
	}{
		{config.StoreConfig{Mode: config.StoreMemory}, "memory"},
		{config.StoreConfig{Mode: config.StoreSQLite, DSN: "x.db"}, "sqlite (x.db)"},
		{config.StoreConfig{Mode: config.StoreRemote, Remote: config.RemoteConfig{URL: "http://svc"}}, "remote (http://svc)"},
	}
	for _, tt := range tests {
		if got := storeSummary(tt.cfg); got != tt.want {
			t.Errorf("storeSummary(%s) = %q, want %q", tt.cfg.Mode, got, tt.want)
		}
	}
}
