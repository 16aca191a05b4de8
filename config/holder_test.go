package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/wizide/config"
)

func TestHolder_Get(t *testing.T) {
	h, err := config.NewHolder(writeConfig(t, validConfig()), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	got := h.Get()
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", got.Logging.Level)
	}
	if !filepath.IsAbs(h.Path()) {
		t.Errorf("Path = %s, want absolute", h.Path())
	}
}

func TestHolder_ReloadNotifies(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var mu sync.Mutex
	var received *config.Config
	var reloads []error

	h.OnChange(func(cfg *config.Config) {
		mu.Lock()
		received = cfg
		mu.Unlock()
	})
	h.OnReload(func(_ time.Time, err error) {
		mu.Lock()
		reloads = append(reloads, err)
		mu.Unlock()
	})

	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("write new config: %v", err)
	}
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if received == nil || received.Logging.Level != "debug" {
		t.Errorf("OnChange received %+v", received)
	}
	if len(reloads) != 1 || reloads[0] != nil {
		t.Errorf("reloads = %v, want one success", reloads)
	}
	if h.Get().Logging.Level != "debug" {
		t.Errorf("Get().Logging.Level = %s", h.Get().Logging.Level)
	}
}

func TestHolder_ReloadInvalidConfig(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var reloadErr error
	h.OnReload(func(_ time.Time, err error) { reloadErr = err })

	if err := os.WriteFile(path, []byte("store:\n  mode: tape\n"), 0644); err != nil {
		t.Fatalf("write invalid config: %v", err)
	}

	if err := h.Reload(); err == nil {
		t.Error("Reload should fail for invalid config")
	}
	if reloadErr == nil {
		t.Error("OnReload was not told about the failure")
	}
	if h.Get().Store.Mode != config.StoreMemory {
		t.Errorf("should keep old config, got Store.Mode = %s", h.Get().Store.Mode)
	}
}

func TestHolder_WatchFile(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	changed := make(chan *config.Config, 8)
	h.OnChange(func(cfg *config.Config) { changed <- cfg })

	if err := h.WatchFile(); err != nil {
		t.Fatalf("WatchFile error: %v", err)
	}

	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644); err != nil {
		t.Fatalf("write new config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-changed:
			if h.Get().Logging.Level == "warn" {
				return
			}
		case <-deadline:
			t.Fatalf("file watcher did not reload, Logging.Level = %s", h.Get().Logging.Level)
		}
	}
}

func TestHolder_StopTwice(t *testing.T) {
	h, err := config.NewHolder(writeConfig(t, validConfig()), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	h.Stop()
	h.Stop()
}

func TestHolder_ConcurrentAccess(t *testing.T) {
	h, err := config.NewHolder(writeConfig(t, validConfig()), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if h.Get() == nil {
					t.Error("concurrent Get returned nil")
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Reload()
		}()
	}
	wg.Wait()
}

func TestNewHolder_MissingFile(t *testing.T) {
	_, err := config.NewHolder(filepath.Join(t.TempDir(), "none.yaml"), zerolog.Nop())
	if err == nil {
		t.Fatal("expected error")
	}
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		t.Errorf("err = %v, want a wrapped *os.PathError", err)
	}
}

func TestReloadableFields(t *testing.T) {
	if !slices.Contains(config.ReloadableFields(), "logging.level") {
		t.Error("logging.level not in ReloadableFields")
	}
	for _, f := range []string{"server.port", "store.mode", "store.dsn"} {
		if !slices.Contains(config.NonReloadableFields(), f) {
			t.Errorf("%s not in NonReloadableFields", f)
		}
	}
}

// Helpers

func validConfig() string {
	return `
store:
  mode: memory

logging:
  level: info
`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wizide.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
