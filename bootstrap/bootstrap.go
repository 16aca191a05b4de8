// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/artpar/wizide/adapters/hasher"
	apihttp "github.com/artpar/wizide/adapters/http"
	"github.com/artpar/wizide/adapters/idgen"
	"github.com/artpar/wizide/adapters/memory"
	"github.com/artpar/wizide/adapters/metrics"
	"github.com/artpar/wizide/adapters/notify"
	"github.com/artpar/wizide/adapters/remote"
	"github.com/artpar/wizide/adapters/render"
	"github.com/artpar/wizide/adapters/sqlite"
	"github.com/artpar/wizide/app"
	"github.com/artpar/wizide/config"
	"github.com/artpar/wizide/core/session"
	"github.com/artpar/wizide/ports"
)

const shutdownTimeout = 30 * time.Second

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config
	Holder     *config.Holder // nil unless started from a config file
	DB         *sqlite.DB     // nil unless store.mode is sqlite
	Store      ports.Store
	Manager    *session.Manager
	Catalogs   apihttp.Catalogs
	Hub        *apihttp.Hub
	Notifier   *notify.Logger
	Metrics    *metrics.Collector
	HTTPServer *http.Server

	builder  ports.Builder
	registry *prometheus.Registry
}

// Options provides optional configuration for application initialization.
type Options struct {
	// ConfigPath is loaded and watched when the file exists. Otherwise
	// configuration comes from WIZIDE_* environment variables.
	ConfigPath string
	// Config is used as-is when set; ConfigPath is ignored.
	Config *config.Config
	// Version is reported by GET /version.
	Version string
	// LogOutput defaults to os.Stdout.
	LogOutput io.Writer
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.LoadWithFallback(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stdout
	}
	logger := setupLogger(cfg.Logging, out)
	logger.Info().Str("store", cfg.Store.Mode).Msg("initializing wizide")

	a := &App{
		Logger: logger,
		Config: cfg,
	}

	if opts.Config == nil && fileExists(opts.ConfigPath) {
		holder, err := config.NewHolder(opts.ConfigPath, logger)
		if err != nil {
			return nil, fmt.Errorf("config holder: %w", err)
		}
		a.Holder = holder
		a.Config = holder.Get()
		cfg = a.Config
	}

	if err := a.initStore(cfg.Store); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.NewWithRegistry(a.registry)
		logger.Info().Str("path", cfg.Metrics.Path).Msg("prometheus metrics enabled")
	}

	a.Hub = apihttp.NewHub(apihttp.HubConfig{
		Logger:  logger,
		Metrics: a.Metrics,
		Buffer:  cfg.Session.EventBuffer,
	})

	a.Notifier = notify.New(logger)
	a.Notifier.Subscribe(a.Hub.Notice)

	observers := session.Observers{a.Hub}
	if a.Metrics != nil {
		observers = append(observers, a.Metrics)
	}
	a.Manager = session.NewManager(session.Options{
		Logger:         logger,
		IDs:            idgen.UUID{},
		Observer:       observers,
		DefaultTabName: cfg.Session.DefaultTabName,
	})

	a.Catalogs = newCatalogs(app.Deps{
		Manager:   a.Manager,
		Store:     a.Store,
		Builder:   a.builder,
		Notifier:  a.Notifier,
		Previewer: a.Hub,
		Logger:    logger,
	}, cfg.Catalog)

	a.initHTTPServer(opts.Version)
	a.watchConfig()

	return a, nil
}

func (a *App) initStore(cfg config.StoreConfig) error {
	switch cfg.Mode {
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return err
		}
		if err := db.Migrate(context.Background()); err != nil {
			db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		a.DB = db
		a.Store = sqlite.NewFileStore(db)
		a.builder = sqlite.NewBuildLog(db)
	case config.StoreRemote:
		client := remote.NewClient(remote.ClientConfig{
			BaseURL: cfg.Remote.URL,
			APIKey:  cfg.Remote.APIKey,
			Timeout: cfg.Remote.Timeout,
			Headers: cfg.Remote.Headers,
		})
		a.Store = remote.NewStore(client)
		a.builder = remote.NewBuilder(client)
	default:
		// nothing to build against; catalogs skip the build step
		a.Store = memory.NewStore()
	}
	return nil
}

func newCatalogs(deps app.Deps, cfg config.CatalogConfig) apihttp.Catalogs {
	apps := make(map[string]*app.AppCatalog, len(cfg.AppModes))
	for _, mode := range cfg.AppModes {
		apps[mode] = app.NewAppCatalog(deps, app.AppCatalogConfig{Mode: mode})
	}

	var items []app.SourceItem
	for _, src := range cfg.Sources {
		item := app.SourceItem{
			Title:    src.Title,
			Subtitle: src.Subtitle,
			Path:     src.Path,
			Lang:     src.Lang,
		}
		for _, f := range src.Files {
			item.Files = append(item.Files, app.SourceFile{Name: f.Name, Path: f.Path, Lang: f.Lang})
		}
		items = append(items, item)
	}

	return apihttp.Catalogs{
		Apps:    apps,
		Routes:  app.NewRouteCatalog(deps, ""),
		Sources: app.NewSourceCatalog(deps, "", items),
	}
}

func (a *App) initHTTPServer(version string) {
	cfg := a.Config

	rc := apihttp.RouterConfig{
		Manager:       a.Manager,
		Catalogs:      a.Catalogs,
		Hub:           a.Hub,
		Renderer:      render.New(io.Discard),
		Logger:        a.Logger,
		Version:       version,
		Metrics:       a.Metrics,
		MetricsPath:   cfg.Metrics.Path,
		EnableOpenAPI: cfg.OpenAPI.Enabled,
		APIKeyHash:    cfg.Server.APIKeyHash,
		Hasher:        hasher.NewBcrypt(bcrypt.DefaultCost),
		Timeout:       cfg.Server.WriteTimeout,
	}
	if a.registry != nil {
		rc.MetricsHandler = promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})
	}

	a.HTTPServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      apihttp.NewRouter(rc),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func (a *App) watchConfig() {
	if a.Holder == nil {
		return
	}
	a.Holder.OnChange(func(cfg *config.Config) {
		level, err := zerolog.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return
		}
		zerolog.SetGlobalLevel(level)
		a.Logger.Info().Str("level", level.String()).Msg("log level updated")
	})
	if a.Metrics != nil {
		a.Holder.OnReload(a.Metrics.ConfigReloaded)
	}
}

// Run starts the HTTP server and blocks until ctx is done, SIGINT or
// SIGTERM arrives, or the server fails.
func (a *App) Run(ctx context.Context) error {
	if a.Holder != nil {
		if err := a.Holder.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("config file watch disabled")
		}
		a.Holder.WatchSignals()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		a.Shutdown()
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
		a.Logger.Info().Msg("context done, shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.Holder != nil {
		a.Holder.Stop()
	}

	// hijacked websocket connections are not tracked by http.Server
	if a.Hub != nil {
		a.Hub.Close()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(out).With().Timestamp().Logger()
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
