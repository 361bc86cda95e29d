package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/dex/internal/config"
	"github.com/five82/dex/internal/engine"
	"github.com/five82/dex/internal/favorites"
	"github.com/five82/dex/internal/feature/detail"
	favfeature "github.com/five82/dex/internal/feature/favorites"
	"github.com/five82/dex/internal/feature/list"
	"github.com/five82/dex/internal/feature/root"
	"github.com/five82/dex/internal/logging"
	"github.com/five82/dex/internal/pokeapi"
	"github.com/five82/dex/internal/prefs"
	"github.com/five82/dex/internal/ui"
)

// Options configure the dex application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/dex/prefs.toml
	LogLevel   string // overrides log_level from the config when set
}

// App holds every wired component between startup and Close.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Store  favorites.Store
	Engine *engine.Engine[root.State, root.Action]

	closeLog func() error
}

// New loads configuration and wires the logger, favorites store, catalog
// client and engine. The engine is not started.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	store, err := OpenStore(cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	client, err := pokeapi.NewClient(cfg.APIBaseURL,
		pokeapi.WithTimeout(cfg.RequestTimeout),
		pokeapi.WithSearchLimit(cfg.SearchLimit),
		pokeapi.WithLogger(logger),
	)
	if err != nil {
		_ = store.Close()
		_ = closeLog()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	overlay := detail.Feature{Catalog: client, Favorites: store}
	feature := root.Feature{
		List: list.Feature{
			Catalog:  client,
			Detail:   overlay,
			PageSize: cfg.PageSize,
			Debounce: cfg.Debounce,
		},
		Favorites: favfeature.Feature{Store: store, Detail: overlay},
	}
	eng := engine.New(root.State{}, feature.Reducer(), engine.WithLogger(logger.Named("engine")))

	logger.Info("dex initialised",
		zap.String("api", cfg.APIBaseURL),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("store_path", cfg.StorePath),
	)
	return &App{Config: cfg, Logger: logger, Store: store, Engine: eng, closeLog: closeLog}, nil
}

// OpenStore opens the configured favorites backend behind the logging
// decorator.
func OpenStore(cfg config.Config, logger *zap.Logger) (favorites.Store, error) {
	store, err := favorites.Open(cfg.StoreBackend, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open favorites: %w", err)
	}
	return favorites.Logged(store, logger), nil
}

// Close releases the store and flushes the log.
func (a *App) Close() error {
	return errors.Join(a.Store.Close(), a.closeLog())
}

// Run boots the dex TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	a, err := New(opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	stop := StartEngine(ctx, a.Engine, a.Logger)
	defer func() { _ = stop() }()

	a.Engine.Send(root.TabSelected{Tab: root.ParseTab(userPrefs.Tab)})

	final, err := ui.Run(ui.Options{
		Context:   ctx,
		Store:     a.Engine,
		ThemeName: userPrefs.Theme,
		Logger:    a.Logger,
	})
	if saveErr := prefs.Save(prefsPath, final); saveErr != nil {
		a.Logger.Warn("save prefs failed", zap.Error(saveErr))
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
