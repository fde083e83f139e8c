// Package cli wires the dumbtile commands to the layout engine.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/dumbtile/internal/application/usecase"
	"github.com/bnema/dumbtile/internal/cli/styles"
	"github.com/bnema/dumbtile/internal/domain/build"
	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/repository"
	"github.com/bnema/dumbtile/internal/infrastructure/config"
	"github.com/bnema/dumbtile/internal/infrastructure/layoutfile"
	"github.com/bnema/dumbtile/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/dumbtile/internal/logging"
)

// Options controls how NewApp sets itself up.
type Options struct {
	// ConfigFile overrides the XDG config path.
	ConfigFile string
	// LogToFile sends logs to the rotating file in logging.log_dir instead
	// of stderr. The preview needs this because it owns the terminal.
	LogToFile bool
	// SkipStore leaves stored profiles unloaded.
	SkipStore bool
}

// App holds CLI dependencies.
type App struct {
	Config        *config.Config
	ConfigManager *config.Manager
	Theme         *styles.Theme
	BuildInfo     build.Info

	Layouts repository.LayoutRepository
	Screen  *usecase.ManageScreenUseCase

	// Declared holds the layout files found in the profiles directory.
	Declared []*layoutfile.File

	db    *sqlite.LazyDB
	trace *logging.StartupTrace

	// Context with logger
	ctx        context.Context
	logCleanup func()
}

// NewApp loads config, opens the profile store and registers every profile.
func NewApp(opts Options) (*App, error) {
	boot := logging.NewFromEnv()
	boot.Debug().Str("config", opts.ConfigFile).Msg("loading config")

	mgr, err := newConfigManager(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	trace := logging.NewStartupTrace(cfg.Logging.Level)
	trace.Mark("config_loaded")

	logger, logCleanup, err := newLogger(cfg, opts.LogToFile)
	if err != nil {
		return nil, err
	}
	ctx := logging.WithContext(context.Background(), logger)
	trace.SetLogger(&logger)
	trace.Mark("logger_init")

	db := sqlite.NewLazyDB(cfg.Database.Path)
	layouts := sqlite.NewLazyLayoutRepository(db)

	app := &App{
		Config:        cfg,
		ConfigManager: mgr,
		Theme:         styles.NewTheme(cfg),
		Layouts:       layouts,
		db:            db,
		trace:         trace,
		ctx:           ctx,
		logCleanup:    logCleanup,
	}

	if err := app.initScreen(opts.SkipStore); err != nil {
		_ = app.Close()
		return nil, err
	}
	trace.Mark("profiles_loaded")
	return app, nil
}

func newConfigManager(path string) (*config.Manager, error) {
	if path != "" {
		return config.NewManagerForFile(path)
	}
	return config.NewManager()
}

// newLogger builds the CLI logger. Commands log to stderr; the preview logs
// to a rotating file.
func newLogger(cfg *config.Config, toFile bool) (zerolog.Logger, func(), error) {
	if !toFile {
		return logging.NewFromConfigValuesTo(cfg.Logging.Level, cfg.Logging.Format, os.Stderr), nil, nil
	}

	rotator, err := logging.NewLogRotator(logging.RotatorConfig{
		Dir:        cfg.Logging.LogDir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	// Console output in a file keeps the color codes out.
	var out io.Writer = rotator
	if cfg.Logging.Format != "json" {
		out = zerolog.ConsoleWriter{Out: rotator, NoColor: true, TimeFormat: "15:04:05"}
	}
	logger := zerolog.New(out).
		Level(logging.ParseLevel(cfg.Logging.Level, zerolog.InfoLevel)).
		With().Timestamp().Logger()
	return logger, func() { _ = rotator.Close() }, nil
}

// initScreen opens the store and scans the profiles directory in parallel,
// then registers declared and stored profiles and activates the default one.
func (a *App) initScreen(skipStore bool) error {
	ctx := a.ctx
	log := logging.FromContext(ctx)

	var layouts repository.LayoutRepository
	if !skipStore {
		layouts = a.Layouts
	}

	g, gctx := errgroup.WithContext(ctx)
	if !skipStore {
		g.Go(func() error {
			_, err := a.db.DB(gctx)
			return err
		})
	}
	g.Go(func() error {
		files, err := layoutfile.ScanDir(gctx, a.Config.Layout.ProfilesDir)
		a.Declared = files
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	a.trace.Mark("parallel_done")

	a.Screen = usecase.NewManageScreenUseCase(nil, layouts)
	a.Screen.SetCloseStrategy(ctx, a.Config.Layout.CloseStrategy)
	a.Screen.SetDefaultView(entity.ViewTag(a.Config.Layout.DefaultView))

	if _, err := a.Screen.LoadProfiles(ctx, ProfileSources(a.Declared)); err != nil {
		return err
	}

	if err := a.Screen.SwitchProfile(ctx, a.Config.Layout.DefaultProfile); err != nil {
		log.Warn().Err(err).Str("profile", a.Config.Layout.DefaultProfile).Msg("default profile unavailable, using small")
	}
	return nil
}

// ProfileSources converts layout files to declared profiles.
func ProfileSources(files []*layoutfile.File) []usecase.ProfileSource {
	out := make([]usecase.ProfileSource, 0, len(files))
	for _, f := range files {
		out = append(out, usecase.ProfileSource{Name: f.Name, Root: f.Layout, Origin: f.Path})
	}
	return out
}

// FinishStartup logs the startup milestones. Call it once the first frame
// or the command output is produced.
func (a *App) FinishStartup() {
	a.trace.Finish()
}

// Close releases all resources.
func (a *App) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
	}
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// DatabasePath returns the profile store location.
func (a *App) DatabasePath() string {
	return a.db.Path()
}
