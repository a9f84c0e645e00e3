package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.hackfix.me/hoard/app/cli"
	actx "go.hackfix.me/hoard/app/context"
	aerrors "go.hackfix.me/hoard/app/errors"
	"go.hackfix.me/hoard/fileops"
	"go.hackfix.me/hoard/store"
	"go.hackfix.me/hoard/store/badger"
	"go.hackfix.me/hoard/store/blob"
	"go.hackfix.me/hoard/store/hash"
	"go.hackfix.me/hoard/store/sqlite"
	"go.hackfix.me/hoard/timing"
)

// App is the application.
type App struct {
	ctx         *actx.Context
	configFiles []string
	stderrTTY   bool
	clock       timing.Clock
	logFile     io.Closer

	// Resources of the current store, which are released when the store is
	// rebuilt or the app is closed.
	storeCfg storeConfig
	closers  []io.Closer
	timing   *timing.Timing

	Exit func(int)
}

// New initializes a new application.
func New(opts ...Option) *App {
	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		Version: actx.GetVersion(),
		FS:      memoryfs.New(),
		Logger:  slog.Default(),
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	app := &App{ctx: defaultCtx, Exit: func(int) {}}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// storeConfig is the part of the command line that determines which store is
// opened.
type storeConfig struct {
	backend string
	dir     string
}

// Run parses the command line arguments and runs the selected command. The
// store is initialized on the first run, and reused by subsequent runs that
// resolve to the same backend and location. Otherwise it's closed and
// replaced.
func (app *App) Run(args []string) error {
	cfgResolver, err := cli.ConfigResolver(app.ctx.FS, app.configFiles...)
	if err != nil {
		return err
	}

	c := &cli.CLI{}
	parser, err := c.Parser(filepath.Join(xdg.DataHome, "hoard"),
		kong.Exit(app.Exit),
		kong.Writers(app.ctx.Stdout, app.ctx.Stderr),
		kong.Resolvers(cfgResolver),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err = app.setupLogger(c.LogLevel, c.LogFile); err != nil {
		return err
	}

	cfg := storeConfig{backend: c.Backend, dir: c.DataDir}
	if c.Backend == "blob" {
		cfg.dir = c.BlobDirPath()
	}
	if app.ctx.Store == nil || cfg != app.storeCfg {
		if err = app.closeStore(); err != nil {
			return err
		}
		if err = app.initStore(c); err != nil {
			return err
		}
		app.storeCfg = cfg
	}

	return kctx.Run(app.ctx)
}

// Close releases any resources held by the store and the log file. The time
// spent in each storage tier is logged at debug level.
func (app *App) Close() error {
	errs := []error{app.closeStore()}
	if app.logFile != nil {
		errs = append(errs, app.logFile.Close())
		app.logFile = nil
	}

	return errors.Join(errs...)
}

func (app *App) closeStore() error {
	if app.timing != nil {
		app.timing.Log(app.ctx.Logger)
		app.timing = nil
	}

	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i].Close())
	}
	app.closers = nil
	app.ctx.Store = nil
	app.ctx.Blob = nil
	app.storeCfg = storeConfig{}

	return errors.Join(errs...)
}

// FatalIfErrorf terminates the application with an error message if err != nil.
func (app *App) FatalIfErrorf(err error, args ...any) {
	if err == nil {
		return
	}

	var (
		errCause aerrors.WithCause
		errHint  aerrors.WithHint
	)
	if errors.As(err, &errCause) {
		if cause := errCause.Cause(); cause != nil {
			args = append([]any{"cause", cause}, args...)
		}
	}
	if errors.As(err, &errHint) {
		if hint := errHint.Hint(); hint != "" {
			args = append(args, "hint", hint)
		}
	}

	app.ctx.Logger.Error(err.Error(), args...)
	_ = app.Close()
	app.Exit(1)
}

func (app *App) setupLogger(level, logFile string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level '%s': %w", level, err)
	}

	if app.logFile != nil {
		if err := app.logFile.Close(); err != nil {
			return err
		}
		app.logFile = nil
	}

	var (
		w       = app.ctx.Stderr
		noColor = !app.stderrTTY
	)
	if logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		app.logFile = lj
		w = lj
		noColor = true
	}

	app.ctx.Logger = slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			NoColor:    noColor,
			TimeFormat: "2006-01-02 15:04:05.000",
		}),
	)
	slog.SetDefault(app.ctx.Logger)

	return nil
}

// initStore assembles the storage tiers from the leaves up: the durable
// backend selected on the command line, and the cache in front of it.
func (app *App) initStore(c *cli.CLI) error {
	var (
		backend  store.Backend
		logger   = app.ctx.Logger
		tm       = timing.New(app.clock)
		inMemory = app.ctx.FS.Name() == "MemoryFileSystem"
	)

	if !inMemory && c.Backend != "blob" {
		if err := app.ctx.FS.MkdirAll(c.DataDir, 0o700); err != nil {
			return aerrors.NewRuntimeError("failed creating data directory", err, "")
		}
	}

	switch c.Backend {
	case "blob":
		fops := fileops.NewVFS(app.ctx.FS, logger)
		b, err := blob.New(c.BlobDirPath(), fops,
			blob.WithLogger(logger), blob.WithTiming(tm))
		if err != nil {
			return err
		}
		app.ctx.Blob = b
		backend = b
	case "badger":
		var path string
		if !inMemory {
			path = filepath.Join(c.DataDir, "badger")
		}
		b, err := badger.Open(path)
		if err != nil {
			return aerrors.NewRuntimeError("failed opening store", err, "")
		}
		app.closers = append(app.closers, b)
		backend = b
	case "sqlite":
		path := ":memory:"
		if !inMemory {
			path = filepath.Join(c.DataDir, "hoard.db")
		}
		s, err := sqlite.Open(app.ctx.Ctx, path, logger)
		if err != nil {
			return aerrors.NewRuntimeError("failed opening store", err, "")
		}
		app.closers = append(app.closers, s)
		backend = s
	default:
		return fmt.Errorf("unknown backend '%s'", c.Backend)
	}

	app.ctx.Store = hash.New(backend, hash.WithLogger(logger), hash.WithTiming(tm))
	app.timing = tm
	logger.Debug("initialized store", "backend", c.Backend)

	return nil
}
