package app

import (
	"context"
	"io"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/hoard/timing"
)

// Option is a function that allows configuring the application.
type Option func(*App)

// WithClock sets the clock used to time the storage tiers.
func WithClock(clock timing.Clock) Option {
	return func(app *App) {
		app.clock = clock
	}
}

// WithConfigFiles sets the paths of JSON files flag values are loaded from.
// The files are read from the application filesystem, and missing files are
// ignored. Keys are snake_case flag names, e.g.
//
//	{"backend": "blob", "blob_dir": "~/.hoard/blobs"}
//
// Values from the command line and HOARD_* environment variables take
// precedence over the config files.
func WithConfigFiles(paths ...string) Option {
	return func(app *App) {
		app.configFiles = paths
	}
}

// WithContext sets the context of the application.
func WithContext(ctx context.Context) Option {
	return func(app *App) {
		app.ctx.Ctx = ctx
	}
}

// WithExit sets the function that stops the application.
func WithExit(fn func(int)) Option {
	return func(app *App) {
		app.Exit = fn
	}
}

// WithFDs sets the file descriptors used by the application.
func WithFDs(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(app *App) {
		app.ctx.Stdin = stdin
		app.ctx.Stdout = stdout
		app.ctx.Stderr = stderr
	}
}

// WithFS sets the filesystem used by the application.
func WithFS(fs vfs.FileSystem) Option {
	return func(app *App) {
		app.ctx.FS = fs
	}
}

// WithStderrTTY sets whether stderr is a terminal, in which case log output
// is colored.
func WithStderrTTY(isTTY bool) Option {
	return func(app *App) {
		app.stderrTTY = isTTY
	}
}
