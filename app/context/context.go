package context

import (
	"context"
	"io"
	"log/slog"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/hoard/store/blob"
	"go.hackfix.me/hoard/store/hash"
)

// Context contains common objects used by the application. It is passed around
// the application to avoid direct dependencies on external systems, and make
// testing easier.
type Context struct {
	Ctx     context.Context
	Version *VersionInfo
	FS      vfs.FileSystem
	Logger  *slog.Logger

	// Standard streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Store is the cache tier all commands read from and write to.
	Store *hash.Store
	// Blob is the durable tier, if the blob backend is in use.
	Blob *blob.Store
}
