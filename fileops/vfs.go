package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

// VFS implements FileOps on top of a vfs.FileSystem. In production this is
// the OS filesystem, and in tests usually an in-memory one.
type VFS struct {
	fs     vfs.FileSystem
	logger *slog.Logger
}

var _ FileOps = &VFS{}

// NewVFS returns a FileOps backed by the given filesystem.
func NewVFS(fsys vfs.FileSystem, logger *slog.Logger) *VFS {
	if logger == nil {
		logger = slog.Default()
	}
	return &VFS{fs: fsys, logger: logger}
}

// IsFile implements FileOps.
func (v *VFS) IsFile(path string) (bool, error) {
	fi, err := v.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &Error{Op: "checking file", Path: path, Err: err}
	}

	return fi.Mode().IsRegular(), nil
}

// CreateParentDirs implements FileOps.
func (v *VFS) CreateParentDirs(path string) error {
	dir := filepath.Dir(path)
	if err := v.fs.MkdirAll(dir, 0o700); err != nil {
		return &Error{Op: "creating directory", Path: dir, Err: err}
	}

	return nil
}

// WriteBytes implements FileOps. The content is first written to a temporary
// file in the same directory, which is then renamed over path, so readers
// never observe a partial write.
func (v *VFS) WriteBytes(path string, content []byte) (err error) {
	tmpPath := filepath.Join(filepath.Dir(path),
		fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	f, err := v.fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return &Error{Op: "creating file", Path: tmpPath, Err: err}
	}
	defer func() {
		if err != nil {
			_ = v.fs.Remove(tmpPath)
		}
	}()

	_, err = f.Write(content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &Error{Op: "writing file", Path: tmpPath, Err: err}
	}

	if err = v.rename(tmpPath, path); err != nil {
		return &Error{Op: "renaming file", Path: path, Err: err}
	}

	v.logger.Debug("wrote file", "path", path, "size", len(content))

	return nil
}

// rename moves oldPath over newPath. Not every vfs.FileSystem replaces an
// existing target, so in that case the target is removed first.
func (v *VFS) rename(oldPath, newPath string) error {
	err := v.fs.Rename(oldPath, newPath)
	if err == nil || !errors.Is(err, fs.ErrExist) {
		return err
	}
	if err = v.fs.Remove(newPath); err != nil {
		return err
	}

	return v.fs.Rename(oldPath, newPath)
}

// ReadBytes implements FileOps. Reading a missing path returns an error that
// wraps fs.ErrNotExist.
func (v *VFS) ReadBytes(path string) ([]byte, error) {
	data, err := vfs.ReadFile(v.fs, path)
	if err != nil {
		return nil, &Error{Op: "reading file", Path: path, Err: err}
	}

	v.logger.Debug("read file", "path", path, "size", len(data))

	return data, nil
}
