// Package fileops defines the file I/O boundary used by the durable stores,
// along with a real implementation backed by a virtual filesystem, and an
// in-memory fake for tests.
package fileops

import "fmt"

// FileOps is the set of file operations the durable stores depend on. All
// methods are keyed by a path.
type FileOps interface {
	// IsFile returns true if path exists and is a regular file. A missing path
	// is not an error.
	IsFile(path string) (bool, error)
	// CreateParentDirs ensures all directories leading up to path exist.
	CreateParentDirs(path string) error
	// WriteBytes replaces the contents of path, creating it if needed.
	WriteBytes(path string, content []byte) error
	// ReadBytes returns the contents of path.
	ReadBytes(path string) ([]byte, error)
}

// Error is a failed file operation.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed %s '%s': %s", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
