// Package blob implements a durable store that keeps each value in its own
// file under a root directory. The file name is derived from the SHA-1 hash
// of the key, followed by the value kind, so keys can be arbitrary strings.
package blob

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"go.hackfix.me/hoard/fileops"
	"go.hackfix.me/hoard/store"
	"go.hackfix.me/hoard/timing"
)

// Store is a durable blob store. All I/O is done via fileops.FileOps.
type Store struct {
	dir    string
	fops   fileops.FileOps
	logger *slog.Logger
	timer  *timing.Accumulator
}

var _ store.Backend = &Store{}

// Option is a function that allows configuring the store.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithTiming accumulates the time spent in Get and Put under the "blob" name
// of t.
func WithTiming(t *timing.Timing) Option {
	return func(s *Store) {
		if t != nil {
			s.timer = t.Get("blob")
		}
	}
}

// New returns a new blob store rooted at dir. A leading '~' in dir is
// expanded to the user's home directory.
func New(dir string, fops fileops.FileOps, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("blob store directory must not be empty")
	}
	if fops == nil {
		return nil, errors.New("blob store requires file operations")
	}

	s := &Store{dir: expandHome(dir), fops: fops, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path where the value of the given kind and key is
// stored.
func (s *Store) Path(kind store.Kind, key string) string {
	sum := sha1.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+string(kind))
}

// Get implements store.Backend.
func (s *Store) Get(kind store.Kind, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, store.ErrEmptyKey
	}
	defer s.timer.Start()()

	path := s.Path(kind, key)
	isFile, err := s.fops.IsFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed checking blob of key '%s': %w", key, err)
	}
	if !isFile {
		s.logger.Debug("blob not found", "key", key, "kind", kind)
		return nil, false, nil
	}

	data, err := s.fops.ReadBytes(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed reading blob of key '%s': %w", key, err)
	}
	s.logger.Debug("read blob", "key", key, "kind", kind, "size", len(data), "path", path)

	return data, true, nil
}

// Put implements store.Backend.
func (s *Store) Put(kind store.Kind, key string, value []byte) error {
	if key == "" {
		return store.ErrEmptyKey
	}
	defer s.timer.Start()()

	path := s.Path(kind, key)
	if err := s.fops.CreateParentDirs(path); err != nil {
		return fmt.Errorf("failed storing blob of key '%s': %w", key, err)
	}
	if err := s.fops.WriteBytes(path, value); err != nil {
		return fmt.Errorf("failed storing blob of key '%s': %w", key, err)
	}
	s.logger.Debug("stored blob", "key", key, "kind", kind, "size", len(value), "path", path)

	return nil
}

func expandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}
