// Package hash implements an in-memory string cache, optionally in front of a
// durable store.Backend.
//
// Writes go through to the backend before the cache is updated, and reads
// that miss the cache are served from the backend and cached. Values are
// expected to be short, such as content hashes; larger data should be stored
// in the backend directly.
package hash

import (
	"log/slog"
	"sync"

	"go.hackfix.me/hoard/store"
	"go.hackfix.me/hoard/timing"
)

// Store is the in-memory cache tier.
type Store struct {
	backend store.Backend
	logger  *slog.Logger
	timer   *timing.Accumulator

	mx    sync.RWMutex
	cache map[string]string
}

// Option is a function that allows configuring the store.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithTiming accumulates the time spent in Get and Put under the "hash" name
// of t. This includes the time spent in the backend.
func WithTiming(t *timing.Timing) Option {
	return func(s *Store) {
		if t != nil {
			s.timer = t.Get("hash")
		}
	}
}

// New returns a new cache store. If backend is nil, the store is purely
// in-memory.
func New(backend store.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  slog.Default(),
		cache:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get returns the value of key. If it isn't cached, it is read from the
// backend, and cached if found.
func (s *Store) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, store.ErrEmptyKey
	}
	defer s.timer.Start()()

	s.mx.RLock()
	val, ok := s.cache[key]
	s.mx.RUnlock()
	if ok {
		s.logger.Debug("cache hit", "key", key)
		return val, true, nil
	}

	s.logger.Debug("cache miss", "key", key)
	if s.backend == nil {
		return "", false, nil
	}

	val, ok, err := store.GetString(s.backend, key)
	if err != nil || !ok {
		return "", false, err
	}

	s.mx.Lock()
	defer s.mx.Unlock()
	// A concurrent Put has precedence over the value just read.
	if cur, exists := s.cache[key]; exists {
		return cur, true, nil
	}
	s.cache[key] = val

	return val, true, nil
}

// Put stores value under key. If the store has a backend, the value is
// written to it first, and only cached if that succeeds.
func (s *Store) Put(key, value string) error {
	if key == "" {
		return store.ErrEmptyKey
	}
	defer s.timer.Start()()

	s.mx.Lock()
	defer s.mx.Unlock()

	if s.backend != nil {
		if err := store.PutString(s.backend, key, value); err != nil {
			return err
		}
	}
	s.cache[key] = value

	return nil
}

// Len returns the number of cached values.
func (s *Store) Len() int {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return len(s.cache)
}
