// Package badger implements a durable store.Backend on top of a Badger
// database.
package badger

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"go.hackfix.me/hoard/store"
)

// Store is a Badger-backed durable store.
type Store struct {
	db *badger.DB
}

var _ store.Backend = &Store{}

// Open opens the Badger database in the path directory. If path is empty, the
// database is kept in memory.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed opening badger database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements store.Backend.
func (s *Store) Get(kind store.Kind, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, store.ErrEmptyKey
	}

	txn := s.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(dbKey(kind, key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, err
	}

	return val, true, nil
}

// Put implements store.Backend.
func (s *Store) Put(kind store.Kind, key string, value []byte) error {
	if key == "" {
		return store.ErrEmptyKey
	}

	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	if err := txn.Set(dbKey(kind, key), value); err != nil {
		return err
	}

	return txn.Commit()
}

func dbKey(kind store.Kind, key string) []byte {
	return []byte(string(kind) + ":" + key)
}
