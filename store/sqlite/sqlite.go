// Package sqlite implements a durable store.Backend on top of a SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"

	"go.hackfix.me/hoard/store"
	"go.hackfix.me/hoard/store/sqlite/migrator"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a SQLite-backed durable store.
type Store struct {
	db  *sql.DB
	ctx context.Context
}

var _ store.Backend = &Store{}

// Open opens the SQLite database at path, and applies any pending schema
// migrations. path can also be ":memory:".
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed opening sqlite database: %w", err)
	}
	// Each connection to an in-memory database would see a different database.
	db.SetMaxOpenConns(1)

	return newStore(ctx, db, migrationsFS, logger)
}

// newStore applies the migrations found in the "migrations" directory of
// migrationsRoot to db. db is closed if this fails.
func newStore(ctx context.Context, db *sql.DB, migrationsRoot fs.FS, logger *slog.Logger) (*Store, error) {
	if err := migrate(ctx, db, migrationsRoot, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, ctx: ctx}, nil
}

func migrate(ctx context.Context, db *sql.DB, migrationsRoot fs.FS, logger *slog.Logger) error {
	migrationsDir, err := fs.Sub(migrationsRoot, "migrations")
	if err != nil {
		return err
	}
	migrations, err := migrator.Load(migrationsDir)
	if err != nil {
		return err
	}

	return migrator.Run(ctx, db, migrations, logger)
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

	var value []byte
	err := s.db.QueryRowContext(s.ctx,
		`SELECT value FROM blobs WHERE kind = ? AND key = ?`,
		string(kind), key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed reading key '%s': %w", key, err)
	}

	return value, true, nil
}

// Put implements store.Backend.
func (s *Store) Put(kind store.Kind, key string, value []byte) error {
	if key == "" {
		return store.ErrEmptyKey
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.db.ExecContext(s.ctx,
		`INSERT INTO blobs (kind, key, value) VALUES (?, ?, ?)
		ON CONFLICT (kind, key) DO UPDATE SET value = excluded.value`,
		string(kind), key, value)
	if err != nil {
		return fmt.Errorf("failed writing key '%s': %w", key, err)
	}

	return nil
}
