// Package migrator applies SQL schema migrations and keeps track of which ones
// were already applied.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
	"time"
)

// Querier is the subset of *sql.DB used for running migrations.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Migration is a database schema migration.
type Migration struct {
	Name      string
	SQL       string
	Applied   bool
	AppliedAt time.Time
}

var fnameRx = regexp.MustCompile(`^(?P<name>\d+-[a-z0-9-_]+)\.up\.sql$`)

// Load reads the migration files in dir, and returns them sorted by name.
// Files that don't match the '<number>-<name>.up.sql' pattern are ignored.
func Load(dir fs.FS) ([]*Migration, error) {
	entries, err := fs.ReadDir(dir, ".")
	if err != nil {
		return nil, fmt.Errorf("failed reading migrations: %w", err)
	}

	migrations := []*Migration{}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		matched := fnameRx.FindStringSubmatch(e.Name())
		if len(matched) == 0 {
			continue
		}
		data, err := fs.ReadFile(dir, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed reading migration '%s': %w", e.Name(), err)
		}
		migrations = append(migrations, &Migration{
			Name: matched[fnameRx.SubexpIndex("name")],
			SQL:  string(data),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})

	return migrations, nil
}

// Run applies all migrations that haven't been applied yet, in order.
func Run(ctx context.Context, q Querier, migrations []*Migration, logger *slog.Logger) error {
	_, err := q.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS _migration_history (
			name  VARCHAR(128) PRIMARY KEY,
			time  TIMESTAMP NOT NULL
		);`)
	if err != nil {
		return fmt.Errorf("failed creating migrations schema: %w", err)
	}

	if err = loadHistory(ctx, q, migrations); err != nil {
		return err
	}

	for _, m := range pending(migrations) {
		if _, err = q.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed applying migration '%s': %w", m.Name, err)
		}
		now := time.Now().UTC()
		_, err = q.ExecContext(ctx,
			`INSERT INTO _migration_history (name, time) VALUES (?, ?)`, m.Name, now)
		if err != nil {
			return fmt.Errorf("failed recording migration '%s': %w", m.Name, err)
		}
		m.Applied = true
		m.AppliedAt = now
		logger.Debug("applied DB migration", "name", m.Name)
	}

	return nil
}

func loadHistory(ctx context.Context, q Querier, migrations []*Migration) error {
	byName := make(map[string]*Migration, len(migrations))
	for _, m := range migrations {
		byName[m.Name] = m
	}

	rows, err := q.QueryContext(ctx, `SELECT name, time FROM _migration_history`)
	if err != nil {
		return fmt.Errorf("failed retrieving migration history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name string
			at   time.Time
		)
		if err := rows.Scan(&name, &at); err != nil {
			return fmt.Errorf("failed reading migration history: %w", err)
		}
		m, ok := byName[name]
		if !ok {
			return fmt.Errorf("found unknown migration in history: '%s'", name)
		}
		m.Applied = true
		m.AppliedAt = at
	}

	return rows.Err()
}

func pending(migrations []*Migration) []*Migration {
	toRun := []*Migration{}
	for _, m := range migrations {
		if !m.Applied {
			toRun = append(toRun, m)
		}
	}
	return toRun
}
