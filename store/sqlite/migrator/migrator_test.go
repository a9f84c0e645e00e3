package migrator

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"testing/fstest"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := fstest.MapFS{
		"002-second.up.sql":  {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001-first.up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"001-first.down.sql": {Data: []byte("DROP TABLE a;")},
		"README.md":          {Data: []byte("ignored")},
	}

	migrations, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "001-first", migrations[0].Name)
	assert.Equal(t, "CREATE TABLE a (id INTEGER);", migrations[0].SQL)
	assert.Equal(t, "002-second", migrations[1].Name)
}

func TestPending(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		migrations []*Migration
		expected   []string
	}{
		{migrations: []*Migration{}, expected: []string{}},
		{
			migrations: []*Migration{{Name: "a"}, {Name: "b"}},
			expected:   []string{"a", "b"},
		},
		{
			migrations: []*Migration{{Name: "a", Applied: true}, {Name: "b"}},
			expected:   []string{"b"},
		},
		{
			migrations: []*Migration{{Name: "a", Applied: true}, {Name: "b", Applied: true}},
			expected:   []string{},
		},
	}

	for _, tc := range testCases {
		names := []string{}
		for _, m := range pending(tc.migrations) {
			names = append(names, m.Name)
		}
		assert.Equal(t, tc.expected, names)
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	logger := slog.Default()
	load := func() []*Migration {
		migrations, err := Load(fstest.MapFS{
			"001-first.up.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
		})
		require.NoError(t, err)
		return migrations
	}

	migrations := load()
	require.NoError(t, Run(ctx, db, migrations, logger))
	assert.True(t, migrations[0].Applied)

	// Running again is a no-op, since the history is loaded from the DB.
	migrations = load()
	require.NoError(t, Run(ctx, db, migrations, logger))
	assert.True(t, migrations[0].Applied)

	_, err = db.ExecContext(ctx, `INSERT INTO a (id) VALUES (1)`)
	require.NoError(t, err)

	err = Run(ctx, db, []*Migration{}, logger)
	assert.EqualError(t, err, "found unknown migration in history: '001-first'")
}
