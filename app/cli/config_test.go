package cli

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigResolver(t *testing.T) {
	t.Setenv("HOARD_BLOB_DIR", "")
	t.Setenv("HOARD_BACKEND", "")
	t.Setenv("HOARD_DATA_DIR", "")

	fs := memoryfs.New()
	require.NoError(t, fs.MkdirAll("/etc/hoard", 0o700))
	require.NoError(t, vfs.WriteFile(fs, "/etc/hoard/base.json",
		[]byte(`{"backend": "sqlite", "blob_dir": "/base/blobs"}`), 0o600))
	require.NoError(t, vfs.WriteFile(fs, "/etc/hoard/override.json",
		[]byte(`{"blob-dir": "/override/blobs"}`), 0o600))

	parse := func(t *testing.T, args ...string) *CLI {
		t.Helper()
		resolver, err := ConfigResolver(fs,
			"/etc/hoard/base.json", "/etc/hoard/missing.json", "/etc/hoard/override.json")
		require.NoError(t, err)

		c := &CLI{}
		parser, err := c.Parser("/data", kong.Resolvers(resolver))
		require.NoError(t, err)
		_, err = parser.Parse(append(args, "version"))
		require.NoError(t, err)
		return c
	}

	c := parse(t)
	assert.Equal(t, "sqlite", c.Backend)
	assert.Equal(t, "/override/blobs", c.BlobDir)
	assert.Equal(t, "/data", c.DataDir)

	c = parse(t, "--backend=badger")
	assert.Equal(t, "badger", c.Backend)

	t.Setenv("HOARD_BLOB_DIR", "/env/blobs")
	c = parse(t)
	assert.Equal(t, "/env/blobs", c.BlobDir)
	assert.Equal(t, "sqlite", c.Backend)
}

func TestConfigResolverInvalid(t *testing.T) {
	t.Parallel()

	fs := memoryfs.New()
	require.NoError(t, vfs.WriteFile(fs, "/config.json", []byte(`{"backend":`), 0o600))

	_, err := ConfigResolver(fs, "/config.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed parsing config file '/config.json'")
}
