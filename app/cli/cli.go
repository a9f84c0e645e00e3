package cli

import (
	"path/filepath"

	"github.com/alecthomas/kong"
)

// CLI is the command line interface of hoard.
type CLI struct {
	Get     Get     `kong:"cmd,help='Get the value of a key.'"`
	Set     Set     `kong:"cmd,help='Set the value of a key.'"`
	Path    Path    `kong:"cmd,help='Print the path of the file that stores the value of a key.'"`
	Version Version `kong:"cmd,help='Print the application version.'"`

	DataDir  string `default:"${dataDir}" help:"Directory where hoard stores its data."`
	BlobDir  string `help:"Directory of the blob store. Defaults to 'blob_store' within the data directory."`
	Backend  string `enum:"blob,badger,sqlite" default:"blob" help:"Durable storage backend (${enum})."`
	LogLevel string `enum:"debug,info,warn,error" default:"info" help:"Minimum level of log messages (${enum})."`
	LogFile  string `help:"Write log messages to a rotated file instead of stderr."`
}

// Parser returns a new command line parser for c. opts are appended to the
// default options.
func (c *CLI) Parser(dataDir string, opts ...kong.Option) (*kong.Kong, error) {
	kopts := []kong.Option{
		kong.Name("hoard"),
		kong.Description("A two-tier key-value store."),
		kong.UsageOnError(),
		kong.DefaultEnvars("HOARD"),
		kong.Vars{"dataDir": dataDir},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	}
	kopts = append(kopts, opts...)

	return kong.New(c, kopts...)
}

// BlobDirPath returns the configured blob store directory.
func (c *CLI) BlobDirPath() string {
	if c.BlobDir != "" {
		return c.BlobDir
	}
	return filepath.Join(c.DataDir, "blob_store")
}
