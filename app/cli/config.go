package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

// ConfigResolver returns a kong resolver that reads flag values from the JSON
// config files at paths. Keys are flag names in snake_case (e.g. "blob_dir"),
// though the hyphenated flag name ("blob-dir") is accepted as well. Missing
// files are ignored, and values in later files override earlier ones.
//
// A flag set via a non-empty environment variable is left alone, so the
// precedence is: command line, environment, config file, default value.
func ConfigResolver(fsys vfs.FileSystem, paths ...string) (kong.Resolver, error) {
	values := map[string]any{}
	for _, path := range paths {
		data, err := vfs.ReadFile(fsys, path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed reading config file '%s': %w", path, err)
		}

		cfg := map[string]any{}
		if err = json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed parsing config file '%s': %w", path, err)
		}
		for k, v := range cfg {
			values[strings.ReplaceAll(k, "-", "_")] = v
		}
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, env := range flag.Envs {
			if os.Getenv(env) != "" {
				return nil, nil
			}
		}
		return values[strings.ReplaceAll(flag.Name, "-", "_")], nil
	}), nil
}
