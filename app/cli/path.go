package cli

import (
	"fmt"

	actx "go.hackfix.me/hoard/app/context"
	aerrors "go.hackfix.me/hoard/app/errors"
	"go.hackfix.me/hoard/store"
)

// The Path command prints the blob file path of a key. The file doesn't need
// to exist.
type Path struct {
	Key  string `arg:"" help:"The unique key associated with the value."`
	Kind string `enum:"b,s,j" default:"s" help:"The kind of value: (b)ytes, (s)tring or (j)son."`
}

// Run the path command.
func (c *Path) Run(appCtx *actx.Context) error {
	if appCtx.Blob == nil {
		return aerrors.NewRuntimeError(
			"the path command is only supported by the blob backend", nil,
			"Run it with --backend=blob.")
	}

	fmt.Fprintf(appCtx.Stdout, "%s\n", appCtx.Blob.Path(store.Kind(c.Kind), c.Key))

	return nil
}
