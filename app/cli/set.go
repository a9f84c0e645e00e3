package cli

import (
	"fmt"

	actx "go.hackfix.me/hoard/app/context"
	aerrors "go.hackfix.me/hoard/app/errors"
)

// The Set command stores the value of a key.
type Set struct {
	Key   string `arg:"" help:"The unique key that identifies the value."`
	Value string `arg:"" help:"The value."`
}

// Run the set command.
func (c *Set) Run(appCtx *actx.Context) error {
	if err := appCtx.Store.Put(c.Key, c.Value); err != nil {
		return aerrors.NewRuntimeError(
			fmt.Sprintf("failed storing key '%s'", c.Key), err,
			"Check that the data directory is writable.")
	}

	return nil
}
