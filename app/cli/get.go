package cli

import (
	"fmt"

	actx "go.hackfix.me/hoard/app/context"
	aerrors "go.hackfix.me/hoard/app/errors"
)

// The Get command retrieves and prints the value of a key.
type Get struct {
	Key string `arg:"" help:"The unique key associated with the value."`
}

// Run the get command.
func (c *Get) Run(appCtx *actx.Context) error {
	val, ok, err := appCtx.Store.Get(c.Key)
	if err != nil {
		return aerrors.NewRuntimeError(
			fmt.Sprintf("failed reading key '%s'", c.Key), err, "")
	}
	if !ok {
		return aerrors.NewRuntimeError(
			fmt.Sprintf("key '%s' doesn't exist", c.Key), nil, "")
	}

	fmt.Fprintf(appCtx.Stdout, "%s\n", val)

	return nil
}
