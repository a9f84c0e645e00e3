package cli

import (
	"fmt"

	actx "go.hackfix.me/hoard/app/context"
)

// The Version command prints the application version.
type Version struct{}

// Run the version command.
func (c *Version) Run(appCtx *actx.Context) error {
	fmt.Fprintf(appCtx.Stdout, "hoard %s\n", appCtx.Version)
	return nil
}
