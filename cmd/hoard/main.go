package main

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"go.hackfix.me/hoard/app"
)

func main() {
	a := app.New(
		app.WithFS(osfs.New()),
		app.WithFDs(os.Stdin, os.Stdout, colorable.NewColorable(os.Stderr)),
		app.WithStderrTTY(isatty.IsTerminal(os.Stderr.Fd())),
		app.WithConfigFiles(filepath.Join(xdg.ConfigHome, "hoard", "config.json")),
		app.WithExit(os.Exit),
	)

	a.FatalIfErrorf(a.Run(os.Args[1:]))
	a.FatalIfErrorf(a.Close())
}
