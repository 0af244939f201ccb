package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	"github.com/warpdl/credsync/cmd/common"
	"github.com/warpdl/credsync/internal/cookies"
)

// locateStore finds the default browser's cookie store.
var locateStore = func() (*cookies.Source, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return cookies.Locate(cookieFs, cookies.DefaultCandidates(home, os.Getenv))
}

func importCookies(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		found, err := locateStore()
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Fprintf(stdout, "Using %s cookie store %s\n", found.Browser, found.Path)
		path = found.Path
	}
	e, err := newEngine(newLogger(debug))
	if err != nil {
		return err
	}
	defer e.Close()
	src, n, err := e.importFile(path)
	if err != nil {
		if src == nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		// Partial writes still leave a usable report.
		common.FprintRuntimeErr(stderr, ctx, "import", "write", err)
	}
	fmt.Fprintf(stdout, "Read %d cookies for the configured hosts from %s store %s\n\n", n, src.Browser, src.Path)
	printStatus(stdout, e.sess)
	return nil
}
