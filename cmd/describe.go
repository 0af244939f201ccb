package cmd

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/urfave/cli"
	"github.com/warpdl/credsync/cmd/common"
)

var errNoHost = errors.New("no host given, use primary, mirror or a URL")

func describe(ctx *cli.Context) error {
	host := ctx.Args().First()
	if host == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoHost)
	}
	e, err := newEngine(newLogger(debug))
	if err != nil {
		return err
	}
	defer e.Close()
	origin, err := e.sess.Config().ResolveHost(host)
	if err != nil {
		return err
	}
	if err := e.seed(); err != nil {
		common.FprintRuntimeErr(stderr, ctx, "describe", "seed", err)
	}
	creds := e.sess.DescribeCredentials(origin)
	fmt.Fprintf(stdout, "%s\n", origin)
	if len(creds) == 0 {
		fmt.Fprintln(stdout, "  no credential cookies")
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(creds)) {
		fmt.Fprintf(stdout, "  %s=%s\n", name, creds[name])
	}
	return nil
}
