// Package cmd implements the credsync command line.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/warpdl/credsync/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func Execute(args []string, bArgs BuildArgs) error {
	buildInfo = bArgs
	app := cli.App{
		Name:                  "credsync",
		HelpName:              "credsync",
		Usage:                 "Keeps a gallery session signed in on both hosts.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "credsync <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:                   "status",
				Aliases:                []string{"st"},
				Usage:                  "report the credential status of both hosts",
				Description:            StatusDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 status,
				Flags:                  hostFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:                   "describe",
				Usage:                  "print the credential cookies of one host",
				UsageText:              "describe <primary|mirror|url> [flags]",
				Description:            DescribeDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 describe,
				Flags:                  hostFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:                   "import",
				Aliases:                []string{"i"},
				Usage:                  "import and reconcile a browser cookie store",
				UsageText:              "import [cookie-file] [flags]",
				Description:            ImportDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 importCookies,
				Flags:                  hostFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:                   "serve",
				Usage:                  "run the JSON-RPC bridge",
				Description:            ServeDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 serve,
				Flags:                  serveFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of credsync",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
