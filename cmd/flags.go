package cmd

import (
	"github.com/urfave/cli"
	"github.com/warpdl/credsync/common"
	"github.com/warpdl/credsync/internal/server"
	"github.com/warpdl/credsync/pkg/session"
)

var (
	primaryHost string
	mirrorHost  string
	tokenHost   string
	cookiesPath string
	debug       bool
	rpcAddr     string
	rpcSecret   string
)

var hostFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "primary-host",
		Usage:       "plain host origin",
		EnvVar:      common.PrimaryHostEnv,
		Value:       session.DefaultPrimaryHost,
		Destination: &primaryHost,
	},
	cli.StringFlag{
		Name:        "mirror-host",
		Usage:       "privileged mirror host origin",
		EnvVar:      common.MirrorHostEnv,
		Value:       session.DefaultMirrorHost,
		Destination: &mirrorHost,
	},
	cli.StringFlag{
		Name:        "token-host",
		Usage:       "origin receiving the auxiliary token (default: primary host)",
		EnvVar:      common.TokenHostEnv,
		Destination: &tokenHost,
	},
	cli.StringFlag{
		Name:        "cookies, c",
		Usage:       "seed the jar from a Firefox, Chrome or Netscape cookie store",
		Destination: &cookiesPath,
	},
	cli.BoolFlag{
		Name:        "debug, d",
		Usage:       "log to stderr",
		EnvVar:      common.DebugEnv,
		Destination: &debug,
	},
}

var serveFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:        "addr, a",
		Usage:       "listen address of the RPC server",
		EnvVar:      common.RPCAddrEnv,
		Value:       server.DefaultAddr,
		Destination: &rpcAddr,
	},
	cli.StringFlag{
		Name:        "secret, s",
		Usage:       "RPC bearer secret (default: stored in the system keyring)",
		EnvVar:      common.RPCSecretEnv,
		Destination: &rpcSecret,
	},
}, hostFlags...)
