package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
	"github.com/warpdl/credsync/common"
	"github.com/warpdl/credsync/internal/server"
	"github.com/warpdl/credsync/pkg/keyring"
	"github.com/warpdl/credsync/pkg/logger"
	"github.com/warpdl/credsync/pkg/session"
)

var (
	loadSecret = func(l logger.Logger) (string, bool, error) {
		return keyring.LoadOrCreate(keyring.NewDefault(common.ConfigDir(), l))
	}
	shutdownSignals = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		return ch, func() { signal.Stop(ch) }
	}
	listenAndServe = (*server.Server).ListenAndServe
)

// buildInfo is reported by system.getVersion.
var buildInfo BuildArgs

func serve(ctx *cli.Context) error {
	l := newLogger(true)
	defer l.Close()

	secret := rpcSecret
	if secret == "" {
		var (
			created bool
			err     error
		)
		secret, created, err = loadSecret(l)
		if err != nil {
			return fmt.Errorf("rpc secret: %w", err)
		}
		if created {
			l.Info("generated a new RPC secret")
		}
	}

	notifier := server.NewRPCNotifier(logger.WithPrefix(l, "rpc"))
	e, err := newEngine(l, session.WithChangeHook(notifier.OnSessionChange))
	if err != nil {
		notifier.Close()
		return err
	}
	defer e.Close()
	if err := e.seed(); err != nil {
		l.Warning("%v", err)
	}

	rs := server.NewRPCServer(&server.RPCConfig{
		Secret:    secret,
		Version:   buildInfo.Version,
		Commit:    buildInfo.Commit,
		BuildType: buildInfo.BuildType,
	}, e.sess, e.importer)
	srv := server.NewServer(rpcAddr, rs, notifier, logger.WithPrefix(l, "rpc"))

	sigs, stop := shutdownSignals()
	defer stop()
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		_ = srv.Shutdown(context.Background())
		return err
	case sig := <-sigs:
		l.Info("received %s, shutting down", sig)
	}
	sctx, cancel := context.WithTimeout(context.Background(), DEF_SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}
