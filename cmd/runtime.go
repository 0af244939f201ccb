package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/warpdl/credsync/internal/cookies"
	"github.com/warpdl/credsync/pkg/jar"
	"github.com/warpdl/credsync/pkg/logger"
	"github.com/warpdl/credsync/pkg/session"
)

var (
	stdout   io.Writer = os.Stdout
	stderr   io.Writer = os.Stderr
	cookieFs afero.Fs  = afero.NewOsFs()
)

// newLogger returns the console logger when verbose is set, plus the
// platform's system log when one is available.
func newLogger(verbose bool) logger.Logger {
	if !verbose {
		return logger.NewNopLogger()
	}
	console := logger.NewStandardLogger(log.New(stderr, "credsync: ", log.LstdFlags))
	if sys := systemLogger(); sys != nil {
		return logger.NewMultiLogger(console, sys)
	}
	return console
}

// sessionConfig builds the host configuration from the parsed flags.
func sessionConfig() (session.Config, error) {
	var (
		cfg session.Config
		err error
	)
	if cfg.PrimaryHost, err = jar.ParseOrigin(primaryHost); err != nil {
		return cfg, fmt.Errorf("primary host: %w", err)
	}
	if cfg.MirrorHost, err = jar.ParseOrigin(mirrorHost); err != nil {
		return cfg, fmt.Errorf("mirror host: %w", err)
	}
	if tokenHost != "" {
		if cfg.TokenHost, err = jar.ParseOrigin(tokenHost); err != nil {
			return cfg, fmt.Errorf("token host: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// engine is the volatile jar and the session over it, built once per
// command invocation.
type engine struct {
	log      logger.Logger
	jar      *jar.Jar
	sess     *session.Session
	importer *cookies.Importer
}

func newEngine(l logger.Logger, opts ...session.Option) (*engine, error) {
	cfg, err := sessionConfig()
	if err != nil {
		return nil, err
	}
	j := jar.New(jar.NewMemoryStore())
	opts = append([]session.Option{session.WithLogger(logger.WithPrefix(l, "session"))}, opts...)
	sess, err := session.New(j, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &engine{
		log:      l,
		jar:      j,
		sess:     sess,
		importer: cookies.NewImporter(cookieFs, cookies.WithLogger(logger.WithPrefix(l, "cookies"))),
	}, nil
}

// importFile copies the credential cookies of path into the jar and
// reconciles. It returns the detected store and the number of records read.
func (e *engine) importFile(path string) (*cookies.Source, int, error) {
	recs, src, err := e.importer.Records(path, e.sess.Config().CredentialHosts()...)
	if err != nil {
		return nil, 0, err
	}
	if err := e.sess.ImportRecords(recs).Wait(); err != nil {
		return src, len(recs), err
	}
	return src, len(recs), nil
}

// seed imports --cookies when it was given.
func (e *engine) seed() error {
	if cookiesPath == "" {
		return nil
	}
	src, n, err := e.importFile(cookiesPath)
	if err != nil {
		return fmt.Errorf("seed from %s: %w", cookiesPath, err)
	}
	e.log.Info("seeded %d cookies from %s store %s", n, src.Browser, src.Path)
	return nil
}

func (e *engine) Close() error {
	return e.sess.Close()
}
