package keyring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/warpdl/credsync/pkg/logger"
)

const (
	secretFileName = "rpc.secret"
	secretFileMode = 0o600
)

// FileStore keeps the secret in a 0600 file under dir. It is the fallback
// when the system keyring is unavailable.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates a FileStore in dir on fs. A nil fs means the local
// disk.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileStore{fs: fs, dir: dir}
}

func (f *FileStore) path() string {
	return filepath.Join(f.dir, secretFileName)
}

// SetSecret generates a new secret and writes it atomically through a
// temporary file and a rename.
func (f *FileStore) SetSecret() (string, error) {
	if err := f.fs.MkdirAll(f.dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	secret, err := newSecret()
	if err != nil {
		return "", err
	}

	tmp, err := afero.TempFile(f.fs, f.dir, ".rpc.secret.tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(secret); err != nil {
		tmp.Close()
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("write secret: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Chmod(tmpPath, secretFileMode); err != nil {
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("set permissions: %w", err)
	}
	if err := f.fs.Rename(tmpPath, f.path()); err != nil {
		_ = f.fs.Remove(tmpPath)
		return "", fmt.Errorf("rename secret file: %w", err)
	}
	return secret, nil
}

func (f *FileStore) GetSecret() (string, error) {
	data, err := afero.ReadFile(f.fs, f.path())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoSecret
	}
	if err != nil {
		return "", err
	}
	secret := string(data)
	if err := checkSecret(secret); err != nil {
		return "", err
	}
	return secret, nil
}

func (f *FileStore) DeleteSecret() error {
	return f.fs.Remove(f.path())
}

// FallbackStore uses primary and switches to fallback for good once primary
// fails for a reason other than a missing secret.
type FallbackStore struct {
	primary  Provider
	fallback Provider
	log      logger.Logger
	degraded bool
}

// NewFallbackStore returns a Provider that prefers primary.
func NewFallbackStore(primary, fallback Provider, l logger.Logger) *FallbackStore {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &FallbackStore{primary: primary, fallback: fallback, log: l}
}

// NewDefault returns the OS keyring backed by a FileStore in configDir.
func NewDefault(configDir string, l logger.Logger) *FallbackStore {
	return NewFallbackStore(NewKeyring(), NewFileStore(nil, configDir), l)
}

func (s *FallbackStore) GetSecret() (string, error) {
	if !s.degraded {
		secret, err := s.primary.GetSecret()
		switch {
		case err == nil:
			return secret, nil
		case errors.Is(err, ErrNoSecret):
			// A file written while the keyring was down is still honored.
			return s.fallback.GetSecret()
		}
		s.degrade(err)
	}
	return s.fallback.GetSecret()
}

func (s *FallbackStore) SetSecret() (string, error) {
	if !s.degraded {
		secret, err := s.primary.SetSecret()
		if err == nil {
			return secret, nil
		}
		s.degrade(err)
	}
	return s.fallback.SetSecret()
}

func (s *FallbackStore) DeleteSecret() error {
	perr := s.primary.DeleteSecret()
	ferr := s.fallback.DeleteSecret()
	if perr == nil || ferr == nil {
		return nil
	}
	return errors.Join(perr, ferr)
}

func (s *FallbackStore) degrade(err error) {
	s.log.Warning("System keyring unavailable, using file storage: %v", err)
	s.degraded = true
}

// LoadOrCreate returns the stored secret, generating one when none exists.
// created reports whether a new secret was stored.
func LoadOrCreate(p Provider) (secret string, created bool, err error) {
	secret, err = p.GetSecret()
	if err == nil {
		return secret, false, nil
	}
	if !errors.Is(err, ErrNoSecret) {
		return "", false, err
	}
	secret, err = p.SetSecret()
	if err != nil {
		return "", false, err
	}
	return secret, true, nil
}
