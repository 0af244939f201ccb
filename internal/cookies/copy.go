package cookies

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// osFs is where SQLite copies are written; the driver only opens real files.
var osFs afero.Fs = afero.NewOsFs()

// SafeCopy copies the SQLite store at srcPath on src (plus its -wal and -shm
// companions when present) into a fresh temporary directory on the local
// disk, so the browser that owns the database is never locked out.
//
// The returned path points at the copy. cleanup removes the temporary
// directory and must be called once the copy has been read.
func SafeCopy(src afero.Fs, srcPath string) (copyPath string, cleanup func(), err error) {
	if err := checkStoreFile(src, srcPath); err != nil {
		return "", nil, err
	}

	tempDir, err := afero.TempDir(osFs, "", "credsync-cookies-")
	if err != nil {
		return "", nil, fmt.Errorf("cannot create temp directory: %w", err)
	}
	cleanup = func() {
		_ = osFs.RemoveAll(tempDir)
	}

	copyPath = filepath.Join(tempDir, filepath.Base(srcPath))
	if err := copyFile(src, srcPath, copyPath); err != nil {
		cleanup()
		return "", nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if ok, _ := afero.Exists(src, srcPath+suffix); ok {
			_ = copyFile(src, srcPath+suffix, copyPath+suffix)
		}
	}
	return copyPath, cleanup, nil
}

func copyFile(src afero.Fs, from, to string) error {
	in, err := src.Open(from)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", from, err)
	}
	defer in.Close()
	if err := afero.WriteReader(osFs, to, in); err != nil {
		return fmt.Errorf("cannot copy %s: %w", from, err)
	}
	return nil
}

// checkStoreFile rejects missing, directory and empty paths.
func checkStoreFile(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnsupported, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrUnsupported, path)
	}
	return nil
}
