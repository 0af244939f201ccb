package cookies

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	_ "modernc.org/sqlite"
)

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// storeKind is what the first bytes of a file say about it.
type storeKind int

const (
	kindUnknown storeKind = iota
	kindSQLite
	kindNetscape
)

// DetectFormat reports the format of the cookie store at path. SQLite
// stores are copied aside to inspect their schema.
func DetectFormat(fs afero.Fs, path string) (Format, error) {
	kind, err := sniff(fs, path)
	if err != nil {
		return FormatUnknown, err
	}
	switch kind {
	case kindNetscape:
		return FormatNetscape, nil
	case kindSQLite:
		copyPath, cleanup, err := SafeCopy(fs, path)
		if err != nil {
			return FormatUnknown, err
		}
		defer cleanup()
		db, err := openSQLite(copyPath)
		if err != nil {
			return FormatUnknown, err
		}
		defer db.Close()
		return sqliteFormat(db, path)
	default:
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

// sniff reads the head of the file at path.
func sniff(fs afero.Fs, path string) (storeKind, error) {
	if err := checkStoreFile(fs, path); err != nil {
		return kindUnknown, err
	}
	f, err := fs.Open(path)
	if err != nil {
		return kindUnknown, fmt.Errorf("cannot open cookie store: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return kindUnknown, fmt.Errorf("cannot read cookie store: %w", err)
	}
	head = head[:n]
	if bytes.HasPrefix(head, sqliteMagic) {
		return kindSQLite, nil
	}

	firstLine := string(head)
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}
	firstLine = strings.TrimRight(firstLine, "\r")
	if firstLine == "# Netscape HTTP Cookie File" || firstLine == "# HTTP Cookie File" {
		return kindNetscape, nil
	}
	return kindUnknown, nil
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", path))
	if err != nil {
		return nil, fmt.Errorf("cannot open SQLite database: %w", err)
	}
	return db, nil
}

// sqliteFormat tells Firefox and Chrome stores apart by their cookie table.
// name is only used in errors.
func sqliteFormat(db *sql.DB, name string) (Format, error) {
	var table string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='moz_cookies'`).Scan(&table)
	if err == nil {
		return FormatFirefox, nil
	}
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cookies'`).Scan(&table)
	if err == nil {
		return FormatChrome, nil
	}
	return FormatUnknown, fmt.Errorf("%w: unknown SQLite schema at %s", ErrUnsupported, name)
}
