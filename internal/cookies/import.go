package cookies

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/warpdl/credsync/pkg/jar"
	"github.com/warpdl/credsync/pkg/logger"
)

// Importer reads browser cookie stores from a filesystem.
type Importer struct {
	fs  afero.Fs
	now func() time.Time
	log logger.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithClock overrides the time used to drop expired cookies.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) {
		if now != nil {
			im.now = now
		}
	}
}

// WithLogger sets the logger for skipped lines and import summaries.
func WithLogger(l logger.Logger) Option {
	return func(im *Importer) {
		if l != nil {
			im.log = l
		}
	}
}

// NewImporter returns an Importer reading from fs. A nil fs means the local
// disk.
func NewImporter(fs afero.Fs, opts ...Option) *Importer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	im := &Importer{fs: fs, now: time.Now, log: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Read detects the format of the store at path and returns its unexpired
// cookies for the given domains.
func (im *Importer) Read(path string, domains ...string) ([]Cookie, *Source, error) {
	kind, err := sniff(im.fs, path)
	if err != nil {
		return nil, nil, err
	}
	now := im.now()
	switch kind {
	case kindNetscape:
		f, err := im.fs.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open cookie store: %w", err)
		}
		defer f.Close()
		cookies, err := ParseNetscape(f, now, im.log, domains...)
		if err != nil {
			return nil, nil, err
		}
		return cookies, newSource(path, FormatNetscape), nil
	case kindSQLite:
		return im.readSQLite(path, now, domains)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

func (im *Importer) readSQLite(path string, now time.Time, domains []string) ([]Cookie, *Source, error) {
	copyPath, cleanup, err := SafeCopy(im.fs, path)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	db, err := openSQLite(copyPath)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	format, err := sqliteFormat(db, path)
	if err != nil {
		return nil, nil, err
	}
	var cookies []Cookie
	if format == FormatFirefox {
		cookies, err = ParseFirefox(db, now, domains...)
	} else {
		cookies, err = ParseChrome(db, now, domains...)
	}
	if err != nil {
		return nil, nil, err
	}
	return cookies, newSource(path, format), nil
}

// Records reads the store at path and maps every cookie scoped to one of
// origins onto a jar record for that origin.
func (im *Importer) Records(path string, origins ...jar.Origin) ([]jar.Record, *Source, error) {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if h := o.Host(); h != "" {
			hosts = append(hosts, h)
		}
	}
	cookies, src, err := im.Read(path, hosts...)
	if err != nil {
		return nil, nil, err
	}

	var recs []jar.Record
	for _, c := range cookies {
		for _, o := range origins {
			if matchesDomain(c.Domain, o.Host()) {
				recs = append(recs, ToRecord(o, c))
				break
			}
		}
	}
	im.log.Info("read %d cookies from %s store", len(recs), src.Browser)
	return recs, src, nil
}

// ToRecord converts c to a jar record scoped to origin.
func ToRecord(origin jar.Origin, c Cookie) jar.Record {
	return jar.Record{
		Origin:  origin,
		Name:    c.Name,
		Value:   c.Value,
		Path:    c.Path,
		Expires: c.Expiry,
	}
}

func newSource(path string, f Format) *Source {
	return &Source{Path: path, Format: f, Browser: f.Browser()}
}
