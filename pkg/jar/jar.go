package jar

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTTL is the lifetime given to cookies written without an explicit TTL.
	DefaultTTL = 365 * 24 * time.Hour
	// DefaultPath is the path given to cookies written without an explicit path.
	DefaultPath = "/"
)

// Jar is the adapter the session engine writes through. It adds TTL
// handling, validation and set-or-edit semantics on top of a Store.
// Readers never observe the gap inside a delete-then-insert: writes hold mu
// exclusively across both store calls.
type Jar struct {
	mu    sync.RWMutex
	store Store
	now   func() time.Time
	ttl   time.Duration
}

// Option configures a Jar.
type Option func(*Jar)

// WithClock overrides the time source used to compute expirations.
func WithClock(now func() time.Time) Option {
	return func(j *Jar) {
		if now != nil {
			j.now = now
		}
	}
}

// WithDefaultTTL overrides DefaultTTL for writes that pass ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(j *Jar) {
		if ttl > 0 {
			j.ttl = ttl
		}
	}
}

// New wraps store in a Jar.
func New(store Store, opts ...Option) *Jar {
	j := &Jar{
		store: store,
		now:   time.Now,
		ttl:   DefaultTTL,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Now returns the current time according to the jar's clock.
func (j *Jar) Now() time.Time {
	return j.now()
}

// Get returns the cookie stored under (origin, name), or nil if none.
func (j *Jar) Get(origin Origin, name string) (*Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.lookup(origin, name)
}

func (j *Jar) lookup(origin Origin, name string) (*Record, error) {
	rec, err := j.store.Lookup(origin, name)
	if err != nil {
		return nil, wrapStoreErr("get", origin, name, err)
	}
	return rec, nil
}

// Exists reports whether a cookie is stored under (origin, name).
// A store failure reads as absence.
func (j *Jar) Exists(origin Origin, name string) bool {
	rec, err := j.Get(origin, name)
	return err == nil && rec != nil
}

// Set writes a fresh cookie. Any existing cookie under (origin, name) is
// removed first so that every attribute, not only the value, is replaced.
// An empty path becomes DefaultPath and ttl <= 0 becomes the jar's default TTL.
func (j *Jar) Set(origin Origin, name, value, path string, ttl time.Duration) error {
	if err := validate(origin, name); err != nil {
		return err
	}
	if path == "" {
		path = DefaultPath
	}
	if ttl <= 0 {
		ttl = j.ttl
	}
	rec := Record{
		Origin:  origin,
		Name:    name,
		Value:   value,
		Path:    path,
		Expires: j.now().Add(ttl),
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.replace(rec)
}

// Edit overwrites the value of an existing cookie, keeping its path and
// expiration. It returns ErrCookieNotFound if there is no such cookie.
func (j *Jar) Edit(origin Origin, name, value string) error {
	if err := validate(origin, name); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	rec, err := j.lookup(origin, name)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("edit %s on %s: %w", name, origin, ErrCookieNotFound)
	}
	edited := *rec
	edited.Value = value
	return j.replace(edited)
}

// SetOrEdit edits the cookie if it exists and otherwise creates it with the
// default path and TTL.
func (j *Jar) SetOrEdit(origin Origin, name, value string) error {
	if j.Exists(origin, name) {
		return j.Edit(origin, name, value)
	}
	return j.Set(origin, name, value, DefaultPath, 0)
}

// Delete removes the cookie stored under (origin, name).
func (j *Jar) Delete(origin Origin, name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.store.Remove(origin, name); err != nil {
		return wrapStoreErr("delete", origin, name, err)
	}
	return nil
}

// Cookies enumerates the cookies scoped to origin.
func (j *Jar) Cookies(origin Origin) ([]Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	recs, err := j.store.Records(origin)
	if err != nil {
		return nil, wrapStoreErr("list", origin, "*", err)
	}
	return recs, nil
}

// ClearAll deletes every cookie in the store regardless of origin.
func (j *Jar) ClearAll() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.store.Purge(); err != nil {
		return wrapStoreErr("clear", "*", "*", err)
	}
	return nil
}

// Import writes rec as is, keeping its expiration. Records without an
// expiration get the jar's default TTL.
func (j *Jar) Import(rec Record) error {
	if err := validate(rec.Origin, rec.Name); err != nil {
		return err
	}
	if rec.Path == "" {
		rec.Path = DefaultPath
	}
	if !rec.HasExpiry() {
		rec.Expires = j.now().Add(j.ttl)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.replace(rec)
}

// replace removes and reinserts rec. The caller holds mu.
func (j *Jar) replace(rec Record) error {
	if err := j.store.Remove(rec.Origin, rec.Name); err != nil {
		return wrapStoreErr("set", rec.Origin, rec.Name, err)
	}
	if err := j.store.Insert(rec); err != nil {
		return wrapStoreErr("set", rec.Origin, rec.Name, err)
	}
	return nil
}

func validate(origin Origin, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCookie)
	}
	if origin == "" {
		return fmt.Errorf("%w: %s has no origin", ErrInvalidCookie, name)
	}
	return nil
}

// wrapStoreErr annotates err with the operation and key. Errors that do not
// already carry a jar sentinel are marked ErrStoreUnavailable.
func wrapStoreErr(op string, origin Origin, name string, err error) error {
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrInvalidCookie) {
		return fmt.Errorf("%s %s on %s: %w", op, name, origin, err)
	}
	return fmt.Errorf("%s %s on %s: %w: %w", op, name, origin, ErrStoreUnavailable, err)
}
