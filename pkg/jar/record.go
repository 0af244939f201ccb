package jar

import "time"

// Record is a single cookie held by a Store.
type Record struct {
	// Origin is the host the cookie is scoped to.
	Origin Origin
	// Name is the cookie name.
	Name string
	// Value is the cookie value. SENSITIVE, never log.
	Value string
	// Path is the cookie path scope.
	Path string
	// Expires is the absolute expiration instant. The zero time means the
	// cookie carries no expiration.
	Expires time.Time
}

// HasExpiry reports whether the record carries an expiration instant.
func (r Record) HasExpiry() bool {
	return !r.Expires.IsZero()
}

// ExpiredAt reports whether the record has an expiration at or before now.
func (r Record) ExpiredAt(now time.Time) bool {
	return r.HasExpiry() && !r.Expires.After(now)
}

// Store is the contract of a platform cookie jar: origin-scoped lookup,
// insert, removal and enumeration. Implementations must be safe for
// concurrent use.
type Store interface {
	// Lookup returns the cookie stored under (origin, name), or nil if none.
	Lookup(origin Origin, name string) (*Record, error)
	// Insert stores rec, replacing any cookie with the same (origin, name).
	Insert(rec Record) error
	// Remove deletes the cookie stored under (origin, name). Removing a
	// cookie that does not exist is not an error.
	Remove(origin Origin, name string) error
	// Records enumerates the cookies scoped to origin.
	Records(origin Origin) ([]Record, error)
	// Purge deletes every cookie regardless of origin.
	Purge() error
}
