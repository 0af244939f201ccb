package cookies

import "errors"

var (
	// ErrNotFound is returned when the cookie store path does not exist.
	ErrNotFound = errors.New("cookie store not found")
	// ErrUnsupported is returned for stores whose format is not recognized.
	ErrUnsupported = errors.New("unsupported cookie store")
)
