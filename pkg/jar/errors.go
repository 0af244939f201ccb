package jar

import "errors"

var (
	// ErrStoreUnavailable reports that the underlying cookie jar cannot be reached.
	ErrStoreUnavailable = errors.New("cookie store unavailable")
	// ErrInvalidCookie reports that a write would produce an invalid cookie,
	// e.g. one with an empty name or without an origin.
	ErrInvalidCookie = errors.New("invalid cookie")
	// ErrCookieNotFound is returned by Edit when there is nothing to edit.
	ErrCookieNotFound = errors.New("cookie not found")
	// ErrInvalidOrigin is returned by ParseOrigin.
	ErrInvalidOrigin = errors.New("invalid origin")
)
