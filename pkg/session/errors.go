package session

import "errors"

var (
	// ErrNoCredentials means a response carried no cookie the engine cares
	// about. It is logged, never returned from a Task.
	ErrNoCredentials = errors.New("no known credential cookie in Set-Cookie header")
	// ErrClosed is returned by tasks submitted after Close.
	ErrClosed = errors.New("session closed")
	// ErrUnknownOrigin is returned when an operation names an origin that is
	// neither the primary nor the mirror host.
	ErrUnknownOrigin = errors.New("origin is not a configured credential host")
)
