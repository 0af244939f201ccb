// Package jar is the cookie jar layer of credsync. It defines the Store
// contract that a platform cookie jar must satisfy, a volatile in-memory
// implementation of it, and the Jar adapter that the session engine writes
// through.
//
// Cookies are keyed by (Origin, name). Cookie values are SENSITIVE: they are
// never logged and never formatted into error messages. Only the origin and
// the cookie name may appear in diagnostics.
package jar
