// Package session keeps the credential cookies of a primary host and its
// privileged mirror host consistent.
//
// It reads cookies through a jar.Jar, classifies them (Classify), parses
// Set-Cookie headers handed over by the caller (ParseSetCookie), copies a
// complete member-id/pass-hash pair from the host that has one to the host
// that lacks one (Synchronizer.Reconcile), and exposes all of that through
// Session. Every write goes through a single-writer queue so that concurrent
// callers never interleave individual cookie writes.
//
// The package performs no network I/O.
package session
