// Package cookies reads credential cookies out of browser cookie stores so a
// fresh, volatile jar can be seeded from a browser the user is already
// logged in with. Firefox (moz_cookies SQLite), Chrome (cookies SQLite,
// unencrypted values only) and Netscape text files are supported.
//
// Cookie values are never logged or written anywhere except the temporary
// copy of a SQLite store, which is removed once read.
package cookies
