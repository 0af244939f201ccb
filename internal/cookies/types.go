package cookies

import "time"

// Format identifies the format of a browser cookie store.
type Format int

const (
	// FormatUnknown means the format could not be detected.
	FormatUnknown Format = iota
	// FormatFirefox is the Firefox moz_cookies SQLite schema.
	FormatFirefox
	// FormatChrome is the Chrome cookies SQLite schema. Only unencrypted
	// values are usable.
	FormatChrome
	// FormatNetscape is the tab-separated Netscape text format.
	FormatNetscape
)

// Browser returns the display name of the browser that writes f.
func (f Format) Browser() string {
	switch f {
	case FormatFirefox:
		return "Firefox"
	case FormatChrome:
		return "Chrome"
	case FormatNetscape:
		return "Netscape"
	default:
		return "unknown"
	}
}

// Cookie is one cookie read from a browser store.
// Value is SENSITIVE: it must never be logged or put into an error.
type Cookie struct {
	Name  string
	Value string
	// Domain may carry a leading dot for subdomain-inclusive cookies.
	Domain string
	Path   string
	// Expiry is zero for session cookies.
	Expiry   time.Time
	Secure   bool
	HttpOnly bool
}

// Source describes where cookies were read from.
type Source struct {
	Path    string
	Format  Format
	Browser string
}
