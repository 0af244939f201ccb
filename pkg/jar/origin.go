package jar

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Origin identifies a cookie-scoping host as "scheme://host[:port]".
type Origin string

// ParseOrigin normalizes raw into an Origin. Path, query and fragment are
// dropped and scheme and host are lower-cased. Only http and https are
// accepted. A host that is itself a public suffix (e.g. "org" or "co.uk")
// is rejected since no site can own cookies for it.
func ParseOrigin(raw string) (Origin, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidOrigin, raw, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: %q: unsupported scheme", ErrInvalidOrigin, raw)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidOrigin, raw)
	}
	if host != "localhost" && net.ParseIP(host) == nil {
		suffix, _ := publicsuffix.PublicSuffix(host)
		if suffix == host {
			return "", fmt.Errorf("%w: %q: host is a public suffix", ErrInvalidOrigin, raw)
		}
	}
	hostPort := host
	if port := u.Port(); port != "" {
		hostPort = net.JoinHostPort(host, port)
	}
	return Origin(scheme + "://" + hostPort), nil
}

// MustParseOrigin is like ParseOrigin but panics on error.
// Intended for package-level defaults and tests.
func MustParseOrigin(raw string) Origin {
	o, err := ParseOrigin(raw)
	if err != nil {
		panic(err)
	}
	return o
}

// Host returns the host part of the origin without scheme or port.
func (o Origin) Host() string {
	u, err := url.Parse(string(o))
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func (o Origin) String() string {
	return string(o)
}
