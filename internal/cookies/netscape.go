package cookies

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/warpdl/credsync/pkg/logger"
)

// ParseNetscape reads the cookies of each domain (and its subdomains) from
// a Netscape cookie file. Lines starting with # are skipped, except
// #HttpOnly_ which marks the cookie HttpOnly. Malformed lines are skipped
// with a warning naming the line number only. Expiry 0 is a session cookie.
func ParseNetscape(r io.Reader, now time.Time, l logger.Logger, domains ...string) ([]Cookie, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	var cookies []Cookie
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		httpOnly := false
		if rest, ok := strings.CutPrefix(line, "#HttpOnly_"); ok {
			httpOnly = true
			line = rest
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			l.Warning("skipping malformed Netscape cookie line %d", lineNo)
			continue
		}
		domain := fields[0]
		if !matchesAnyDomain(domain, domains) {
			continue
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			l.Warning("skipping cookie %s on line %d: invalid expiry", fields[5], lineNo)
			continue
		}

		var expires time.Time
		if expiry > 0 {
			expires = time.Unix(expiry, 0)
			if !expires.After(now) {
				continue
			}
		}
		cookies = append(cookies, Cookie{
			Name:     fields[5],
			Value:    fields[6],
			Domain:   domain,
			Path:     fields[2],
			Expiry:   expires,
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			HttpOnly: httpOnly,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read Netscape cookie file: %w", err)
	}
	return cookies, nil
}

func matchesAnyDomain(cookieDomain string, domains []string) bool {
	for _, d := range domains {
		if matchesDomain(cookieDomain, d) {
			return true
		}
	}
	return false
}

// matchesDomain reports whether cookieDomain is domain, .domain or a
// subdomain of it.
func matchesDomain(cookieDomain, domain string) bool {
	cookieDomain = strings.ToLower(cookieDomain)
	domain = strings.ToLower(domain)
	return cookieDomain == domain || strings.HasSuffix(cookieDomain, "."+domain)
}
