package cookies

import (
	"database/sql"
	"fmt"
	"time"
)

// chromeEpochOffsetSeconds is the number of seconds between the Windows NT
// epoch (1601-01-01 UTC) and the Unix epoch.
const chromeEpochOffsetSeconds int64 = 11_644_473_600

// chromeToTime converts a Chrome timestamp (microseconds since 1601-01-01).
// Zero means a session cookie and maps to the zero time.
func chromeToTime(usec int64) time.Time {
	if usec == 0 {
		return time.Time{}
	}
	return time.Unix(usec/1_000_000-chromeEpochOffsetSeconds, 0)
}

func timeToChrome(t time.Time) int64 {
	return (t.Unix() + chromeEpochOffsetSeconds) * 1_000_000
}

// ParseChrome reads the cookies of each domain (and its subdomains) from a
// Chrome cookies database. Encrypted cookies (empty value) and expired ones
// are skipped; session cookies are kept.
func ParseChrome(db *sql.DB, now time.Time, domains ...string) ([]Cookie, error) {
	var cookies []Cookie
	for _, domain := range domains {
		rows, err := db.Query(`
        SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies
        WHERE (host_key = ? OR host_key = ? OR host_key LIKE ?)
          AND value != ''
          AND (expires_utc = 0 OR expires_utc > ?)
        ORDER BY path DESC, name ASC
    `, domain, "."+domain, "%."+domain, timeToChrome(now))
		if err != nil {
			return nil, fmt.Errorf("failed to query Chrome cookies: %w", err)
		}
		found, err := scanChrome(rows)
		if err != nil {
			return nil, err
		}
		cookies = append(cookies, found...)
	}
	return cookies, nil
}

func scanChrome(rows *sql.Rows) ([]Cookie, error) {
	defer rows.Close()
	var cookies []Cookie
	for rows.Next() {
		var (
			name, value, hostKey, path string
			expiresUTC                 int64
			isSecure, isHttpOnly       int
		)
		if err := rows.Scan(&name, &value, &hostKey, &path, &expiresUTC, &isSecure, &isHttpOnly); err != nil {
			return nil, fmt.Errorf("failed to scan Chrome cookie row: %w", err)
		}
		cookies = append(cookies, Cookie{
			Name:     name,
			Value:    value,
			Domain:   hostKey,
			Path:     path,
			Expiry:   chromeToTime(expiresUTC),
			Secure:   isSecure != 0,
			HttpOnly: isHttpOnly != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate Chrome cookie rows: %w", err)
	}
	return cookies, nil
}
