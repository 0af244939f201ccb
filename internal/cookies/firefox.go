package cookies

import (
	"database/sql"
	"fmt"
	"time"
)

// ParseFirefox reads the unexpired cookies of each domain (and its
// subdomains) from a Firefox moz_cookies database.
func ParseFirefox(db *sql.DB, now time.Time, domains ...string) ([]Cookie, error) {
	var cookies []Cookie
	for _, domain := range domains {
		rows, err := db.Query(`
        SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies
        WHERE (host = ? OR host = ? OR host LIKE ?)
          AND expiry > ?
        ORDER BY path DESC, name ASC
    `, domain, "."+domain, "%."+domain, now.Unix())
		if err != nil {
			return nil, fmt.Errorf("failed to query Firefox cookies: %w", err)
		}
		found, err := scanFirefox(rows)
		if err != nil {
			return nil, err
		}
		cookies = append(cookies, found...)
	}
	return cookies, nil
}

func scanFirefox(rows *sql.Rows) ([]Cookie, error) {
	defer rows.Close()
	var cookies []Cookie
	for rows.Next() {
		var (
			name, value, host, path string
			expiry                  int64
			isSecure, isHttpOnly    int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &isSecure, &isHttpOnly); err != nil {
			return nil, fmt.Errorf("failed to scan Firefox cookie row: %w", err)
		}
		cookies = append(cookies, Cookie{
			Name:     name,
			Value:    value,
			Domain:   host,
			Path:     path,
			Expiry:   time.Unix(expiry, 0),
			Secure:   isSecure != 0,
			HttpOnly: isHttpOnly != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate Firefox cookie rows: %w", err)
	}
	return cookies, nil
}
