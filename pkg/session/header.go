package session

import (
	"iter"
	"net/http"
	"strings"
)

const (
	declarationSep = ", "
	segmentSep     = "; "
	setCookieKey   = "Set-Cookie"
)

// ParseSetCookie yields (name, value) for each of names that occurs in
// header, in the order of names. header is the raw Set-Cookie text, which may
// bundle several declarations separated by ", " whose segments are separated
// by "; ". The value is whatever follows the first segment starting with
// "name=". Attribute segments such as Path or Expires never match a cookie
// name and are ignored.
//
// The sequence is lazy and can be ranged over any number of times.
func ParseSetCookie(header string, names ...string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if header == "" {
			return
		}
		segments := splitSegments(header)
		for _, name := range names {
			if name == "" {
				continue
			}
			prefix := name + "="
			for _, seg := range segments {
				value, ok := strings.CutPrefix(seg, prefix)
				if !ok {
					continue
				}
				if !yield(name, value) {
					return
				}
				break
			}
		}
	}
}

func splitSegments(header string) []string {
	var segments []string
	for _, decl := range strings.Split(header, declarationSep) {
		segments = append(segments, strings.Split(decl, segmentSep)...)
	}
	return segments
}

// JoinSetCookie returns every Set-Cookie value of h joined with ", ", the
// way a platform response object folds repeated header fields.
func JoinSetCookie(h http.Header) string {
	if h == nil {
		return ""
	}
	return strings.Join(h.Values(setCookieKey), declarationSep)
}
