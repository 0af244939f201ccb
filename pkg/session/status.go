package session

import (
	"time"

	"github.com/warpdl/credsync/pkg/jar"
)

// StatusKind tags a Status.
type StatusKind int

const (
	// StatusEmpty means no cookie, an empty value, or no expiration.
	StatusEmpty StatusKind = iota
	// StatusExpired means the cookie's expiration is at or before now.
	StatusExpired
	// StatusPlaceholder means the cookie holds PlaceholderValue.
	StatusPlaceholder
	// StatusPresent means the cookie holds a usable credential.
	StatusPresent
)

func (k StatusKind) String() string {
	switch k {
	case StatusEmpty:
		return "empty"
	case StatusExpired:
		return "expired"
	case StatusPlaceholder:
		return "placeholder"
	case StatusPresent:
		return "present"
	default:
		return "unknown"
	}
}

// Status is the classification of one stored cookie. Value is set only for
// StatusPlaceholder and StatusPresent.
type Status struct {
	Kind  StatusKind
	Value string
}

// Classify maps a stored cookie to its Status. Expiration is checked before
// the placeholder comparison, so an expired placeholder is StatusExpired.
func Classify(rec *jar.Record, now time.Time) Status {
	if rec == nil || rec.Value == "" || !rec.HasExpiry() {
		return Status{Kind: StatusEmpty}
	}
	if rec.ExpiredAt(now) {
		return Status{Kind: StatusExpired}
	}
	if rec.Value == PlaceholderValue {
		return Status{Kind: StatusPlaceholder, Value: rec.Value}
	}
	return Status{Kind: StatusPresent, Value: rec.Value}
}

// IsPresent reports whether the status holds a usable credential.
func (s Status) IsPresent() bool {
	return s.Kind == StatusPresent
}

// IsMissing reports whether the cookie is empty or expired.
func (s Status) IsMissing() bool {
	return s.Kind == StatusEmpty || s.Kind == StatusExpired
}

// Raw returns the stored value for placeholder and present cookies and ""
// otherwise.
func (s Status) Raw() string {
	return s.Value
}

// String never includes the cookie value.
func (s Status) String() string {
	return s.Kind.String()
}

// Pair is the member-id/pass-hash pair of one origin.
type Pair struct {
	MemberID Status
	PassHash Status
}

// Usable reports whether both halves are present.
func (p Pair) Usable() bool {
	return p.MemberID.IsPresent() && p.PassHash.IsPresent()
}
