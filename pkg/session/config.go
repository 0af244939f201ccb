package session

import (
	"fmt"
	"strings"

	"github.com/warpdl/credsync/pkg/jar"
)

// Default hosts.
const (
	DefaultPrimaryHost = "https://e-hentai.org"
	DefaultMirrorHost  = "https://exhentai.org"
	DefaultTokenPath   = "/s/"
)

// Role names one of the origins the engine writes to.
type Role int

const (
	RolePrimary Role = iota
	RoleMirror
	RoleToken
)

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleMirror:
		return "mirror"
	case RoleToken:
		return "token"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Config names the hosts the engine synchronizes.
type Config struct {
	// PrimaryHost is the plain host.
	PrimaryHost jar.Origin
	// MirrorHost is the privileged host.
	MirrorHost jar.Origin
	// TokenHost receives the auxiliary skipserver token.
	TokenHost jar.Origin
	// TokenPath scopes the auxiliary token.
	TokenPath string
}

// DefaultConfig returns the production hosts. The token host defaults to
// the primary host.
func DefaultConfig() Config {
	primary := jar.MustParseOrigin(DefaultPrimaryHost)
	return Config{
		PrimaryHost: primary,
		MirrorHost:  jar.MustParseOrigin(DefaultMirrorHost),
		TokenHost:   primary,
		TokenPath:   DefaultTokenPath,
	}
}

// Validate checks that primary and mirror are set and distinct, filling in
// TokenHost and TokenPath defaults.
func (c *Config) Validate() error {
	if c.PrimaryHost == "" || c.MirrorHost == "" {
		return fmt.Errorf("config: primary and mirror hosts are required")
	}
	if c.PrimaryHost == c.MirrorHost {
		return fmt.Errorf("config: primary and mirror host must differ, both are %s", c.PrimaryHost)
	}
	if c.TokenHost == "" {
		c.TokenHost = c.PrimaryHost
	}
	if c.TokenPath == "" {
		c.TokenPath = DefaultTokenPath
	}
	return nil
}

// Origin resolves a role to its configured origin.
func (c Config) Origin(r Role) jar.Origin {
	switch r {
	case RolePrimary:
		return c.PrimaryHost
	case RoleMirror:
		return c.MirrorHost
	case RoleToken:
		return c.TokenHost
	default:
		return ""
	}
}

// Path returns the cookie path used for writes to role.
func (c Config) Path(r Role) string {
	if r == RoleToken {
		return c.TokenPath
	}
	return jar.DefaultPath
}

// CredentialHosts returns the primary and mirror origins.
func (c Config) CredentialHosts() []jar.Origin {
	return []jar.Origin{c.PrimaryHost, c.MirrorHost}
}

// isCredentialHost reports whether o is the primary or the mirror host.
func (c Config) isCredentialHost(o jar.Origin) bool {
	return o == c.PrimaryHost || o == c.MirrorHost
}

// ResolveHost maps "primary", "mirror" or a URL on either host to its origin.
func (c Config) ResolveHost(host string) (jar.Origin, error) {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "primary":
		return c.PrimaryHost, nil
	case "mirror":
		return c.MirrorHost, nil
	}
	o, err := jar.ParseOrigin(host)
	if err != nil {
		return "", err
	}
	if !c.isCredentialHost(o) {
		return "", fmt.Errorf("%w: %s", ErrUnknownOrigin, o)
	}
	return o, nil
}
